package notification

import (
	"context"
	"time"

	"github.com/erp-mx/backend/internal/domain/notification"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ListFilter represents filter options for the notification feed
type ListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Response represents a notification in API responses
type Response struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message,omitempty"`
	Link       string     `json:"link,omitempty"`
	TargetRole *string    `json:"target_role,omitempty"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// UnreadCountResponse carries the unread badge count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// Service serves the per-user notification feed. A user sees notifications
// addressed to them directly plus those addressed to any of their roles.
type Service struct {
	repo notification.Repository
}

// NewService creates a new notification Service
func NewService(repo notification.Repository) *Service {
	return &Service{repo: repo}
}

// ListForUser retrieves the notification feed for a user
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, roles []notification.Role, filter ListFilter) (shared.Paginated[Response], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	result, err := s.repo.FindForUser(ctx, userID, roles, domainFilter)
	if err != nil {
		return shared.Paginated[Response]{}, err
	}

	responses := make([]Response, 0, len(result.Items))
	for _, n := range result.Items {
		responses = append(responses, toResponse(n))
	}
	return shared.NewPaginated(responses, result.Total, result.Page, result.PageSize), nil
}

// CountUnread returns the unread badge count for a user
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID, roles []notification.Role) (*UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, userID, roles)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: count}, nil
}

// MarkRead marks a single notification as read
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*Response, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n.MarkRead()
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	response := toResponse(n)
	return &response, nil
}

// MarkAllRead marks every directly addressed notification of a user as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func toResponse(n *notification.Notification) Response {
	var role *string
	if n.TargetRole != nil {
		r := string(*n.TargetRole)
		role = &r
	}
	return Response{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		Link:       n.Link,
		TargetRole: role,
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}
