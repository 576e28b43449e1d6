package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp-mx/backend/internal/domain/notification"
	"github.com/erp-mx/backend/internal/domain/shared"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindForUser finds notifications addressed to the user directly or to any
// of the user's roles
func (r *GormNotificationRepository) FindForUser(ctx context.Context, userID uuid.UUID, roles []notification.Role, filter shared.Filter) (shared.Paginated[*notification.Notification], error) {
	query := r.forUser(ctx, userID, roles)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*notification.Notification]{}, err
	}

	var notifications []*notification.Notification
	page := applyPagination(query, filter, CommonNotificationSortFields)
	if err := page.Find(&notifications).Error; err != nil {
		return shared.Paginated[*notification.Notification]{}, err
	}

	return shared.NewPaginated(notifications, total, filter.Page, filter.PageSize), nil
}

// CountUnread counts unread notifications for the user
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID, roles []notification.Role) (int64, error) {
	var count int64
	if err := r.forUser(ctx, userID, roles).
		Where("read = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// MarkAllRead marks every notification addressed directly to the user as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("target_user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    now,
			"updated_at": now,
		}).Error
}

func (r *GormNotificationRepository) forUser(ctx context.Context, userID uuid.UUID, roles []notification.Role) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&notification.Notification{})
	if len(roles) > 0 {
		return query.Where("target_user_id = ? OR target_role IN ?", userID, roles)
	}
	return query.Where("target_user_id = ?", userID)
}

// CommonNotificationSortFields contains allowed sort fields for notifications
var CommonNotificationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"read":       true,
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
