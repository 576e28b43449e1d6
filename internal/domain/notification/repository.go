package notification

import (
	"context"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence interface for notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindForUser(ctx context.Context, userID uuid.UUID, roles []Role, filter shared.Filter) (shared.Paginated[*Notification], error)
	CountUnread(ctx context.Context, userID uuid.UUID, roles []Role) (int64, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
