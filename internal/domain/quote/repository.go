package quote

import (
	"context"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence interface for quotes
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindByFolio(ctx context.Context, folio string) (*Quote, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Quote], error)
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) (shared.Paginated[*Quote], error)
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) (shared.Paginated[*Quote], error)
	Save(ctx context.Context, q *Quote) error
	SaveWithLock(ctx context.Context, q *Quote, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	// GenerateFolio issues the next sequential quote folio, COT-YYYY-NNNNN.
	// The sequence resets each calendar year.
	GenerateFolio(ctx context.Context) (string, error)
}
