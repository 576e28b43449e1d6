package partner

import (
	"context"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the persistence interface for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Client], error)
	Save(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository defines the persistence interface for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Supplier], error)
	Save(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}
