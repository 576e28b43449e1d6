package trade

import (
	"context"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesOrderRepository defines the persistence interface for sales orders
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)
	FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*SalesOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*SalesOrder], error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) (shared.Paginated[*SalesOrder], error)
	Save(ctx context.Context, o *SalesOrder) error
	SaveWithLock(ctx context.Context, o *SalesOrder, expectedVersion int) error
	// ClaimForApproval performs a conditional status flip PENDING → APPROVED
	// in a single statement. It returns false when the order was no longer
	// PENDING, which is how concurrent approvers lose the race.
	ClaimForApproval(ctx context.Context, id uuid.UUID, approver uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status OrderStatus) (int64, error)
	// GenerateOrderNumber issues the next sequential order number,
	// PED-YYYY-NNNNN. The sequence resets each calendar year.
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// PurchaseOrderRepository defines the persistence interface for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByPONumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)
	FindByParentOrder(ctx context.Context, parentOrderID uuid.UUID) ([]*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*PurchaseOrder], error)
	FindByStatus(ctx context.Context, status POStatus, filter shared.Filter) (shared.Paginated[*PurchaseOrder], error)
	Save(ctx context.Context, po *PurchaseOrder) error
	SaveWithLock(ctx context.Context, po *PurchaseOrder, expectedVersion int) error
	// SupplierIDsWithPO returns the suppliers that already have a purchase
	// order under the given parent order. A retried approval skips these.
	SupplierIDsWithPO(ctx context.Context, parentOrderID uuid.UUID) ([]uuid.UUID, error)
	// GeneratePONumber issues the next sequential purchase order number,
	// OC-YYYY-NNNNN. The sequence resets each calendar year.
	GeneratePONumber(ctx context.Context) (string, error)
}
