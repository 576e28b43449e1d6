package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/trade"
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var po trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByPONumber finds a purchase order by its number
func (r *GormPurchaseOrderRepository) FindByPONumber(ctx context.Context, poNumber string) (*trade.PurchaseOrder, error) {
	var po trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&po, "po_number = ?", poNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByParentOrder finds every purchase order under a sales order
func (r *GormPurchaseOrderRepository) FindByParentOrder(ctx context.Context, parentOrderID uuid.UUID) ([]*trade.PurchaseOrder, error) {
	var pos []*trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("parent_order_id = ?", parentOrderID).
		Order("created_at ASC").
		Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}

// FindAll finds purchase orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*trade.PurchaseOrder], error) {
	return r.findPaginated(ctx, r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}), filter)
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status trade.POStatus, filter shared.Filter) (shared.Paginated[*trade.PurchaseOrder], error) {
	query := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).Where("status = ?", status)
	return r.findPaginated(ctx, query, filter)
}

// Save creates or updates a purchase order together with its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(po).Error; err != nil {
			return err
		}
		for i := range po.Items {
			po.Items[i].PurchaseOrderID = po.ID
			if err := tx.Save(&po.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves a purchase order with optimistic locking
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *trade.PurchaseOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po.Version = expectedVersion + 1
		po.UpdatedAt = time.Now()

		result := tx.Model(&trade.PurchaseOrder{}).
			Where("id = ? AND version = ?", po.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":             po.Status,
				"provider_doc_url":   po.ProviderDocURL,
				"estimated_delivery": po.EstimatedDelivery,
				"sent_at":            po.SentAt,
				"received_at":        po.ReceivedAt,
				"received_by":        po.ReceivedBy,
				"version":            po.Version,
				"updated_at":         po.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			po.Version = expectedVersion
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The purchase order has been modified by another user")
		}
		return nil
	})
}

// SupplierIDsWithPO returns the distinct suppliers that already have a
// purchase order under the given parent order
func (r *GormPurchaseOrderRepository) SupplierIDsWithPO(ctx context.Context, parentOrderID uuid.UUID) ([]uuid.UUID, error) {
	var supplierIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&trade.PurchaseOrder{}).
		Where("parent_order_id = ?", parentOrderID).
		Distinct().
		Pluck("supplier_id", &supplierIDs).Error; err != nil {
		return nil, err
	}
	return supplierIDs, nil
}

// GeneratePONumber generates the next purchase order number.
// Format: OC-YYYY-NNNNN (e.g., OC-2026-00013), sequence resets per year.
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context) (string, error) {
	return generateSequentialNumber(ctx, r.db, &trade.PurchaseOrder{}, "po_number", "OC")
}

func (r *GormPurchaseOrderRepository) findPaginated(ctx context.Context, query *gorm.DB, filter shared.Filter) (shared.Paginated[*trade.PurchaseOrder], error) {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("po_number ILIKE ? OR supplier_name ILIKE ? OR parent_order_number ILIKE ?",
			pattern, pattern, pattern)
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*trade.PurchaseOrder]{}, err
	}

	var pos []*trade.PurchaseOrder
	page := applyPagination(query, filter, PurchaseOrderSortFields).Preload("Items")
	if err := page.Find(&pos).Error; err != nil {
		return shared.Paginated[*trade.PurchaseOrder]{}, err
	}

	return shared.NewPaginated(pos, total, filter.Page, filter.PageSize), nil
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
