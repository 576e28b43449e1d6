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

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by its ID
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a sales order by its order number
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByQuoteID finds the sales order created from a quote
func (r *GormSalesOrderRepository) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "quote_id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds sales orders with filtering and pagination
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*trade.SalesOrder], error) {
	return r.findPaginated(ctx, r.db.WithContext(ctx).Model(&trade.SalesOrder{}), filter)
}

// FindByStatus finds sales orders by status
func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) (shared.Paginated[*trade.SalesOrder], error) {
	query := r.db.WithContext(ctx).Model(&trade.SalesOrder{}).Where("status = ?", status)
	return r.findPaginated(ctx, query, filter)
}

// Save creates or updates a sales order together with its items
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return saveOrderItems(tx, order)
	})
}

// SaveWithLock saves a sales order with optimistic locking
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.Version = expectedVersion + 1
		order.UpdatedAt = time.Now()

		result := tx.Model(&trade.SalesOrder{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]interface{}{
				"client_oc_folio": order.ClientOCFolio,
				"client_oc_url":   order.ClientOCURL,
				"sales_rep_id":    order.SalesRepID,
				"status":          order.Status,
				"approved_by":     order.ApprovedBy,
				"approved_at":     order.ApprovedAt,
				"notes":           order.Notes,
				"version":         order.Version,
				"updated_at":      order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			order.Version = expectedVersion
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}
		return nil
	})
}

// ClaimForApproval flips PENDING → APPROVED in one conditional UPDATE.
// RowsAffected tells concurrent approvers apart: exactly one caller sees 1,
// every other caller sees 0 and reports false.
func (r *GormSalesOrderRepository) ClaimForApproval(ctx context.Context, id uuid.UUID, approver uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&trade.SalesOrder{}).
		Where("id = ? AND status = ?", id, trade.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":      trade.OrderStatusApproved,
			"approved_by": approver,
			"approved_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Count counts all sales orders
func (r *GormSalesOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&trade.SalesOrder{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts sales orders by status
func (r *GormSalesOrderRepository) CountByStatus(ctx context.Context, status trade.OrderStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.SalesOrder{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates the next order number.
// Format: PED-YYYY-NNNNN (e.g., PED-2026-00007), sequence resets per year.
func (r *GormSalesOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	return generateSequentialNumber(ctx, r.db, &trade.SalesOrder{}, "order_number", "PED")
}

func saveOrderItems(tx *gorm.DB, order *trade.SalesOrder) error {
	currentItemIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
			Delete(&trade.OrderItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&trade.OrderItem{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormSalesOrderRepository) findPaginated(ctx context.Context, query *gorm.DB, filter shared.Filter) (shared.Paginated[*trade.SalesOrder], error) {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR client_name ILIKE ? OR quote_folio ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*trade.SalesOrder]{}, err
	}

	var orders []*trade.SalesOrder
	page := applyPagination(query, filter, SalesOrderSortFields).Preload("Items")
	if err := page.Find(&orders).Error; err != nil {
		return shared.Paginated[*trade.SalesOrder]{}, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
