package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
)

// GormQuoteRepository implements quote.Repository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	var q quote.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByFolio finds a quote by its folio
func (r *GormQuoteRepository) FindByFolio(ctx context.Context, folio string) (*quote.Quote, error) {
	var q quote.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&q, "folio = ?", folio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindAll finds quotes with filtering and pagination
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*quote.Quote], error) {
	return r.findPaginated(ctx, r.db.WithContext(ctx).Model(&quote.Quote{}), filter)
}

// FindByClient finds quotes for a client
func (r *GormQuoteRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) (shared.Paginated[*quote.Quote], error) {
	query := r.db.WithContext(ctx).Model(&quote.Quote{}).Where("client_id = ?", clientID)
	return r.findPaginated(ctx, query, filter)
}

// FindByStatus finds quotes by status
func (r *GormQuoteRepository) FindByStatus(ctx context.Context, status quote.Status, filter shared.Filter) (shared.Paginated[*quote.Quote], error) {
	query := r.db.WithContext(ctx).Model(&quote.Quote{}).Where("status = ?", status)
	return r.findPaginated(ctx, query, filter)
}

// Save creates or updates a quote together with its items
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(q).Error; err != nil {
			return err
		}
		return saveQuoteItems(tx, q)
	})
}

// SaveWithLock saves a quote with optimistic locking. The caller passes the
// version it loaded; a mismatch means another writer got there first.
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, q *quote.Quote, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q.Version = expectedVersion + 1
		q.UpdatedAt = time.Now()

		result := tx.Model(&quote.Quote{}).
			Where("id = ? AND version = ?", q.ID, expectedVersion).
			Updates(map[string]interface{}{
				"folio":         q.Folio,
				"client_id":     q.ClientID,
				"client_name":   q.ClientName,
				"subtotal":      q.Financials.Subtotal,
				"tax_rate":      q.Financials.TaxRate,
				"tax_amount":    q.Financials.TaxAmount,
				"total":         q.Financials.Total,
				"currency":      q.Financials.Currency,
				"exchange_rate": q.Financials.ExchangeRate,
				"status":        q.Status,
				"order_id":      q.OrderID,
				"notes":         q.Notes,
				"version":       q.Version,
				"updated_at":    q.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			q.Version = expectedVersion
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The quote has been modified by another user")
		}

		return saveQuoteItems(tx, q)
	})
}

func saveQuoteItems(tx *gorm.DB, q *quote.Quote) error {
	currentItemIDs := make([]uuid.UUID, len(q.Items))
	for i, item := range q.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("quote_id = ? AND id NOT IN ?", q.ID, currentItemIDs).
			Delete(&quote.Item{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("quote_id = ?", q.ID).
			Delete(&quote.Item{}).Error; err != nil {
			return err
		}
	}

	for i := range q.Items {
		q.Items[i].QuoteID = q.ID
		if err := tx.Save(&q.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a quote and its items
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&quote.Item{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&quote.Quote{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts all quotes
func (r *GormQuoteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&quote.Quote{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts quotes by status
func (r *GormQuoteRepository) CountByStatus(ctx context.Context, status quote.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&quote.Quote{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateFolio generates the next quote folio.
// Format: COT-YYYY-NNNNN (e.g., COT-2026-00042), sequence resets per year.
func (r *GormQuoteRepository) GenerateFolio(ctx context.Context) (string, error) {
	return generateSequentialNumber(ctx, r.db, &quote.Quote{}, "folio", "COT")
}

// findPaginated runs the filtered query twice, once for the total and once
// for the page
func (r *GormQuoteRepository) findPaginated(ctx context.Context, query *gorm.DB, filter shared.Filter) (shared.Paginated[*quote.Quote], error) {
	query = r.applySearch(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*quote.Quote]{}, err
	}

	var quotes []*quote.Quote
	page := applyPagination(query, filter, QuoteSortFields).Preload("Items")
	if err := page.Find(&quotes).Error; err != nil {
		return shared.Paginated[*quote.Quote]{}, err
	}

	return shared.NewPaginated(quotes, total, filter.Page, filter.PageSize), nil
}

func (r *GormQuoteRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("folio ILIKE ? OR client_name ILIKE ?", pattern, pattern)
	}
	return query
}

// generateSequentialNumber issues the next number in a PREFIX-YYYY-NNNNN
// sequence by reading the highest existing number for the current year.
// Collisions under concurrency fall back to probing the next free slot.
func generateSequentialNumber(ctx context.Context, db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	year := time.Now().Year()
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, year)

	var last string
	err := db.WithContext(ctx).
		Model(model).
		Where(column+" LIKE ?", yearPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	number := fmt.Sprintf("%s%05d", yearPrefix, nextNum)

	for i := 0; i < 100; i++ {
		var count int64
		if err := db.WithContext(ctx).Model(model).
			Where(column+" = ?", number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			break
		}
		nextNum++
		number = fmt.Sprintf("%s%05d", yearPrefix, nextNum)
	}

	return number, nil
}

// applyPagination applies ordering and pagination to a query
func applyPagination(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ quote.Repository = (*GormQuoteRepository)(nil)
