package persistence

import (
	"context"

	"gorm.io/gorm"

	apptrade "github.com/erp-mx/backend/internal/application/trade"
)

// GormTransactionScope implements the trade TransactionScope using GORM
// transactions. The quote-to-order handoff runs through here so the order
// insert and the quote's ORDERED flip commit or roll back as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// WithinTransaction runs fn with repositories bound to one transaction
func (s *GormTransactionScope) WithinTransaction(ctx context.Context, fn func(repos apptrade.TxRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(apptrade.TxRepos{
			Quotes:         NewGormQuoteRepository(tx),
			SalesOrders:    NewGormSalesOrderRepository(tx),
			PurchaseOrders: NewGormPurchaseOrderRepository(tx),
		})
	})
}

var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)
