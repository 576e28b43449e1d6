package trade

import (
	"context"

	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/trade"
)

// TxRepos bundles the repositories bound to one database transaction
type TxRepos struct {
	Quotes         quote.Repository
	SalesOrders    trade.SalesOrderRepository
	PurchaseOrders trade.PurchaseOrderRepository
}

// TransactionScope runs a function with transaction-bound repositories.
// Everything written inside fn commits or rolls back as one unit. The
// order-from-quote handoff depends on this: a quote must never be ORDERED
// without its order row, nor the reverse.
type TransactionScope interface {
	WithinTransaction(ctx context.Context, fn func(repos TxRepos) error) error
}
