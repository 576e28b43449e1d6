package trade

import (
	"context"
	"fmt"

	"github.com/erp-mx/backend/internal/domain/notification"
	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesOrderService handles the quote → order → purchase order lifecycle
type SalesOrderService struct {
	orderRepo trade.SalesOrderRepository
	poRepo    trade.PurchaseOrderRepository
	quoteRepo quote.Repository
	notifRepo notification.Repository
	scope     TransactionScope
	logger    *zap.Logger
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(orderRepo trade.SalesOrderRepository, poRepo trade.PurchaseOrderRepository, quoteRepo quote.Repository, notifRepo notification.Repository, scope TransactionScope, logger *zap.Logger) *SalesOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesOrderService{
		orderRepo: orderRepo,
		poRepo:    poRepo,
		quoteRepo: quoteRepo,
		notifRepo: notifRepo,
		scope:     scope,
		logger:    logger,
	}
}

// CreateFromQuote creates a sales order from an accepted quote. The order
// insert and the quote's ORDERED flip commit in one transaction.
func (s *SalesOrderService) CreateFromQuote(ctx context.Context, req CreateOrderRequest, actor uuid.UUID) (*CreateOrderResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}
	if q.Status == quote.StatusOrdered {
		return nil, shared.NewConflictError("Quote", q.ID, quote.StatusAccepted.String(), q.Status.String())
	}
	if q.Status != quote.StatusAccepted {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot create an order from quote %s in %s status", q.Folio, q.Status))
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]trade.OrderItem, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, trade.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			BasePrice:    item.BasePrice,
			ImportCost:   item.ImportCost,
			FreightCost:  item.FreightCost,
			Margin:       item.Margin,
			UnitPrice:    item.UnitPrice,
			Currency:     item.Currency,
			SupplierID:   item.SupplierID,
			SupplierName: item.SupplierName,
		})
	}

	order, err := trade.NewSalesOrder(orderNumber, q.ID, q.Folio, q.ClientID, q.ClientName, actor, items, trade.Totals{
		Subtotal:     q.Financials.Subtotal,
		TaxRate:      q.Financials.TaxRate,
		TaxAmount:    q.Financials.TaxAmount,
		Total:        q.Financials.Total,
		Currency:     q.Financials.Currency,
		ExchangeRate: q.Financials.ExchangeRate,
	})
	if err != nil {
		return nil, err
	}

	var warnings shared.Warnings
	switch {
	case req.SalesRepID != nil:
		order.SetSalesRep(*req.SalesRepID)
	case q.GetCreatedBy() != nil:
		order.SetSalesRep(*q.GetCreatedBy())
	default:
		warnings.Add(shared.WarningCodeMissingSalesOwner,
			"Order %s has no sales owner; progress notifications go to its creator", orderNumber)
	}
	if req.ClientOCFolio != "" || req.ClientOCURL != "" {
		order.SetClientOC(req.ClientOCFolio, req.ClientOCURL)
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}

	err = s.scope.WithinTransaction(ctx, func(repos TxRepos) error {
		if err := repos.SalesOrders.Save(ctx, order); err != nil {
			return err
		}
		if err := q.MarkOrdered(order.ID); err != nil {
			return err
		}
		return repos.Quotes.SaveWithLock(ctx, q, q.GetVersion())
	})
	if err != nil {
		return nil, err
	}

	s.notifyRole(ctx, notification.RoleAdmin,
		"Order awaiting approval",
		fmt.Sprintf("Order %s for %s is pending approval", order.OrderNumber, order.ClientName),
		"/orders/"+order.ID.String())

	return &CreateOrderResponse{
		Order:    ToOrderResponse(order),
		Warnings: warnings,
	}, nil
}

// Approve approves a pending order and splits it into purchase orders, one
// per distinct supplier. The status flip is a conditional update on PENDING,
// so of two concurrent approvers exactly one wins; the loser gets a
// ConflictError naming the actual status.
func (s *SalesOrderService) Approve(ctx context.Context, orderID, approver uuid.UUID) (*ApproveOrderResponse, error) {
	claimed, err := s.orderRepo.ClaimForApproval(ctx, orderID, approver)
	if err != nil {
		return nil, err
	}
	if !claimed {
		order, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, shared.NewConflictError("SalesOrder", orderID, trade.OrderStatusPending.String(), order.Status.String())
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pos, warnings, err := s.createPurchaseOrders(ctx, order, approver)
	if err != nil {
		return nil, err
	}

	s.notifyRole(ctx, notification.RoleWarehouse,
		"Purchase orders created",
		fmt.Sprintf("Order %s was approved: %d purchase orders to send", order.OrderNumber, len(pos)),
		"/orders/"+order.ID.String())

	return &ApproveOrderResponse{
		Order:          ToOrderResponse(order),
		PurchaseOrders: ToPurchaseOrderResponses(pos),
		Warnings:       warnings,
	}, nil
}

// RetryPurchaseOrders re-runs the supplier split for an approved order.
// Suppliers that already have a purchase order under this order are skipped,
// so a retry after a partial write never duplicates a commitment.
func (s *SalesOrderService) RetryPurchaseOrders(ctx context.Context, orderID, actor uuid.UUID) (*ApproveOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != trade.OrderStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot create purchase orders for order %s in %s status", order.OrderNumber, order.Status))
	}

	pos, warnings, err := s.createPurchaseOrders(ctx, order, actor)
	if err != nil {
		return nil, err
	}

	return &ApproveOrderResponse{
		Order:          ToOrderResponse(order),
		PurchaseOrders: ToPurchaseOrderResponses(pos),
		Warnings:       warnings,
	}, nil
}

// createPurchaseOrders writes one purchase order per supplier group that
// does not already have one. Writes are sequential; a failure part-way
// surfaces as a PartialWriteError naming the suppliers already covered.
func (s *SalesOrderService) createPurchaseOrders(ctx context.Context, order *trade.SalesOrder, actor uuid.UUID) ([]*trade.PurchaseOrder, shared.Warnings, error) {
	groups, warnings := trade.SplitBySupplier(order)

	existing, err := s.poRepo.SupplierIDsWithPO(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	covered := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		covered[id] = true
	}

	created := make([]*trade.PurchaseOrder, 0, len(groups))
	createdSuppliers := append([]uuid.UUID(nil), existing...)

	for _, group := range groups {
		if covered[group.SupplierID] {
			continue
		}

		poNumber, err := s.poRepo.GeneratePONumber(ctx)
		if err != nil {
			return nil, nil, s.partialWrite(order, createdSuppliers, err)
		}
		po, err := trade.NewPurchaseOrder(poNumber, order.ID, order.OrderNumber, group.SupplierID, group.SupplierName, actor, group.Items)
		if err != nil {
			return nil, nil, s.partialWrite(order, createdSuppliers, err)
		}
		if err := s.poRepo.Save(ctx, po); err != nil {
			return nil, nil, s.partialWrite(order, createdSuppliers, err)
		}

		created = append(created, po)
		createdSuppliers = append(createdSuppliers, group.SupplierID)
	}

	return created, warnings, nil
}

func (s *SalesOrderService) partialWrite(order *trade.SalesOrder, createdSuppliers []uuid.UUID, cause error) error {
	if len(createdSuppliers) == 0 {
		return cause
	}
	s.logger.Error("purchase order split failed part-way",
		zap.String("order_number", order.OrderNumber),
		zap.Int("created", len(createdSuppliers)),
		zap.Error(cause))
	return &shared.PartialWriteError{
		Entity:             "SalesOrder",
		EntityID:           order.ID,
		CreatedSupplierIDs: createdSuppliers,
		Cause:              cause,
	}
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a sales order by its number
func (s *SalesOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders with filtering and pagination
func (s *SalesOrderService) List(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderListItemResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	var (
		result shared.Paginated[*trade.SalesOrder]
		err    error
	)
	if filter.Status != nil {
		result, err = s.orderRepo.FindByStatus(ctx, trade.OrderStatus(*filter.Status), domainFilter)
	} else {
		result, err = s.orderRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return shared.Paginated[OrderListItemResponse]{}, err
	}

	return shared.NewPaginated(ToOrderListItemResponses(result.Items), result.Total, result.Page, result.PageSize), nil
}

// ListPurchaseOrders retrieves the purchase orders split from one order
func (s *SalesOrderService) ListPurchaseOrders(ctx context.Context, orderID uuid.UUID) ([]PurchaseOrderResponse, error) {
	pos, err := s.poRepo.FindByParentOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponses(pos), nil
}

// Cancel cancels a pending order
func (s *SalesOrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, order.GetVersion()); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// OverrideStatus force-sets an order status outside the normal ladder.
// Restricted to administrators at the transport layer; logged here.
func (s *SalesOrderService) OverrideStatus(ctx context.Context, id uuid.UUID, req OverrideStatusRequest, actor uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.OverrideStatus(trade.OrderStatus(req.Status), actor); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, order.GetVersion()); err != nil {
		return nil, err
	}

	s.logger.Warn("order status overridden",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", previous.String()),
		zap.String("to", req.Status),
		zap.String("actor", actor.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// notifyRole inserts a role-targeted notification. Failures are logged and
// swallowed: a notification must never roll back the write it announces.
func (s *SalesOrderService) notifyRole(ctx context.Context, role notification.Role, title, message, link string) {
	n, err := notification.NewRoleNotification(role, title, message, link)
	if err != nil {
		s.logger.Error("build notification", zap.Error(err))
		return
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		s.logger.Error("save notification", zap.String("title", title), zap.Error(err))
	}
}
