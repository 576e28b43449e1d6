package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/erp-mx/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	orderRepo *MockSalesOrderRepository
	poRepo    *MockPurchaseOrderRepository
	quoteRepo *MockQuoteRepository
	notifRepo *MockNotificationRepository
	service   *SalesOrderService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		orderRepo: new(MockSalesOrderRepository),
		poRepo:    new(MockPurchaseOrderRepository),
		quoteRepo: new(MockQuoteRepository),
		notifRepo: new(MockNotificationRepository),
	}
	scope := &fakeScope{repos: TxRepos{
		Quotes:         f.quoteRepo,
		SalesOrders:    f.orderRepo,
		PurchaseOrders: f.poRepo,
	}}
	f.service = NewSalesOrderService(f.orderRepo, f.poRepo, f.quoteRepo, f.notifRepo, scope, nil)
	return f
}

func acceptedQuote(t *testing.T, suppliers ...uuid.UUID) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote("COT-2026-00042", uuid.New(), decimal.NewFromFloat(0.16), valueobject.MXN, decimal.NewFromFloat(18.20))
	require.NoError(t, err)
	require.NoError(t, q.SetClient(uuid.New(), "ACME SA de CV"))
	if len(suppliers) == 0 {
		suppliers = []uuid.UUID{uuid.New()}
	}
	for idx, supplierID := range suppliers {
		name := ""
		if supplierID != uuid.Nil {
			name = "Proveedor"
		}
		_, err := q.AddItem(uuid.New(), "Product", idx+1, decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.NewFromFloat(0.30), valueobject.MXN, supplierID, name)
		require.NoError(t, err)
	}
	require.NoError(t, q.Finalize())
	require.NoError(t, q.Accept())
	return q
}

func approvedOrder(t *testing.T, suppliers ...uuid.UUID) *trade.SalesOrder {
	t.Helper()
	if len(suppliers) == 0 {
		suppliers = []uuid.UUID{uuid.New()}
	}
	items := make([]trade.OrderItem, 0, len(suppliers))
	for idx, supplierID := range suppliers {
		items = append(items, orderItemForTest("Product", idx+1, 100, supplierID))
	}
	order, err := trade.NewSalesOrder("PED-2026-00007", uuid.New(), "COT-2026-00042", uuid.New(), "ACME SA de CV", uuid.New(), items, trade.Totals{Currency: valueobject.MXN})
	require.NoError(t, err)
	require.NoError(t, order.Approve(uuid.New()))
	return order
}

func orderItemForTest(name string, quantity int, basePrice float64, supplierID uuid.UUID) trade.OrderItem {
	supplierName := ""
	if supplierID != uuid.Nil {
		supplierName = "Proveedor"
	}
	return trade.OrderItem{
		ProductID:    uuid.New(),
		ProductName:  name,
		Quantity:     quantity,
		BasePrice:    decimal.NewFromFloat(basePrice),
		Margin:       decimal.NewFromFloat(0.30),
		UnitPrice:    decimal.NewFromFloat(basePrice * 1.30),
		Currency:     valueobject.MXN,
		SupplierID:   supplierID,
		SupplierName: supplierName,
	}
}

func TestCreateFromQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("creates order and marks quote ordered in one scope", func(t *testing.T) {
		f := newServiceFixture()
		q := acceptedQuote(t)

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.orderRepo.On("GenerateOrderNumber", ctx).Return("PED-2026-00007", nil)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.SalesOrder")).Return(nil)
		f.quoteRepo.On("SaveWithLock", ctx, q, q.GetVersion()).Return(nil)
		f.notifRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.CreateFromQuote(ctx, CreateOrderRequest{QuoteID: q.ID}, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, "PED-2026-00007", resp.Order.OrderNumber)
		assert.Equal(t, trade.OrderStatusPending.String(), resp.Order.Status)
		assert.Equal(t, q.Folio, resp.Order.QuoteFolio)
		assert.Empty(t, resp.Warnings)

		assert.Equal(t, quote.StatusOrdered, q.Status)
		require.NotNil(t, q.OrderID)
		assert.Equal(t, resp.Order.ID, *q.OrderID)

		f.orderRepo.AssertExpectations(t)
		f.quoteRepo.AssertExpectations(t)
	})

	t.Run("defaults the sales owner to the quote creator", func(t *testing.T) {
		f := newServiceFixture()
		q := acceptedQuote(t)

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.orderRepo.On("GenerateOrderNumber", ctx).Return("PED-2026-00008", nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.quoteRepo.On("SaveWithLock", ctx, mock.Anything, mock.Anything).Return(nil)
		f.notifRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.CreateFromQuote(ctx, CreateOrderRequest{QuoteID: q.ID}, uuid.New())
		require.NoError(t, err)
		require.NotNil(t, resp.Order.SalesRepID)
		assert.Equal(t, *q.GetCreatedBy(), *resp.Order.SalesRepID)
	})

	t.Run("conflict when the quote is already ordered", func(t *testing.T) {
		f := newServiceFixture()
		q := acceptedQuote(t)
		require.NoError(t, q.MarkOrdered(uuid.New()))

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)

		_, err := f.service.CreateFromQuote(ctx, CreateOrderRequest{QuoteID: q.ID}, uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("rejects quotes that were never accepted", func(t *testing.T) {
		f := newServiceFixture()
		q, err := quote.NewQuote("COT-2026-00050", uuid.New(), decimal.NewFromFloat(0.16), valueobject.MXN, decimal.NewFromFloat(18.20))
		require.NoError(t, err)

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)

		_, err = f.service.CreateFromQuote(ctx, CreateOrderRequest{QuoteID: q.ID}, uuid.New())
		require.Error(t, err)
		assert.False(t, shared.IsConflict(err))
	})

	t.Run("a failed quote flip rolls back with the order", func(t *testing.T) {
		f := newServiceFixture()
		q := acceptedQuote(t)

		f.quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		f.orderRepo.On("GenerateOrderNumber", ctx).Return("PED-2026-00009", nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.quoteRepo.On("SaveWithLock", ctx, mock.Anything, mock.Anything).Return(errors.New("version mismatch"))

		_, err := f.service.CreateFromQuote(ctx, CreateOrderRequest{QuoteID: q.ID}, uuid.New())
		require.Error(t, err)
		f.notifRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approves and splits one purchase order per supplier", func(t *testing.T) {
		f := newServiceFixture()
		supplierA := uuid.New()
		supplierB := uuid.New()
		order := approvedOrder(t, supplierA, supplierB)
		approver := *order.ApprovedBy

		f.orderRepo.On("ClaimForApproval", ctx, order.ID, approver).Return(true, nil)
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.poRepo.On("SupplierIDsWithPO", ctx, order.ID).Return([]uuid.UUID{}, nil)
		f.poRepo.On("GeneratePONumber", ctx).Return("OC-2026-00001", nil).Once()
		f.poRepo.On("GeneratePONumber", ctx).Return("OC-2026-00002", nil).Once()
		f.poRepo.On("Save", ctx, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil)
		f.notifRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Approve(ctx, order.ID, approver)
		require.NoError(t, err)

		require.Len(t, resp.PurchaseOrders, 2)
		assert.Equal(t, supplierA, resp.PurchaseOrders[0].SupplierID)
		assert.Equal(t, supplierB, resp.PurchaseOrders[1].SupplierID)
		assert.Empty(t, resp.Warnings)
		f.poRepo.AssertExpectations(t)
	})

	t.Run("loser of the approval race gets a conflict with the actual status", func(t *testing.T) {
		f := newServiceFixture()
		order := approvedOrder(t)

		f.orderRepo.On("ClaimForApproval", ctx, order.ID, mock.Anything).Return(false, nil)
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.service.Approve(ctx, order.ID, uuid.New())
		require.Error(t, err)
		require.True(t, shared.IsConflict(err))

		var conflict *shared.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, trade.OrderStatusPending.String(), conflict.Expected)
		assert.Equal(t, trade.OrderStatusApproved.String(), conflict.Actual)
	})

	t.Run("unresolved suppliers produce warnings instead of purchase orders", func(t *testing.T) {
		f := newServiceFixture()
		supplier := uuid.New()
		order := approvedOrder(t, supplier, uuid.Nil)
		approver := uuid.New()

		f.orderRepo.On("ClaimForApproval", ctx, order.ID, approver).Return(true, nil)
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.poRepo.On("SupplierIDsWithPO", ctx, order.ID).Return([]uuid.UUID{}, nil)
		f.poRepo.On("GeneratePONumber", ctx).Return("OC-2026-00003", nil)
		f.poRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.notifRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Approve(ctx, order.ID, approver)
		require.NoError(t, err)

		require.Len(t, resp.PurchaseOrders, 1)
		require.Len(t, resp.Warnings, 1)
		assert.Equal(t, shared.WarningCodeUnknownSupplier, resp.Warnings[0].Code)
	})

	t.Run("failure mid-split reports the suppliers already covered", func(t *testing.T) {
		f := newServiceFixture()
		supplierA := uuid.New()
		supplierB := uuid.New()
		order := approvedOrder(t, supplierA, supplierB)
		approver := uuid.New()

		f.orderRepo.On("ClaimForApproval", ctx, order.ID, approver).Return(true, nil)
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.poRepo.On("SupplierIDsWithPO", ctx, order.ID).Return([]uuid.UUID{}, nil)
		f.poRepo.On("GeneratePONumber", ctx).Return("OC-2026-00004", nil).Once()
		f.poRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
		f.poRepo.On("GeneratePONumber", ctx).Return("OC-2026-00005", nil).Once()
		f.poRepo.On("Save", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

		_, err := f.service.Approve(ctx, order.ID, approver)
		require.Error(t, err)

		var partial *shared.PartialWriteError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, []uuid.UUID{supplierA}, partial.CreatedSupplierIDs)
	})

	t.Run("retry skips suppliers that already have a purchase order", func(t *testing.T) {
		f := newServiceFixture()
		supplierA := uuid.New()
		supplierB := uuid.New()
		order := approvedOrder(t, supplierA, supplierB)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.poRepo.On("SupplierIDsWithPO", ctx, order.ID).Return([]uuid.UUID{supplierA}, nil)
		f.poRepo.On("GeneratePONumber", ctx).Return("OC-2026-00006", nil).Once()
		f.poRepo.On("Save", ctx, mock.MatchedBy(func(po *trade.PurchaseOrder) bool {
			return po.SupplierID == supplierB
		})).Return(nil).Once()

		resp, err := f.service.RetryPurchaseOrders(ctx, order.ID, uuid.New())
		require.NoError(t, err)
		require.Len(t, resp.PurchaseOrders, 1)
		assert.Equal(t, supplierB, resp.PurchaseOrders[0].SupplierID)
		f.poRepo.AssertExpectations(t)
	})

	t.Run("a failed notification does not fail the approval", func(t *testing.T) {
		f := newServiceFixture()
		order := approvedOrder(t)
		approver := uuid.New()

		f.orderRepo.On("ClaimForApproval", ctx, order.ID, approver).Return(true, nil)
		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.poRepo.On("SupplierIDsWithPO", ctx, order.ID).Return([]uuid.UUID{}, nil)
		f.poRepo.On("GeneratePONumber", ctx).Return("OC-2026-00007", nil)
		f.poRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.notifRepo.On("Save", ctx, mock.Anything).Return(errors.New("notifications down"))

		_, err := f.service.Approve(ctx, order.ID, approver)
		require.NoError(t, err)
	})
}

func TestOverrideStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("force-sets the status and saves", func(t *testing.T) {
		f := newServiceFixture()
		items := []trade.OrderItem{orderItemForTest("Product", 1, 100, uuid.New())}
		order, err := trade.NewSalesOrder("PED-2026-00010", uuid.New(), "COT-2026-00050", uuid.New(), "ACME", uuid.New(), items, trade.Totals{Currency: valueobject.MXN})
		require.NoError(t, err)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order, order.GetVersion()).Return(nil)

		resp, err := f.service.OverrideStatus(ctx, order.ID, OverrideStatusRequest{Status: "GOODS_RECEIVED"}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "GOODS_RECEIVED", resp.Status)
	})
}
