package trade

import (
	"testing"

	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderItem(name string, quantity int, basePrice float64, supplierID uuid.UUID, supplierName string) OrderItem {
	base := decimal.NewFromFloat(basePrice)
	margin := decimal.NewFromFloat(0.30)
	return OrderItem{
		ProductID:    uuid.New(),
		ProductName:  name,
		Quantity:     quantity,
		BasePrice:    base,
		Margin:       margin,
		UnitPrice:    base.Mul(decimal.NewFromInt(1).Add(margin)),
		Currency:     valueobject.MXN,
		SupplierID:   supplierID,
		SupplierName: supplierName,
	}
}

func newTestOrder(t *testing.T, items ...OrderItem) *SalesOrder {
	t.Helper()
	if len(items) == 0 {
		items = []OrderItem{orderItem("Widget", 2, 100, uuid.New(), "Proveedor Norte")}
	}
	order, err := NewSalesOrder("PED-2026-00001", uuid.New(), "COT-2026-00001", uuid.New(), "ACME SA de CV", uuid.New(), items, Totals{
		Subtotal:     decimal.NewFromInt(260),
		TaxRate:      decimal.NewFromFloat(0.16),
		TaxAmount:    decimal.NewFromFloat(41.6),
		Total:        decimal.NewFromFloat(301.6),
		Currency:     valueobject.MXN,
		ExchangeRate: decimal.NewFromFloat(18.20),
	})
	require.NoError(t, err)
	return order
}

func TestNewSalesOrder(t *testing.T) {
	t.Run("creates order in pending", func(t *testing.T) {
		order := newTestOrder(t)

		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, "PED-2026-00001", order.OrderNumber)
		assert.Equal(t, "COT-2026-00001", order.QuoteFolio)
		assert.Nil(t, order.ApprovedBy)
		assert.Nil(t, order.ApprovedAt)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
		assert.NotEqual(t, uuid.Nil, order.Items[0].ID)
	})

	t.Run("publishes SalesOrderCreated event", func(t *testing.T) {
		order := newTestOrder(t)
		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventSalesOrderCreated, events[0].EventType())
	})

	t.Run("fails without items", func(t *testing.T) {
		_, err := NewSalesOrder("PED-2026-00002", uuid.New(), "COT-2026-00002", uuid.New(), "ACME", uuid.New(), nil, Totals{})
		require.Error(t, err)
	})

	t.Run("fails without quote reference", func(t *testing.T) {
		items := []OrderItem{orderItem("Widget", 1, 100, uuid.New(), "Proveedor")}
		_, err := NewSalesOrder("PED-2026-00002", uuid.Nil, "", uuid.New(), "ACME", uuid.New(), items, Totals{})
		require.Error(t, err)
	})
}

func TestSalesOrderApprove(t *testing.T) {
	t.Run("approves a pending order", func(t *testing.T) {
		order := newTestOrder(t)
		approver := uuid.New()

		require.NoError(t, order.Approve(approver))
		assert.Equal(t, OrderStatusApproved, order.Status)
		require.NotNil(t, order.ApprovedBy)
		assert.Equal(t, approver, *order.ApprovedBy)
		assert.NotNil(t, order.ApprovedAt)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		order := newTestOrder(t)
		first := uuid.New()
		require.NoError(t, order.Approve(first))

		err := order.Approve(uuid.New())
		require.Error(t, err)
		assert.Equal(t, first, *order.ApprovedBy)
	})

	t.Run("cannot approve a cancelled order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel())
		require.Error(t, order.Approve(uuid.New()))
	})
}

func TestSalesOrderLadder(t *testing.T) {
	t.Run("walks the full ladder", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Approve(uuid.New()))
		require.NoError(t, order.MarkPOSent())
		require.NoError(t, order.MarkGoodsReceived())
		require.NoError(t, order.Complete())
		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.True(t, order.Status.IsTerminal())
	})

	t.Run("cannot skip rungs", func(t *testing.T) {
		order := newTestOrder(t)
		require.Error(t, order.MarkGoodsReceived())
		require.Error(t, order.Complete())

		require.NoError(t, order.Approve(uuid.New()))
		require.Error(t, order.Complete())
	})

	t.Run("cancel only from pending", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Approve(uuid.New()))
		require.Error(t, order.Cancel())
	})
}

func TestSalesOrderOverrideStatus(t *testing.T) {
	t.Run("force-sets an out-of-ladder status", func(t *testing.T) {
		order := newTestOrder(t)
		actor := uuid.New()

		require.NoError(t, order.OverrideStatus(OrderStatusGoodsReceived, actor))
		assert.Equal(t, OrderStatusGoodsReceived, order.Status)

		events := order.GetDomainEvents()
		last := events[len(events)-1]
		override, ok := last.(*SalesOrderStatusOverriddenEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusPending, override.From)
		assert.Equal(t, OrderStatusGoodsReceived, override.To)
		assert.Equal(t, actor, override.Actor)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		order := newTestOrder(t)
		require.Error(t, order.OverrideStatus(OrderStatus("SHIPPED"), uuid.New()))
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		order := newTestOrder(t)
		before := len(order.GetDomainEvents())
		require.NoError(t, order.OverrideStatus(OrderStatusPending, uuid.New()))
		assert.Len(t, order.GetDomainEvents(), before)
	})
}

func TestNotificationRecipient(t *testing.T) {
	t.Run("prefers the sales owner", func(t *testing.T) {
		order := newTestOrder(t)
		rep := uuid.New()
		order.SetSalesRep(rep)

		recipient := order.NotificationRecipient()
		require.NotNil(t, recipient)
		assert.Equal(t, rep, *recipient)
	})

	t.Run("falls back to the creator", func(t *testing.T) {
		order := newTestOrder(t)
		recipient := order.NotificationRecipient()
		require.NotNil(t, recipient)
		assert.Equal(t, *order.GetCreatedBy(), *recipient)
	})
}
