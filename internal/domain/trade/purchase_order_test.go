package trade

import (
	"testing"
	"time"

	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poItem(name string, quantity int, basePrice float64) POItem {
	return POItem{
		ProductID:   uuid.New(),
		ProductName: name,
		Quantity:    quantity,
		BasePrice:   decimal.NewFromFloat(basePrice),
		Currency:    valueobject.MXN,
	}
}

func newTestPO(t *testing.T, items ...POItem) *PurchaseOrder {
	t.Helper()
	if len(items) == 0 {
		items = []POItem{poItem("Widget", 2, 100)}
	}
	po, err := NewPurchaseOrder("OC-2026-00001", uuid.New(), "PED-2026-00001", uuid.New(), "Proveedor Norte", uuid.New(), items)
	require.NoError(t, err)
	return po
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates purchase order with cost basis subtotal", func(t *testing.T) {
		po := newTestPO(t, poItem("Widget", 2, 100), poItem("Gadget", 3, 50))

		assert.Equal(t, POStatusCreated, po.Status)
		assert.True(t, po.Subtotal.Equal(decimal.NewFromInt(350)), "got %s", po.Subtotal)
		require.Len(t, po.Items, 2)
		assert.Equal(t, po.ID, po.Items[0].PurchaseOrderID)
	})

	t.Run("publishes PurchaseOrderCreated event", func(t *testing.T) {
		po := newTestPO(t)
		events := po.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventPurchaseOrderCreated, events[0].EventType())
	})

	t.Run("fails without supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder("OC-2026-00002", uuid.New(), "PED-2026-00001", uuid.Nil, "", uuid.New(), []POItem{poItem("Widget", 1, 100)})
		require.Error(t, err)
	})

	t.Run("fails without items", func(t *testing.T) {
		_, err := NewPurchaseOrder("OC-2026-00002", uuid.New(), "PED-2026-00001", uuid.New(), "Proveedor", uuid.New(), nil)
		require.Error(t, err)
	})
}

func TestPurchaseOrderMarkSent(t *testing.T) {
	t.Run("marks a created purchase order as sent", func(t *testing.T) {
		po := newTestPO(t)
		require.NoError(t, po.MarkSent())
		assert.Equal(t, POStatusSent, po.Status)
		assert.NotNil(t, po.SentAt)
	})

	t.Run("cannot send twice", func(t *testing.T) {
		po := newTestPO(t)
		require.NoError(t, po.MarkSent())
		require.Error(t, po.MarkSent())
	})
}

func TestPurchaseOrderMarkReceived(t *testing.T) {
	t.Run("records receiver and time", func(t *testing.T) {
		po := newTestPO(t)
		require.NoError(t, po.MarkSent())
		receiver := uuid.New()

		changed, err := po.MarkReceived(receiver)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, POStatusGoodsReceived, po.Status)
		assert.True(t, po.IsReceived())
		require.NotNil(t, po.ReceivedBy)
		assert.Equal(t, receiver, *po.ReceivedBy)
		assert.NotNil(t, po.ReceivedAt)
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		po := newTestPO(t)
		first := uuid.New()
		changed, err := po.MarkReceived(first)
		require.NoError(t, err)
		require.True(t, changed)
		firstAt := *po.ReceivedAt
		eventsBefore := len(po.GetDomainEvents())

		changed, err = po.MarkReceived(uuid.New())
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, first, *po.ReceivedBy)
		assert.Equal(t, firstAt, *po.ReceivedAt)
		assert.Len(t, po.GetDomainEvents(), eventsBefore)
	})

	t.Run("receiving does not require a prior send", func(t *testing.T) {
		po := newTestPO(t)
		changed, err := po.MarkReceived(uuid.New())
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("rejects empty receiver", func(t *testing.T) {
		po := newTestPO(t)
		_, err := po.MarkReceived(uuid.Nil)
		require.Error(t, err)
	})
}

func TestPurchaseOrderDocuments(t *testing.T) {
	t.Run("a signed document puts a fresh order in flight", func(t *testing.T) {
		po := newTestPO(t)
		require.NoError(t, po.AttachProviderDocument("https://files.example.com/oc-123.pdf"))
		assert.Equal(t, "https://files.example.com/oc-123.pdf", po.ProviderDocURL)
		assert.Equal(t, POStatusSent, po.Status)
		assert.NotNil(t, po.SentAt)
	})

	t.Run("a document on a sent order leaves the status alone", func(t *testing.T) {
		po := newTestPO(t)
		require.NoError(t, po.MarkSent())
		firstSentAt := *po.SentAt

		require.NoError(t, po.AttachProviderDocument("https://files.example.com/oc-v2.pdf"))
		assert.Equal(t, POStatusSent, po.Status)
		assert.True(t, po.SentAt.Equal(firstSentAt))
	})

	t.Run("a document on a received order keeps it received", func(t *testing.T) {
		po := newTestPO(t)
		_, err := po.MarkReceived(uuid.New())
		require.NoError(t, err)

		require.NoError(t, po.AttachProviderDocument("https://files.example.com/oc-late.pdf"))
		assert.Equal(t, POStatusGoodsReceived, po.Status)
	})

	t.Run("rejects empty document url", func(t *testing.T) {
		po := newTestPO(t)
		require.Error(t, po.AttachProviderDocument(""))
	})

	t.Run("records estimated delivery", func(t *testing.T) {
		po := newTestPO(t)
		eta := time.Now().AddDate(0, 0, 14)
		po.SetEstimatedDelivery(eta)
		require.NotNil(t, po.EstimatedDelivery)
		assert.True(t, po.EstimatedDelivery.Equal(eta))
	})
}
