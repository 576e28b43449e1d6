package trade

import (
	"fmt"
	"time"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POStatus represents the lifecycle status of a purchase order
type POStatus string

const (
	POStatusCreated       POStatus = "PO_CREATED"
	POStatusSent          POStatus = "PO_SENT"
	POStatusGoodsReceived POStatus = "GOODS_RECEIVED"
)

// IsValid checks if the status is a valid POStatus
func (s POStatus) IsValid() bool {
	switch s {
	case POStatusCreated, POStatusSent, POStatusGoodsReceived:
		return true
	}
	return false
}

// String returns the string representation of POStatus
func (s POStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s POStatus) CanTransitionTo(target POStatus) bool {
	switch s {
	case POStatusCreated:
		return target == POStatusSent
	case POStatusSent:
		return target == POStatusGoodsReceived
	case POStatusGoodsReceived:
		return false
	}
	return false
}

// POItem is a cost-basis line on a purchase order. Only the base price goes
// to the supplier; margin, import and freight never appear here.
type POItem struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID            `gorm:"type:uuid;not null"`
	ProductName     string               `gorm:"type:varchar(200);not null"`
	Quantity        int                  `gorm:"not null"`
	BasePrice       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency        valueobject.Currency `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (POItem) TableName() string {
	return "purchase_order_items"
}

// LineTotal returns basePrice * quantity
func (i POItem) LineTotal() decimal.Decimal {
	return i.BasePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PurchaseOrder represents a supplier-facing order derived from an approved
// sales order. One purchase order per distinct supplier of the parent order.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber          string               `gorm:"type:varchar(20);not null;uniqueIndex"`
	ParentOrderID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	ParentOrderNumber string               `gorm:"type:varchar(20);not null"`
	SupplierID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	SupplierName      string               `gorm:"type:varchar(200)"`
	Items             []POItem             `gorm:"foreignKey:PurchaseOrderID"`
	Subtotal          decimal.Decimal      `gorm:"type:decimal(18,2);not null"` // cost basis, sum of line totals
	Currency          valueobject.Currency `gorm:"type:varchar(3);not null"`
	Status            POStatus             `gorm:"type:varchar(20);not null;index"`
	ProviderDocURL    string               `gorm:"type:varchar(500)"`
	EstimatedDelivery *time.Time
	SentAt            *time.Time
	ReceivedAt        *time.Time
	ReceivedBy        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a purchase order in PO_CREATED for one supplier
// of the parent sales order
func NewPurchaseOrder(poNumber string, parentOrderID uuid.UUID, parentOrderNumber string, supplierID uuid.UUID, supplierName string, createdBy uuid.UUID, items []POItem) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "Purchase order number cannot be empty")
	}
	if parentOrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARENT_ORDER", "Parent order ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot create a purchase order without items")
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		PONumber:          poNumber,
		ParentOrderID:     parentOrderID,
		ParentOrderNumber: parentOrderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Items:             make([]POItem, len(items)),
		Currency:          items[0].Currency,
		Status:            POStatusCreated,
	}
	copy(po.Items, items)

	subtotal := decimal.Zero
	for idx := range po.Items {
		if po.Items[idx].ID == uuid.Nil {
			po.Items[idx].ID = uuid.New()
		}
		po.Items[idx].PurchaseOrderID = po.ID
		subtotal = subtotal.Add(po.Items[idx].LineTotal())
	}
	po.Subtotal = subtotal

	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))

	return po, nil
}

// MarkSent transitions PO_CREATED → PO_SENT when the document goes out to
// the supplier
func (po *PurchaseOrder) MarkSent() error {
	if !po.Status.CanTransitionTo(POStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark purchase order %s as sent in %s status", po.PONumber, po.Status))
	}
	now := time.Now()
	po.Status = POStatusSent
	po.SentAt = &now
	po.UpdatedAt = now

	po.AddDomainEvent(NewPurchaseOrderSentEvent(po))

	return nil
}

// AttachProviderDocument records a link to the supplier's confirmation or
// invoice document. A signed document coming back means the order has left
// intent and is in flight, so a purchase order still in PO_CREATED advances
// to PO_SENT.
func (po *PurchaseOrder) AttachProviderDocument(url string) error {
	if url == "" {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document URL cannot be empty")
	}
	po.ProviderDocURL = url
	po.UpdatedAt = time.Now()
	if po.Status == POStatusCreated {
		return po.MarkSent()
	}
	return nil
}

// SetEstimatedDelivery records the supplier's promised delivery date
func (po *PurchaseOrder) SetEstimatedDelivery(date time.Time) {
	po.EstimatedDelivery = &date
	po.UpdatedAt = time.Now()
}

// MarkReceived transitions to GOODS_RECEIVED, recording who received and
// when. Calling it on an already received purchase order is a no-op; the
// returned bool reports whether this call changed anything, so callers
// fire downstream effects at most once.
func (po *PurchaseOrder) MarkReceived(receiver uuid.UUID) (bool, error) {
	if po.Status == POStatusGoodsReceived {
		return false, nil
	}
	if receiver == uuid.Nil {
		return false, shared.NewDomainError("INVALID_RECEIVER", "Receiver cannot be empty")
	}

	now := time.Now()
	po.Status = POStatusGoodsReceived
	po.ReceivedAt = &now
	po.ReceivedBy = &receiver
	po.UpdatedAt = now

	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po, receiver))

	return true, nil
}

// IsReceived returns true once the goods have arrived
func (po *PurchaseOrder) IsReceived() bool {
	return po.Status == POStatusGoodsReceived
}
