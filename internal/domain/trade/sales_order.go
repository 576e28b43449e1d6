package trade

import (
	"fmt"
	"time"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a sales order
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusApproved      OrderStatus = "APPROVED"
	OrderStatusPOSent        OrderStatus = "PO_SENT"
	OrderStatusGoodsReceived OrderStatus = "GOODS_RECEIVED"
	OrderStatusCompleted     OrderStatus = "COMPLETED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusPOSent,
		OrderStatusGoodsReceived, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// The ladder is PENDING → APPROVED → PO_SENT → GOODS_RECEIVED → COMPLETED,
// with CANCELLED reachable from PENDING only. Once approved, purchase
// commitments exist and the order must be driven forward, not cancelled.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusApproved || target == OrderStatusCancelled
	case OrderStatusApproved:
		return target == OrderStatusPOSent
	case OrderStatusPOSent:
		return target == OrderStatusGoodsReceived
	case OrderStatusGoodsReceived:
		return target == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false
	}
	return false
}

// OrderItem is a line item snapshotted from the accepted quote. Cost
// components and margin travel with the order so purchase orders can be
// derived without going back to the quote.
type OrderItem struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID            `gorm:"type:uuid;not null"`
	ProductName  string               `gorm:"type:varchar(200);not null"`
	Quantity     int                  `gorm:"not null"`
	BasePrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ImportCost   decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	FreightCost  decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Margin       decimal.Decimal      `gorm:"type:decimal(9,4);not null"`
	UnitPrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null"`
	SupplierID   uuid.UUID            `gorm:"type:uuid"` // uuid.Nil when the quote never resolved a supplier
	SupplierName string               `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "sales_order_items"
}

// CostBasis returns basePrice * quantity, the amount a purchase order
// carries for this line. Margin and landed costs stay on the sales side.
func (i OrderItem) CostBasis() decimal.Decimal {
	return i.BasePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Totals is the financial summary snapshotted from the accepted quote
type Totals struct {
	Subtotal     decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	TaxRate      decimal.Decimal      `gorm:"type:decimal(9,4);not null"`
	TaxAmount    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Total        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null"`
	ExchangeRate decimal.Decimal      `gorm:"type:decimal(12,4);not null"`
}

// SalesOrder represents a customer order created from an accepted quote.
// Items and totals are immutable snapshots; later edits to products,
// clients or suppliers never reach an existing order.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber   string      `gorm:"type:varchar(20);not null;uniqueIndex"`
	QuoteID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	QuoteFolio    string      `gorm:"type:varchar(20);not null"`
	ClientID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	ClientName    string      `gorm:"type:varchar(200)"`
	ClientOCFolio string      `gorm:"type:varchar(100)"` // customer's own purchase order reference
	ClientOCURL   string      `gorm:"type:varchar(500)"`
	SalesRepID    *uuid.UUID  `gorm:"type:uuid;index"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
	Totals        Totals      `gorm:"embedded"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;index"`
	ApprovedBy    *uuid.UUID  `gorm:"type:uuid"`
	ApprovedAt    *time.Time
	Notes         string `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a sales order in PENDING from quote snapshot data
func NewSalesOrder(orderNumber string, quoteID uuid.UUID, quoteFolio string, clientID uuid.UUID, clientName string, createdBy uuid.UUID, items []OrderItem, totals Totals) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if quoteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_QUOTE", "Quote ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot create an order without items")
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		OrderNumber:       orderNumber,
		QuoteID:           quoteID,
		QuoteFolio:        quoteFolio,
		ClientID:          clientID,
		ClientName:        clientName,
		Items:             make([]OrderItem, len(items)),
		Totals:            totals,
		Status:            OrderStatusPending,
	}
	copy(order.Items, items)
	for idx := range order.Items {
		if order.Items[idx].ID == uuid.Nil {
			order.Items[idx].ID = uuid.New()
		}
		order.Items[idx].OrderID = order.ID
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// SetSalesRep assigns the sales owner responsible for this order
func (o *SalesOrder) SetSalesRep(userID uuid.UUID) {
	o.SalesRepID = &userID
	o.UpdatedAt = time.Now()
}

// SetClientOC records the customer's own purchase order reference
func (o *SalesOrder) SetClientOC(folio, url string) {
	o.ClientOCFolio = folio
	o.ClientOCURL = url
	o.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes on the order
func (o *SalesOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// NotificationRecipient returns the user who should be told about order
// progress: the sales owner when one is assigned, otherwise the creator.
func (o *SalesOrder) NotificationRecipient() *uuid.UUID {
	if o.SalesRepID != nil {
		return o.SalesRepID
	}
	return o.GetCreatedBy()
}

// Approve transitions PENDING → APPROVED, recording who approved and when.
// The caller must guarantee at-most-once execution with a conditional
// update on the PENDING status; this method only encodes the state rule.
func (o *SalesOrder) Approve(approver uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve order %s in %s status", o.OrderNumber, o.Status))
	}
	if approver == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver cannot be empty")
	}

	now := time.Now()
	o.Status = OrderStatusApproved
	o.ApprovedBy = &approver
	o.ApprovedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewSalesOrderApprovedEvent(o, approver))

	return nil
}

// MarkPOSent transitions APPROVED → PO_SENT once every purchase order has
// gone out to its supplier
func (o *SalesOrder) MarkPOSent() error {
	if !o.Status.CanTransitionTo(OrderStatusPOSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order %s as PO sent in %s status", o.OrderNumber, o.Status))
	}
	o.Status = OrderStatusPOSent
	o.UpdatedAt = time.Now()
	return nil
}

// MarkGoodsReceived transitions PO_SENT → GOODS_RECEIVED once every
// purchase order of the order has been received
func (o *SalesOrder) MarkGoodsReceived() error {
	if !o.Status.CanTransitionTo(OrderStatusGoodsReceived) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order %s as received in %s status", o.OrderNumber, o.Status))
	}
	o.Status = OrderStatusGoodsReceived
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewSalesOrderGoodsReceivedEvent(o))

	return nil
}

// Complete transitions GOODS_RECEIVED → COMPLETED
func (o *SalesOrder) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order %s in %s status", o.OrderNumber, o.Status))
	}
	o.Status = OrderStatusCompleted
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewSalesOrderCompletedEvent(o))

	return nil
}

// Cancel transitions PENDING → CANCELLED. Approved orders carry purchase
// commitments and cannot be cancelled from here.
func (o *SalesOrder) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order %s in %s status", o.OrderNumber, o.Status))
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o))

	return nil
}

// OverrideStatus force-sets the status outside the normal ladder. This is
// an administrative escape hatch for stuck orders; every use is recorded
// as an event with the acting user.
func (o *SalesOrder) OverrideStatus(target OrderStatus, actor uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if actor == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Actor cannot be empty")
	}
	if o.Status == target {
		return nil
	}

	previous := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewSalesOrderStatusOverriddenEvent(o, previous, target, actor))

	return nil
}

// ItemsWithSupplier returns the items that carry a resolved supplier reference
func (o *SalesOrder) ItemsWithSupplier() []OrderItem {
	var resolved []OrderItem
	for _, item := range o.Items {
		if item.SupplierID != uuid.Nil {
			resolved = append(resolved, item)
		}
	}
	return resolved
}
