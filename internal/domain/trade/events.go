package trade

import (
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventSalesOrderCreated          = "sales_order.created"
	EventSalesOrderApproved         = "sales_order.approved"
	EventSalesOrderGoodsReceived    = "sales_order.goods_received"
	EventSalesOrderCompleted        = "sales_order.completed"
	EventSalesOrderCancelled        = "sales_order.cancelled"
	EventSalesOrderStatusOverridden = "sales_order.status_overridden"
	EventPurchaseOrderCreated       = "purchase_order.created"
	EventPurchaseOrderSent          = "purchase_order.sent"
	EventPurchaseOrderReceived      = "purchase_order.received"
)

// SalesOrderCreatedEvent is raised when an order is created from a quote
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	QuoteID     uuid.UUID `json:"quote_id"`
	ClientID    uuid.UUID `json:"client_id"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(o *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderCreated, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		QuoteID:         o.QuoteID,
		ClientID:        o.ClientID,
	}
}

// SalesOrderApprovedEvent is raised when an administrator approves an order
type SalesOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	ApprovedBy  uuid.UUID `json:"approved_by"`
}

// NewSalesOrderApprovedEvent creates a new SalesOrderApprovedEvent
func NewSalesOrderApprovedEvent(o *SalesOrder, approver uuid.UUID) *SalesOrderApprovedEvent {
	return &SalesOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderApproved, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		ApprovedBy:      approver,
	}
}

// SalesOrderGoodsReceivedEvent is raised when all purchase orders of an
// order have been received
type SalesOrderGoodsReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewSalesOrderGoodsReceivedEvent creates a new SalesOrderGoodsReceivedEvent
func NewSalesOrderGoodsReceivedEvent(o *SalesOrder) *SalesOrderGoodsReceivedEvent {
	return &SalesOrderGoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderGoodsReceived, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// SalesOrderCompletedEvent is raised when an order reaches COMPLETED
type SalesOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewSalesOrderCompletedEvent creates a new SalesOrderCompletedEvent
func NewSalesOrderCompletedEvent(o *SalesOrder) *SalesOrderCompletedEvent {
	return &SalesOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderCompleted, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// SalesOrderCancelledEvent is raised when a pending order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(o *SalesOrder) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderCancelled, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// SalesOrderStatusOverriddenEvent records an administrative status override
type SalesOrderStatusOverriddenEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	Actor       uuid.UUID   `json:"actor"`
}

// NewSalesOrderStatusOverriddenEvent creates a new SalesOrderStatusOverriddenEvent
func NewSalesOrderStatusOverriddenEvent(o *SalesOrder, from, to OrderStatus, actor uuid.UUID) *SalesOrderStatusOverriddenEvent {
	return &SalesOrderStatusOverriddenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalesOrderStatusOverridden, "SalesOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              to,
		Actor:           actor,
	}
}

// PurchaseOrderCreatedEvent is raised when an approval splits out a
// purchase order for a supplier
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PONumber      string    `json:"po_number"`
	ParentOrderID uuid.UUID `json:"parent_order_id"`
	SupplierID    uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderCreated, "PurchaseOrder", po.ID),
		PONumber:        po.PONumber,
		ParentOrderID:   po.ParentOrderID,
		SupplierID:      po.SupplierID,
	}
}

// PurchaseOrderSentEvent is raised when a purchase order goes to the supplier
type PurchaseOrderSentEvent struct {
	shared.BaseDomainEvent
	PONumber      string    `json:"po_number"`
	ParentOrderID uuid.UUID `json:"parent_order_id"`
}

// NewPurchaseOrderSentEvent creates a new PurchaseOrderSentEvent
func NewPurchaseOrderSentEvent(po *PurchaseOrder) *PurchaseOrderSentEvent {
	return &PurchaseOrderSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderSent, "PurchaseOrder", po.ID),
		PONumber:        po.PONumber,
		ParentOrderID:   po.ParentOrderID,
	}
}

// PurchaseOrderReceivedEvent is raised the first time a purchase order is
// marked received
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber      string    `json:"po_number"`
	ParentOrderID uuid.UUID `json:"parent_order_id"`
	ReceivedBy    uuid.UUID `json:"received_by"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(po *PurchaseOrder, receiver uuid.UUID) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderReceived, "PurchaseOrder", po.ID),
		PONumber:        po.PONumber,
		ParentOrderID:   po.ParentOrderID,
		ReceivedBy:      receiver,
	}
}
