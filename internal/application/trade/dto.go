package trade

import (
	"time"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Sales Order DTOs ====================

// CreateOrderRequest represents a request to create a sales order from an
// accepted quote
type CreateOrderRequest struct {
	QuoteID       uuid.UUID  `json:"quote_id" binding:"required"`
	SalesRepID    *uuid.UUID `json:"sales_rep_id"`
	ClientOCFolio string     `json:"client_oc_folio" binding:"max=100"`
	ClientOCURL   string     `json:"client_oc_url" binding:"omitempty,url"`
	Notes         string     `json:"notes" binding:"max=2000"`
}

// OverrideStatusRequest represents an administrative status override
type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING APPROVED PO_SENT GOODS_RECEIVED COMPLETED CANCELLED"`
}

// OrderListFilter represents filter options for the sales order list
type OrderListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Status   *string    `form:"status" binding:"omitempty,oneof=PENDING APPROVED PO_SENT GOODS_RECEIVED COMPLETED CANCELLED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	BasePrice    decimal.Decimal `json:"base_price"`
	ImportCost   decimal.Decimal `json:"import_cost"`
	FreightCost  decimal.Decimal `json:"freight_cost"`
	Margin       decimal.Decimal `json:"margin"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Currency     string          `json:"currency"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
}

// OrderTotalsResponse represents the snapshotted totals in API responses
type OrderTotalsResponse struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// OrderResponse represents a sales order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	QuoteID       uuid.UUID           `json:"quote_id"`
	QuoteFolio    string              `json:"quote_folio"`
	ClientID      uuid.UUID           `json:"client_id"`
	ClientName    string              `json:"client_name"`
	ClientOCFolio string              `json:"client_oc_folio,omitempty"`
	ClientOCURL   string              `json:"client_oc_url,omitempty"`
	SalesRepID    *uuid.UUID          `json:"sales_rep_id,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	Totals        OrderTotalsResponse `json:"totals"`
	Status        string              `json:"status"`
	ApprovedBy    *uuid.UUID          `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time          `json:"approved_at,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	CreatedBy     *uuid.UUID          `json:"created_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

// OrderListItemResponse represents a sales order in list responses
type OrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	QuoteFolio  string          `json:"quote_folio"`
	ClientName  string          `json:"client_name"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateOrderResponse carries the created order plus any data-quality
// findings
type CreateOrderResponse struct {
	Order    OrderResponse    `json:"order"`
	Warnings []shared.Warning `json:"warnings,omitempty"`
}

// ApproveOrderResponse carries the approved order, the purchase orders the
// approval split out, and warnings for items no purchase order could cover
type ApproveOrderResponse struct {
	Order          OrderResponse           `json:"order"`
	PurchaseOrders []PurchaseOrderResponse `json:"purchase_orders"`
	Warnings       []shared.Warning        `json:"warnings,omitempty"`
}

// ==================== Purchase Order DTOs ====================

// POListFilter represents filter options for the purchase order list
type POListFilter struct {
	Search   string     `form:"search"`
	ParentID *uuid.UUID `form:"parent_order_id"`
	Status   *string    `form:"status" binding:"omitempty,oneof=PO_CREATED PO_SENT GOODS_RECEIVED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AttachDocumentRequest represents a request to attach a provider document
type AttachDocumentRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// SetEstimatedDeliveryRequest represents a request to record the supplier's
// promised delivery date
type SetEstimatedDeliveryRequest struct {
	EstimatedDelivery time.Time `json:"estimated_delivery" binding:"required"`
}

// POItemResponse represents a purchase order line in API responses
type POItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	BasePrice   decimal.Decimal `json:"base_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Currency    string          `json:"currency"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                uuid.UUID        `json:"id"`
	PONumber          string           `json:"po_number"`
	ParentOrderID     uuid.UUID        `json:"parent_order_id"`
	ParentOrderNumber string           `json:"parent_order_number"`
	SupplierID        uuid.UUID        `json:"supplier_id"`
	SupplierName      string           `json:"supplier_name"`
	Items             []POItemResponse `json:"items"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	Currency          string           `json:"currency"`
	Status            string           `json:"status"`
	ProviderDocURL    string           `json:"provider_doc_url,omitempty"`
	EstimatedDelivery *time.Time       `json:"estimated_delivery,omitempty"`
	SentAt            *time.Time       `json:"sent_at,omitempty"`
	ReceivedAt        *time.Time       `json:"received_at,omitempty"`
	ReceivedBy        *uuid.UUID       `json:"received_by,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Version           int              `json:"version"`
}

// ReceiveResponse reports the outcome of marking a purchase order received.
// AlreadyReceived is true when the call was a repeat and changed nothing.
// AllReceived reports whether every sibling purchase order of the parent
// has arrived; acting on that is the caller's decision.
type ReceiveResponse struct {
	PurchaseOrder   PurchaseOrderResponse `json:"purchase_order"`
	AlreadyReceived bool                  `json:"already_received"`
	AllReceived     bool                  `json:"all_received"`
}

// ToOrderResponse maps a sales order aggregate to its API representation
func ToOrderResponse(o *trade.SalesOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		var supplierID *uuid.UUID
		if item.SupplierID != uuid.Nil {
			id := item.SupplierID
			supplierID = &id
		}
		items = append(items, OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			BasePrice:    item.BasePrice,
			ImportCost:   item.ImportCost,
			FreightCost:  item.FreightCost,
			Margin:       item.Margin,
			UnitPrice:    item.UnitPrice,
			Currency:     string(item.Currency),
			SupplierID:   supplierID,
			SupplierName: item.SupplierName,
		})
	}

	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		QuoteID:       o.QuoteID,
		QuoteFolio:    o.QuoteFolio,
		ClientID:      o.ClientID,
		ClientName:    o.ClientName,
		ClientOCFolio: o.ClientOCFolio,
		ClientOCURL:   o.ClientOCURL,
		SalesRepID:    o.SalesRepID,
		Items:         items,
		Totals: OrderTotalsResponse{
			Subtotal:     o.Totals.Subtotal,
			TaxRate:      o.Totals.TaxRate,
			TaxAmount:    o.Totals.TaxAmount,
			Total:        o.Totals.Total,
			Currency:     string(o.Totals.Currency),
			ExchangeRate: o.Totals.ExchangeRate,
		},
		Status:     o.Status.String(),
		ApprovedBy: o.ApprovedBy,
		ApprovedAt: o.ApprovedAt,
		Notes:      o.Notes,
		CreatedBy:  o.GetCreatedBy(),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Version:    o.GetVersion(),
	}
}

// ToOrderListItemResponse maps a sales order to its list representation
func ToOrderListItemResponse(o *trade.SalesOrder) OrderListItemResponse {
	return OrderListItemResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		QuoteFolio:  o.QuoteFolio,
		ClientName:  o.ClientName,
		ItemCount:   len(o.Items),
		Total:       o.Totals.Total,
		Currency:    string(o.Totals.Currency),
		Status:      o.Status.String(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOrderListItemResponses maps a slice of sales orders to list representations
func ToOrderListItemResponses(orders []*trade.SalesOrder) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderListItemResponse(o))
	}
	return responses
}

// ToPurchaseOrderResponse maps a purchase order to its API representation
func ToPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]POItemResponse, 0, len(po.Items))
	for _, item := range po.Items {
		items = append(items, POItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			BasePrice:   item.BasePrice,
			LineTotal:   item.LineTotal(),
			Currency:    string(item.Currency),
		})
	}

	return PurchaseOrderResponse{
		ID:                po.ID,
		PONumber:          po.PONumber,
		ParentOrderID:     po.ParentOrderID,
		ParentOrderNumber: po.ParentOrderNumber,
		SupplierID:        po.SupplierID,
		SupplierName:      po.SupplierName,
		Items:             items,
		Subtotal:          po.Subtotal,
		Currency:          string(po.Currency),
		Status:            po.Status.String(),
		ProviderDocURL:    po.ProviderDocURL,
		EstimatedDelivery: po.EstimatedDelivery,
		SentAt:            po.SentAt,
		ReceivedAt:        po.ReceivedAt,
		ReceivedBy:        po.ReceivedBy,
		CreatedAt:         po.CreatedAt,
		UpdatedAt:         po.UpdatedAt,
		Version:           po.GetVersion(),
	}
}

// ToPurchaseOrderResponses maps a slice of purchase orders
func ToPurchaseOrderResponses(pos []*trade.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, 0, len(pos))
	for _, po := range pos {
		responses = append(responses, ToPurchaseOrderResponse(po))
	}
	return responses
}
