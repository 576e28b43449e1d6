package quote

import (
	"time"

	"github.com/erp-mx/backend/internal/domain/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest represents a request to create a quote draft
type CreateQuoteRequest struct {
	ClientID     *uuid.UUID               `json:"client_id"`
	Currency     string                   `json:"currency" binding:"omitempty,oneof=MXN USD"`
	TaxRate      *decimal.Decimal         `json:"tax_rate"`
	ExchangeRate *decimal.Decimal         `json:"exchange_rate"`
	Notes        string                   `json:"notes" binding:"max=2000"`
	Items        []CreateQuoteItemRequest `json:"items"`
}

// CreateQuoteItemRequest represents an item in the create quote request
type CreateQuoteItemRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
	BasePrice   decimal.Decimal  `json:"base_price" binding:"required"`
	ImportCost  decimal.Decimal  `json:"import_cost"`
	FreightCost decimal.Decimal  `json:"freight_cost"`
	Margin      *decimal.Decimal `json:"margin"`
	Currency    string           `json:"currency" binding:"omitempty,oneof=MXN USD"`
	SupplierID  *uuid.UUID       `json:"supplier_id"`
}

// UpdateQuoteRequest represents a request to update quote-level parameters
type UpdateQuoteRequest struct {
	ClientID     *uuid.UUID       `json:"client_id"`
	Currency     *string          `json:"currency" binding:"omitempty,oneof=MXN USD"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateQuoteItemRequest represents a request to update a quote line item.
// Margin and TargetPrice are mutually exclusive; a target price back-solves
// the margin.
type UpdateQuoteItemRequest struct {
	Quantity    *int             `json:"quantity" binding:"omitempty,min=1"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	ImportCost  *decimal.Decimal `json:"import_cost"`
	FreightCost *decimal.Decimal `json:"freight_cost"`
	Margin      *decimal.Decimal `json:"margin"`
	TargetPrice *decimal.Decimal `json:"target_price"`
}

// QuoteListFilter represents filter options for the quote list
type QuoteListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"client_id"`
	Status   *string    `form:"status" binding:"omitempty,oneof=DRAFT FINALIZED ACCEPTED ORDERED CANCELLED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// QuoteItemResponse represents a quote item in API responses
type QuoteItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	BasePrice    decimal.Decimal `json:"base_price"`
	ImportCost   decimal.Decimal `json:"import_cost"`
	FreightCost  decimal.Decimal `json:"freight_cost"`
	Margin       decimal.Decimal `json:"margin"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Currency     string          `json:"currency"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
}

// FinancialsResponse represents the derived totals block in API responses
type FinancialsResponse struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID         uuid.UUID           `json:"id"`
	Folio      string              `json:"folio"`
	ClientID   *uuid.UUID          `json:"client_id,omitempty"`
	ClientName string              `json:"client_name,omitempty"`
	Items      []QuoteItemResponse `json:"items"`
	Financials FinancialsResponse  `json:"financials"`
	Status     string              `json:"status"`
	OrderID    *uuid.UUID          `json:"order_id,omitempty"`
	Notes      string              `json:"notes,omitempty"`
	CreatedBy  *uuid.UUID          `json:"created_by,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Version    int                 `json:"version"`
}

// QuoteListItemResponse represents a quote in list responses
type QuoteListItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Folio      string          `json:"folio"`
	ClientName string          `json:"client_name,omitempty"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FinalizeQuoteResponse carries the finalized quote plus any non-fatal
// data-quality findings
type FinalizeQuoteResponse struct {
	Quote    QuoteResponse    `json:"quote"`
	Warnings []shared.Warning `json:"warnings,omitempty"`
}

// AcceptQuoteResponse carries the accepted quote plus any non-fatal
// data-quality findings
type AcceptQuoteResponse struct {
	Quote    QuoteResponse    `json:"quote"`
	Warnings []shared.Warning `json:"warnings,omitempty"`
}

// ToQuoteResponse maps a quote aggregate to its API representation
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, 0, len(q.Items))
	for _, item := range q.Items {
		line := quote.ComputeLine(item)
		var supplierID *uuid.UUID
		if item.SupplierID != uuid.Nil {
			id := item.SupplierID
			supplierID = &id
		}
		items = append(items, QuoteItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			BasePrice:    item.BasePrice,
			ImportCost:   item.ImportCost,
			FreightCost:  item.FreightCost,
			Margin:       item.Margin,
			UnitPrice:    item.UnitPrice,
			LineTotal:    line.LineTotal,
			Currency:     string(item.Currency),
			SupplierID:   supplierID,
			SupplierName: item.SupplierName,
		})
	}

	var clientID *uuid.UUID
	if q.ClientID != uuid.Nil {
		id := q.ClientID
		clientID = &id
	}

	return QuoteResponse{
		ID:         q.ID,
		Folio:      q.Folio,
		ClientID:   clientID,
		ClientName: q.ClientName,
		Items:      items,
		Financials: FinancialsResponse{
			Subtotal:     q.Financials.Subtotal,
			TaxRate:      q.Financials.TaxRate,
			TaxAmount:    q.Financials.TaxAmount,
			Total:        q.Financials.Total,
			Currency:     string(q.Financials.Currency),
			ExchangeRate: q.Financials.ExchangeRate,
		},
		Status:    q.Status.String(),
		OrderID:   q.OrderID,
		Notes:     q.Notes,
		CreatedBy: q.GetCreatedBy(),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
		Version:   q.GetVersion(),
	}
}

// ToQuoteListItemResponse maps a quote to its list representation
func ToQuoteListItemResponse(q *quote.Quote) QuoteListItemResponse {
	return QuoteListItemResponse{
		ID:         q.ID,
		Folio:      q.Folio,
		ClientName: q.ClientName,
		ItemCount:  q.ItemCount(),
		Total:      q.Financials.Total,
		Currency:   string(q.Financials.Currency),
		Status:     q.Status.String(),
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
}

// ToQuoteListItemResponses maps a slice of quotes to list representations
func ToQuoteListItemResponses(quotes []*quote.Quote) []QuoteListItemResponse {
	responses := make([]QuoteListItemResponse, 0, len(quotes))
	for _, q := range quotes {
		responses = append(responses, ToQuoteListItemResponse(q))
	}
	return responses
}
