package quote

import (
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventQuoteCreated   = "quote.created"
	EventQuoteFinalized = "quote.finalized"
	EventQuoteAccepted  = "quote.accepted"
	EventQuoteCancelled = "quote.cancelled"
	EventQuoteOrdered   = "quote.ordered"
)

// QuoteCreatedEvent is raised when a new quote draft is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	Folio string `json:"folio"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQuoteCreated, "Quote", q.ID),
		Folio:           q.Folio,
	}
}

// QuoteFinalizedEvent is raised when a quote is finalized for the customer
type QuoteFinalizedEvent struct {
	shared.BaseDomainEvent
	Folio    string    `json:"folio"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewQuoteFinalizedEvent creates a new QuoteFinalizedEvent
func NewQuoteFinalizedEvent(q *Quote) *QuoteFinalizedEvent {
	return &QuoteFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQuoteFinalized, "Quote", q.ID),
		Folio:           q.Folio,
		ClientID:        q.ClientID,
	}
}

// QuoteAcceptedEvent is raised when the customer confirms a quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	Folio    string    `json:"folio"`
	ClientID uuid.UUID `json:"client_id"`
	Total    string    `json:"total"`
	Currency string    `json:"currency"`
}

// NewQuoteAcceptedEvent creates a new QuoteAcceptedEvent
func NewQuoteAcceptedEvent(q *Quote) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQuoteAccepted, "Quote", q.ID),
		Folio:           q.Folio,
		ClientID:        q.ClientID,
		Total:           q.Financials.Total.String(),
		Currency:        string(q.Financials.Currency),
	}
}

// QuoteCancelledEvent is raised when a quote is cancelled before acceptance
type QuoteCancelledEvent struct {
	shared.BaseDomainEvent
	Folio string `json:"folio"`
}

// NewQuoteCancelledEvent creates a new QuoteCancelledEvent
func NewQuoteCancelledEvent(q *Quote) *QuoteCancelledEvent {
	return &QuoteCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQuoteCancelled, "Quote", q.ID),
		Folio:           q.Folio,
	}
}

// QuoteOrderedEvent is raised when a sales order is created from the quote
type QuoteOrderedEvent struct {
	shared.BaseDomainEvent
	Folio   string    `json:"folio"`
	OrderID uuid.UUID `json:"order_id"`
}

// NewQuoteOrderedEvent creates a new QuoteOrderedEvent
func NewQuoteOrderedEvent(q *Quote, orderID uuid.UUID) *QuoteOrderedEvent {
	return &QuoteOrderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQuoteOrdered, "Quote", q.ID),
		Folio:           q.Folio,
		OrderID:         orderID,
	}
}
