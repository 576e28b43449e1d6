package quote

import (
	"fmt"
	"time"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a quote
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusFinalized Status = "FINALIZED"
	StatusAccepted  Status = "ACCEPTED"
	StatusOrdered   Status = "ORDERED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid quote Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusFinalized, StatusAccepted, StatusOrdered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// CANCELLED is reachable from DRAFT and FINALIZED only: once a customer has
// accepted, cancellation must flow through the sales order so the audit
// trail of the acceptance is preserved.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusFinalized || target == StatusCancelled
	case StatusFinalized:
		return target == StatusAccepted || target == StatusCancelled
	case StatusAccepted:
		return target == StatusOrdered
	case StatusOrdered, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// Item represents a priced line item in a quote. Product and supplier names
// are snapshots taken at quote time and must not follow later renames.
type Item struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key"`
	QuoteID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID            `gorm:"type:uuid;not null"`
	ProductName  string               `gorm:"type:varchar(200);not null"`
	Quantity     int                  `gorm:"not null"`
	BasePrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ImportCost   decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	FreightCost  decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Margin       decimal.Decimal      `gorm:"type:decimal(9,4);not null"` // fractional multiplier, 0.30 = 30%
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null"`
	SupplierID   uuid.UUID            `gorm:"type:uuid"` // uuid.Nil when the supplier is unresolved
	SupplierName string               `gorm:"type:varchar(200)"`
	UnitPrice    decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // derived cache, never a source of truth
	CreatedAt    time.Time            `gorm:"not null"`
	UpdatedAt    time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "quote_items"
}

// NewItem creates a new quote line item. The unit price is derived from the
// cost components and margin; it is recomputed here and on every mutation.
func NewItem(quoteID, productID uuid.UUID, productName string, quantity int, basePrice, importCost, freightCost, margin decimal.Decimal, currency valueobject.Currency, supplierID uuid.UUID, supplierName string) (*Item, error) {
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if basePrice.IsNegative() || importCost.IsNegative() || freightCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost components cannot be negative")
	}
	if margin.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return nil, shared.NewDomainError("INVALID_MARGIN", "Margin must be greater than -100%")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", currency))
	}

	now := time.Now()
	item := &Item{
		ID:           uuid.New(),
		QuoteID:      quoteID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		BasePrice:    basePrice,
		ImportCost:   importCost,
		FreightCost:  freightCost,
		Margin:       margin,
		Currency:     currency,
		SupplierID:   supplierID,
		SupplierName: supplierName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	item.UnitPrice = ComputeLine(*item).UnitPrice
	return item, nil
}

// Cost returns the sum of the item's cost components
func (i *Item) Cost() decimal.Decimal {
	return i.BasePrice.Add(i.ImportCost).Add(i.FreightCost)
}

// CostBasis returns the cost-only amount for the full quantity.
// This is what a purchase order sees; margin never leaves the sales side.
func (i *Item) CostBasis() decimal.Decimal {
	return i.BasePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasResolvedSupplier returns true when the item carries a usable supplier reference
func (i *Item) HasResolvedSupplier() bool {
	return i.SupplierID != uuid.Nil
}

// IsLowMargin reports whether the item's margin falls below the policy floor
func (i *Item) IsLowMargin(minimum decimal.Decimal) bool {
	return i.Margin.LessThan(minimum)
}

// SetMargin updates the margin and re-derives the unit price
func (i *Item) SetMargin(margin decimal.Decimal) error {
	if margin.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return shared.NewDomainError("INVALID_MARGIN", "Margin must be greater than -100%")
	}
	i.Margin = margin
	i.UnitPrice = ComputeLine(*i).UnitPrice
	i.UpdatedAt = time.Now()
	return nil
}

// SetTargetPrice back-solves the margin from a desired sell price.
// The cost must be positive, otherwise there is no margin that produces
// the target price and the edit is rejected.
func (i *Item) SetTargetPrice(target decimal.Decimal) error {
	margin, err := SolveMargin(target, i.Cost())
	if err != nil {
		return err
	}
	return i.SetMargin(margin)
}

// Quote represents a quote aggregate root. It owns the priced line items and
// the derived financials block, and walks DRAFT → FINALIZED → ACCEPTED →
// ORDERED (or CANCELLED before acceptance).
type Quote struct {
	shared.BaseAggregateRoot
	Folio      string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	ClientID   uuid.UUID  `gorm:"type:uuid;index"` // uuid.Nil until a client is linked
	ClientName string     `gorm:"type:varchar(200)"` // snapshot at link time
	Items      []Item     `gorm:"foreignKey:QuoteID"`
	Financials Financials `gorm:"embedded"`
	Status     Status     `gorm:"type:varchar(20);not null;index"`
	OrderID    *uuid.UUID `gorm:"type:uuid"` // set only when the quote becomes ORDERED
	Notes      string     `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new quote in DRAFT for the given sales actor.
// Financial defaults (tax rate, display currency, exchange rate) come from
// explicit configuration, never from ambient state.
func NewQuote(folio string, createdBy uuid.UUID, taxRate decimal.Decimal, currency valueobject.Currency, exchangeRate decimal.Decimal) (*Quote, error) {
	if folio == "" {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", currency))
	}
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	q := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		Folio:             folio,
		Items:             make([]Item, 0),
		Financials: Financials{
			TaxRate:      taxRate,
			Currency:     currency,
			ExchangeRate: exchangeRate,
		},
		Status: StatusDraft,
	}

	q.AddDomainEvent(NewQuoteCreatedEvent(q))

	return q, nil
}

// CanModify returns true while the quote's content may still change
func (q *Quote) CanModify() bool {
	return q.Status == StatusDraft || q.Status == StatusFinalized
}

// SetClient links the quote to a client, snapshotting the client's name
func (q *Quote) SetClient(clientID uuid.UUID, clientName string) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change client of a quote in %s status", q.Status))
	}
	if clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	q.ClientID = clientID
	q.ClientName = clientName
	q.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets free-form notes on the quote
func (q *Quote) SetNotes(notes string) {
	q.Notes = notes
	q.UpdatedAt = time.Now()
}

// AddItem adds a priced line item and re-derives the financials
func (q *Quote) AddItem(productID uuid.UUID, productName string, quantity int, basePrice, importCost, freightCost, margin decimal.Decimal, currency valueobject.Currency, supplierID uuid.UUID, supplierName string) (*Item, error) {
	if !q.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to a quote in %s status", q.Status))
	}

	item, err := NewItem(q.ID, productID, productName, quantity, basePrice, importCost, freightCost, margin, currency, supplierID, supplierName)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	if err := q.Recalculate(); err != nil {
		return nil, err
	}
	q.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemMargin updates a line's margin and re-derives the financials
func (q *Quote) UpdateItemMargin(itemID uuid.UUID, margin decimal.Decimal) error {
	return q.mutateItem(itemID, func(item *Item) error {
		return item.SetMargin(margin)
	})
}

// UpdateItemTargetPrice back-solves a line's margin from a target sell price
func (q *Quote) UpdateItemTargetPrice(itemID uuid.UUID, target decimal.Decimal) error {
	return q.mutateItem(itemID, func(item *Item) error {
		return item.SetTargetPrice(target)
	})
}

// UpdateItemQuantity updates a line's quantity and re-derives the financials
func (q *Quote) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	return q.mutateItem(itemID, func(item *Item) error {
		if quantity < 1 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		item.Quantity = quantity
		item.UpdatedAt = time.Now()
		return nil
	})
}

// UpdateItemCosts updates a line's cost components and re-derives the financials
func (q *Quote) UpdateItemCosts(itemID uuid.UUID, basePrice, importCost, freightCost decimal.Decimal) error {
	return q.mutateItem(itemID, func(item *Item) error {
		if basePrice.IsNegative() || importCost.IsNegative() || freightCost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Cost components cannot be negative")
		}
		item.BasePrice = basePrice
		item.ImportCost = importCost
		item.FreightCost = freightCost
		item.UnitPrice = ComputeLine(*item).UnitPrice
		item.UpdatedAt = time.Now()
		return nil
	})
}

// RemoveItem removes a line item and re-derives the financials
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot remove items from a quote in %s status", q.Status))
	}
	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			if err := q.Recalculate(); err != nil {
				return err
			}
			q.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Quote item not found")
}

// SetTaxRate updates the tax rate and re-derives the financials
func (q *Quote) SetTaxRate(taxRate decimal.Decimal) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change tax rate of a quote in %s status", q.Status))
	}
	if taxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	q.Financials.TaxRate = taxRate
	return q.Recalculate()
}

// SetCurrency updates the display currency and re-derives the financials
func (q *Quote) SetCurrency(currency valueobject.Currency) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change currency of a quote in %s status", q.Status))
	}
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", currency))
	}
	q.Financials.Currency = currency
	return q.Recalculate()
}

// SetExchangeRate updates the MXN-per-USD rate and re-derives the financials
func (q *Quote) SetExchangeRate(rate decimal.Decimal) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change exchange rate of a quote in %s status", q.Status))
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}
	q.Financials.ExchangeRate = rate
	return q.Recalculate()
}

// Recalculate re-derives the financials block from the current items.
// The persisted block is always a cache of this computation.
func (q *Quote) Recalculate() error {
	fin, err := ComputeQuoteTotals(q.Items, q.Financials.TaxRate, q.Financials.Currency, q.Financials.ExchangeRate)
	if err != nil {
		return err
	}
	q.Financials = fin
	q.UpdatedAt = time.Now()
	return nil
}

// LowMarginItems returns the items whose margin falls below the policy floor
func (q *Quote) LowMarginItems(minimum decimal.Decimal) []Item {
	var low []Item
	for _, item := range q.Items {
		if item.IsLowMargin(minimum) {
			low = append(low, item)
		}
	}
	return low
}

// Finalize transitions DRAFT → FINALIZED. Requires at least one item and a
// linked client. Calling it on an already finalized quote is a no-op success
// so that retries are harmless.
func (q *Quote) Finalize() error {
	if q.Status == StatusFinalized {
		return nil
	}
	if !q.Status.CanTransitionTo(StatusFinalized) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finalize quote %s in %s status", q.Folio, q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot finalize a quote without items")
	}
	if q.ClientID == uuid.Nil {
		return shared.NewDomainError("NO_CLIENT", "Cannot finalize a quote without a client")
	}

	q.Status = StatusFinalized
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuoteFinalizedEvent(q))

	return nil
}

// Accept records the customer's confirmation, FINALIZED → ACCEPTED. It does
// not create the sales order; that is a separate administratively gated step
// so acceptance and fulfillment commitment stay separable audit events.
// Repeat calls after the first success are no-op successes and leave the
// financials untouched.
func (q *Quote) Accept() error {
	if q.Status == StatusAccepted {
		return nil
	}
	if !q.Status.CanTransitionTo(StatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept quote %s in %s status", q.Folio, q.Status))
	}

	q.Status = StatusAccepted
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuoteAcceptedEvent(q))

	return nil
}

// Cancel transitions DRAFT/FINALIZED → CANCELLED. Forbidden once accepted.
func (q *Quote) Cancel() error {
	if !q.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel quote %s in %s status; accepted quotes must be cancelled through their sales order", q.Folio, q.Status))
	}

	q.Status = StatusCancelled
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuoteCancelledEvent(q))

	return nil
}

// MarkOrdered transitions ACCEPTED → ORDERED and records the sales order
// back-reference. This runs in the same transaction as the order insert:
// a quote must never be ORDERED without an order, nor the reverse.
func (q *Quote) MarkOrdered(orderID uuid.UUID) error {
	if !q.Status.CanTransitionTo(StatusOrdered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark quote %s as ordered in %s status", q.Folio, q.Status))
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	q.Status = StatusOrdered
	q.OrderID = &orderID
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuoteOrderedEvent(q, orderID))

	return nil
}

// GetItem returns an item by its ID
func (q *Quote) GetItem(itemID uuid.UUID) *Item {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return &q.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of items in the quote
func (q *Quote) ItemCount() int {
	return len(q.Items)
}

// IsTerminal returns true if the quote is ORDERED or CANCELLED
func (q *Quote) IsTerminal() bool {
	return q.Status == StatusOrdered || q.Status == StatusCancelled
}

func (q *Quote) mutateItem(itemID uuid.UUID, fn func(*Item) error) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update items of a quote in %s status", q.Status))
	}
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if err := fn(&q.Items[idx]); err != nil {
				return err
			}
			return q.Recalculate()
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Quote item not found")
}
