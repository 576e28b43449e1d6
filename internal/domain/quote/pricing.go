package quote

import (
	"fmt"

	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Financials is the derived totals block of a quote. It is always a cache of
// ComputeQuoteTotals over the current items and is recomputed on every item
// or parameter change, never edited directly.
type Financials struct {
	Subtotal     decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	TaxRate      decimal.Decimal      `gorm:"type:decimal(9,4);not null"`
	TaxAmount    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Total        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null"`
	ExchangeRate decimal.Decimal      `gorm:"type:decimal(12,4);not null"` // MXN per USD
}

// LineComputation holds the derived amounts for a single line item,
// expressed in the item's own currency.
type LineComputation struct {
	Cost      decimal.Decimal // base + import + freight, per unit
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// ComputeLine derives a line's unit price and extended total:
//
//	unitPrice = (basePrice + importCost + freightCost) * (1 + margin)
//
// Negative cost components and quantities are clamped to zero, and margins
// at or below -1 are clamped to -1, so a computed price is never negative.
func ComputeLine(item Item) LineComputation {
	base := clampNonNegative(item.BasePrice)
	imp := clampNonNegative(item.ImportCost)
	freight := clampNonNegative(item.FreightCost)
	qty := int64(item.Quantity)
	if qty < 0 {
		qty = 0
	}

	margin := item.Margin
	if margin.LessThan(decimal.NewFromInt(-1)) {
		margin = decimal.NewFromInt(-1)
	}

	cost := base.Add(imp).Add(freight)
	unitPrice := cost.Mul(decimal.NewFromInt(1).Add(margin))

	return LineComputation{
		Cost:      cost,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(qty)),
	}
}

// ComputeQuoteTotals aggregates line totals into a financials block.
// Line amounts stay in their own currency until this aggregation step;
// each extended total is converted to the quote currency here, using the
// quote-level MXN-per-USD rate. Totals are rounded to 2 decimal places;
// per-line math keeps full precision.
func ComputeQuoteTotals(items []Item, taxRate decimal.Decimal, currency valueobject.Currency, exchangeRate decimal.Decimal) (Financials, error) {
	if !currency.IsValid() {
		return Financials{}, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency %q", currency))
	}
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return Financials{}, shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}
	if taxRate.IsNegative() {
		return Financials{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		line := ComputeLine(item)
		lineMoney, err := valueobject.NewMoney(line.LineTotal, item.Currency)
		if err != nil {
			return Financials{}, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
		converted, err := lineMoney.ConvertTo(currency, exchangeRate)
		if err != nil {
			return Financials{}, shared.NewDomainError("CONVERSION_FAILED", err.Error())
		}
		subtotal = subtotal.Add(converted.Amount())
	}

	subtotal = subtotal.Round(2)
	taxAmount := subtotal.Mul(taxRate).Round(2)

	return Financials{
		Subtotal:     subtotal,
		TaxRate:      taxRate,
		TaxAmount:    taxAmount,
		Total:        subtotal.Add(taxAmount),
		Currency:     currency,
		ExchangeRate: exchangeRate,
	}, nil
}

// SolveMargin back-solves the margin that yields the target unit price:
//
//	margin = targetPrice / cost - 1
//
// A zero or negative cost admits no solution and is rejected.
func SolveMargin(targetPrice, cost decimal.Decimal) (decimal.Decimal, error) {
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("ZERO_COST", "Cannot solve margin for an item with zero cost")
	}
	if targetPrice.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Target price cannot be negative")
	}
	return targetPrice.Div(cost).Sub(decimal.NewFromInt(1)), nil
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
