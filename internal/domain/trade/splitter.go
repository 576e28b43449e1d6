package trade

import (
	"github.com/erp-mx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierGroup is one supplier's slice of an order: the input to creating
// a single purchase order.
type SupplierGroup struct {
	SupplierID   uuid.UUID
	SupplierName string
	Items        []POItem
}

// Subtotal returns the cost-basis total of the group
func (g SupplierGroup) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range g.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SplitBySupplier partitions an order's items into one group per distinct
// supplier, by exact supplier ID. Items without a resolved supplier are
// excluded and reported as data-quality warnings; they never silently
// produce a purchase order against a placeholder. Group order follows the
// first appearance of each supplier in the item list, so the split is
// deterministic for a given order.
func SplitBySupplier(order *SalesOrder) ([]SupplierGroup, shared.Warnings) {
	var warnings shared.Warnings
	groups := make([]SupplierGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, item := range order.Items {
		if item.SupplierID == uuid.Nil {
			warnings.Add(shared.WarningCodeUnknownSupplier,
				"Item %q has no resolved supplier and was excluded from purchase orders", item.ProductName)
			continue
		}

		poItem := POItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			BasePrice:   item.BasePrice,
			Currency:    item.Currency,
		}

		if pos, ok := index[item.SupplierID]; ok {
			groups[pos].Items = append(groups[pos].Items, poItem)
			continue
		}
		index[item.SupplierID] = len(groups)
		groups = append(groups, SupplierGroup{
			SupplierID:   item.SupplierID,
			SupplierName: item.SupplierName,
			Items:        []POItem{poItem},
		})
	}

	return groups, warnings
}
