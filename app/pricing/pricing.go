// Package pricing computes quote totals from a selection snapshot.
package pricing

import (
	"github.com/craftform/configurator/app/catalog"
	"github.com/shopspring/decimal"
)

// Total sums the selected option price times quantity across all
// categories. Categories without a selection contribute zero, and so do
// quantity entries for unselected categories. Missing or sub-1 quantities
// count as 1. Decimal accumulation keeps the result stable across many
// small prices.
func Total(view *catalog.View, selected map[string]string, quantities map[string]int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range view.Categories {
		optionID := selected[c.ID]
		if optionID == "" {
			continue
		}
		option, ok := view.Option(optionID)
		if !ok {
			continue
		}
		qty := quantities[c.ID]
		if qty < 1 {
			qty = 1
		}
		total = total.Add(option.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
