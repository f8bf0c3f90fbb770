package orders

import (
	"github.com/shopspring/decimal"

	"restaurant-backend/internal/models"
	"restaurant-backend/internal/money"
)

// ComputeTotal is the only source of an order's totalAmount: the sum over
// lines of (unit price + customization surcharges) * quantity, in cents.
func ComputeTotal(items []models.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		surcharges := make([]float64, 0, len(item.Customizations))
		for _, c := range item.Customizations {
			surcharges = append(surcharges, c.AdditionalPrice)
		}
		total = total.Add(money.LineTotal(item.Price, item.Quantity, surcharges...))
	}
	return money.Float(total)
}
