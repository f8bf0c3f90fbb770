package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restaurant-backend/internal/models"
	"restaurant-backend/internal/money"
	"restaurant-backend/internal/orders"
)

type PopularItem struct {
	MenuItemID           primitive.ObjectID `json:"menuItemId"`
	ItemName             string             `json:"itemName"`
	TotalQuantityOrdered int                `json:"totalQuantityOrdered"`
	TotalRevenue         float64            `json:"totalRevenue"`
}

// PopularItems ranks menu items by units ordered across every order line.
// Line revenue is the captured unit price times quantity.
func (a *Aggregator) PopularItems(ctx context.Context, limit int) ([]PopularItem, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	scanned, err := a.orders.Scan(ctx, orders.ScanQuery{})
	if err != nil {
		return nil, err
	}

	out := make([]PopularItem, 0)
	sums := make([]decimal.Decimal, 0)
	index := make(map[primitive.ObjectID]int)
	for _, o := range scanned {
		for _, line := range o.Items {
			i, ok := index[line.MenuItemID]
			if !ok {
				i = len(out)
				index[line.MenuItemID] = i
				out = append(out, PopularItem{MenuItemID: line.MenuItemID, ItemName: line.Name})
				sums = append(sums, decimal.Zero)
			}
			out[i].TotalQuantityOrdered += line.Quantity
			sums[i] = sums[i].Add(money.LineTotal(line.Price, line.Quantity))
		}
	}
	for i := range out {
		out[i].TotalRevenue = money.Float(sums[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalQuantityOrdered != out[j].TotalQuantityOrdered {
			return out[i].TotalQuantityOrdered > out[j].TotalQuantityOrdered
		}
		return out[i].TotalRevenue > out[j].TotalRevenue
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type CategoryStat struct {
	Category     models.Category `json:"category"`
	TotalRevenue float64         `json:"totalRevenue"`
	ItemCount    int             `json:"itemCount"`
}

// CategoryRevenue attributes line revenue to the category the menu item has
// now. Editing an item's category moves its past revenue with it. Lines
// whose menu item no longer exists are skipped.
func (a *Aggregator) CategoryRevenue(ctx context.Context) ([]CategoryStat, error) {
	scanned, err := a.orders.Scan(ctx, orders.ScanQuery{})
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0)
	for _, o := range scanned {
		for _, line := range o.Items {
			ids = append(ids, line.MenuItemID)
		}
	}
	menu, err := a.menu.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve menu items: %w", err)
	}

	type acc struct {
		units int
		sum   decimal.Decimal
	}
	groups := make(map[models.Category]*acc)
	skipped := 0
	for _, o := range scanned {
		for _, line := range o.Items {
			item, ok := menu[line.MenuItemID]
			if !ok {
				skipped++
				continue
			}
			g, ok := groups[item.Category]
			if !ok {
				g = &acc{sum: decimal.Zero}
				groups[item.Category] = g
			}
			g.units += line.Quantity
			g.sum = g.sum.Add(money.LineTotal(line.Price, line.Quantity))
		}
	}
	if skipped > 0 {
		a.log.Debug("category revenue skipped lines without a menu item", zap.Int("lines", skipped))
	}

	out := make([]CategoryStat, 0, len(groups))
	for category, g := range groups {
		out = append(out, CategoryStat{Category: category, TotalRevenue: money.Float(g.sum), ItemCount: g.units})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
