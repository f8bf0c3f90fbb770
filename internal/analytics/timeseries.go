package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/money"
	"restaurant-backend/internal/orders"
)

type Period string

const (
	Daily   Period = "daily"
	Monthly Period = "monthly"
)

// ParsePeriod accepts "daily" (the default when empty) or "monthly".
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case "", Daily:
		return Daily, nil
	case Monthly:
		return Monthly, nil
	}
	return "", apperr.Validation(fmt.Sprintf("%s is not a valid period (allowed: daily, monthly)", raw))
}

func (p Period) layout() string {
	if p == Monthly {
		return "2006-01"
	}
	return "2006-01-02"
}

type SalesBucket struct {
	Bucket     string  `json:"bucket"`
	TotalSales float64 `json:"totalSales"`
	OrderCount int     `json:"orderCount"`
}

// SalesOverTime buckets order revenue by creation day or month, oldest
// bucket first. Nil bounds are open.
func (a *Aggregator) SalesOverTime(ctx context.Context, period Period, from, to *time.Time) ([]SalesBucket, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperr.Validation("startDate must not be after endDate")
	}

	scanned, err := a.orders.Scan(ctx, orders.ScanQuery{From: from, To: to})
	if err != nil {
		return nil, err
	}

	layout := period.layout()
	out := make([]SalesBucket, 0)
	sums := make([]decimal.Decimal, 0)
	index := make(map[string]int)
	for _, o := range scanned {
		key := o.CreatedAt.In(a.loc).Format(layout)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, SalesBucket{Bucket: key})
			sums = append(sums, decimal.Zero)
		}
		out[i].OrderCount++
		sums[i] = sums[i].Add(decimal.NewFromFloat(o.TotalAmount))
	}
	for i := range out {
		out[i].TotalSales = money.Float(sums[i])
	}

	// Keys are zero-padded, so lexical order is chronological.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out, nil
}

type TrendPoint struct {
	Bucket           string  `json:"bucket"`
	Revenue          float64 `json:"revenue"`
	Orders           int     `json:"orders"`
	CompletedRevenue float64 `json:"completedRevenue"`
	CompletedOrders  int     `json:"completedOrders"`
}

// Trends reports daily revenue for the trailing days, with the ready and
// delivered share broken out.
func (a *Aggregator) Trends(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	from := a.clock.Now().In(a.loc).AddDate(0, 0, -days)

	scanned, err := a.orders.Scan(ctx, orders.ScanQuery{From: &from})
	if err != nil {
		return nil, err
	}

	type acc struct {
		revenue, completed decimal.Decimal
	}
	out := make([]TrendPoint, 0)
	sums := make([]acc, 0)
	index := make(map[string]int)
	for _, o := range scanned {
		key := o.CreatedAt.In(a.loc).Format(Daily.layout())
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, TrendPoint{Bucket: key})
			sums = append(sums, acc{revenue: decimal.Zero, completed: decimal.Zero})
		}
		amount := decimal.NewFromFloat(o.TotalAmount)
		out[i].Orders++
		sums[i].revenue = sums[i].revenue.Add(amount)
		if isCompleted(o.Status) {
			out[i].CompletedOrders++
			sums[i].completed = sums[i].completed.Add(amount)
		}
	}
	for i := range out {
		out[i].Revenue = money.Float(sums[i].revenue)
		out[i].CompletedRevenue = money.Float(sums[i].completed)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out, nil
}

type HourStat struct {
	Hour         int     `json:"hour"`
	OrderCount   int     `json:"orderCount"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// PeakHours groups orders by hour of day. Hours without orders are omitted.
func (a *Aggregator) PeakHours(ctx context.Context) ([]HourStat, error) {
	scanned, err := a.orders.Scan(ctx, orders.ScanQuery{})
	if err != nil {
		return nil, err
	}

	var counts [24]int
	var sums [24]decimal.Decimal
	for _, o := range scanned {
		h := o.CreatedAt.In(a.loc).Hour()
		counts[h]++
		sums[h] = sums[h].Add(decimal.NewFromFloat(o.TotalAmount))
	}

	out := make([]HourStat, 0)
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		out = append(out, HourStat{Hour: h, OrderCount: counts[h], TotalRevenue: money.Float(sums[h])})
	}
	return out, nil
}
