// Package analytics derives reporting figures from the order store. Nothing is
// cached; every call rescans the orders it needs.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/money"
	"restaurant-backend/internal/orders"
)

const (
	DefaultPopularLimit = 10
	DefaultTrendDays    = 7
	DefaultRecentWindow = time.Hour
)

// OrderSource streams orders for aggregation.
type OrderSource interface {
	Scan(ctx context.Context, q orders.ScanQuery) ([]models.Order, error)
}

// Aggregator computes reports over every order status. Calendar days,
// months and hours are taken in loc.
type Aggregator struct {
	orders OrderSource
	menu   orders.MenuLookup
	clock  clock.Clock
	loc    *time.Location
	log    *zap.Logger
}

func NewAggregator(src OrderSource, menu orders.MenuLookup, clk clock.Clock, loc *time.Location, log *zap.Logger) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{orders: src, menu: menu, clock: clk, loc: loc, log: log.Named("analytics")}
}

type Summary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	TodayOrders       int     `json:"todayOrders"`
	TodayRevenue      float64 `json:"todayRevenue"`
	PendingOrders     int     `json:"pendingOrders"`
	CompletedOrders   int     `json:"completedOrders"`
	CompletedRevenue  float64 `json:"completedRevenue"`
}

// Summary reports pipeline totals over all orders. Pending is placed or
// preparing; completed is ready or delivered.
func (a *Aggregator) Summary(ctx context.Context) (Summary, error) {
	all, err := a.orders.Scan(ctx, orders.ScanQuery{})
	if err != nil {
		return Summary{}, err
	}

	dayStart := startOfDay(a.clock.Now().In(a.loc))
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out Summary
	total, today, completed := decimal.Zero, decimal.Zero, decimal.Zero
	for _, o := range all {
		amount := decimal.NewFromFloat(o.TotalAmount)
		total = total.Add(amount)

		created := o.CreatedAt.In(a.loc)
		if !created.Before(dayStart) && created.Before(dayEnd) {
			out.TodayOrders++
			today = today.Add(amount)
		}

		switch {
		case isPending(o.Status):
			out.PendingOrders++
		case isCompleted(o.Status):
			out.CompletedOrders++
			completed = completed.Add(amount)
		}
	}

	out.TotalOrders = len(all)
	out.TotalRevenue = money.Float(total)
	out.AverageOrderValue = money.Average(total, len(all))
	out.TodayRevenue = money.Float(today)
	out.CompletedRevenue = money.Float(completed)

	a.log.Debug("summary computed", zap.Int("orders", out.TotalOrders), zap.Float64("revenue", out.TotalRevenue))
	return out, nil
}

type StatusCount struct {
	Status       models.OrderStatus `json:"status"`
	Count        int                `json:"count"`
	TotalRevenue float64            `json:"totalRevenue"`
	AverageValue float64            `json:"averageValue"`
}

// StatusBreakdown groups orders by status, most frequent first.
func (a *Aggregator) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	all, err := a.orders.Scan(ctx, orders.ScanQuery{})
	if err != nil {
		return nil, err
	}

	type acc struct {
		count int
		sum   decimal.Decimal
	}
	groups := make(map[models.OrderStatus]*acc)
	for _, o := range all {
		g, ok := groups[o.Status]
		if !ok {
			g = &acc{sum: decimal.Zero}
			groups[o.Status] = g
		}
		g.count++
		g.sum = g.sum.Add(decimal.NewFromFloat(o.TotalAmount))
	}

	out := make([]StatusCount, 0, len(groups))
	for status, g := range groups {
		out = append(out, StatusCount{
			Status:       status,
			Count:        g.count,
			TotalRevenue: money.Float(g.sum),
			AverageValue: money.Average(g.sum, g.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

type RecentActivity struct {
	LastHourOrders     int       `json:"lastHourOrders"`
	LastHourRevenue    float64   `json:"lastHourRevenue"`
	CurrentlyPreparing int       `json:"currentlyPreparing"`
	ReadyForPickup     int       `json:"readyForPickup"`
	Window             string    `json:"window"`
	Timestamp          time.Time `json:"timestamp"`
}

// RecentActivity counts orders created within the trailing window plus the
// current preparing and ready gauges. The "lastHour" fields carry the window
// figures whatever its length.
func (a *Aggregator) RecentActivity(ctx context.Context, window time.Duration) (RecentActivity, error) {
	if window <= 0 {
		window = DefaultRecentWindow
	}
	now := a.clock.Now()
	from := now.Add(-window)

	recent, err := a.orders.Scan(ctx, orders.ScanQuery{From: &from})
	if err != nil {
		return RecentActivity{}, err
	}
	active, err := a.orders.Scan(ctx, orders.ScanQuery{
		Statuses: []models.OrderStatus{models.StatusPreparing, models.StatusReady},
	})
	if err != nil {
		return RecentActivity{}, err
	}

	out := RecentActivity{Window: window.String(), Timestamp: now}
	revenue := decimal.Zero
	for _, o := range recent {
		if o.CreatedAt.After(now) {
			continue
		}
		out.LastHourOrders++
		revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
	}
	out.LastHourRevenue = money.Float(revenue)

	for _, o := range active {
		switch o.Status {
		case models.StatusPreparing:
			out.CurrentlyPreparing++
		case models.StatusReady:
			out.ReadyForPickup++
		}
	}
	return out, nil
}

func isPending(s models.OrderStatus) bool {
	return s == models.StatusPlaced || s == models.StatusPreparing
}

func isCompleted(s models.OrderStatus) bool {
	return s == models.StatusReady || s == models.StatusDelivered
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
