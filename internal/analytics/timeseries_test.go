package analytics

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/models"
)

func TestParsePeriod(t *testing.T) {
	for raw, want := range map[string]Period{"": Daily, "daily": Daily, "monthly": Monthly} {
		got, err := ParsePeriod(raw)
		if err != nil || got != want {
			t.Fatalf("ParsePeriod(%q) = %q, %v", raw, got, err)
		}
	}

	var verr *apperr.ValidationError
	if _, err := ParsePeriod("weekly"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSalesOverTime(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.order(t, models.StatusDelivered, 10, time.Date(2026, 3, 30, 12, 0, 0, 0, time.UTC))
	f.order(t, models.StatusPlaced, 5.5, time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC))
	f.order(t, models.StatusCancelled, 4.5, time.Date(2026, 4, 2, 20, 0, 0, 0, time.UTC))
	f.order(t, models.StatusReady, 1, time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	daily, err := f.agg.SalesOverTime(ctx, Daily, nil, nil)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	wantDaily := []SalesBucket{
		{Bucket: "2026-03-30", TotalSales: 10, OrderCount: 1},
		{Bucket: "2026-04-02", TotalSales: 10, OrderCount: 2},
		{Bucket: "2026-04-15", TotalSales: 1, OrderCount: 1},
	}
	if !reflect.DeepEqual(daily, wantDaily) {
		t.Fatalf("expected %+v, got %+v", wantDaily, daily)
	}

	monthly, err := f.agg.SalesOverTime(ctx, Monthly, nil, nil)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	wantMonthly := []SalesBucket{
		{Bucket: "2026-03", TotalSales: 10, OrderCount: 1},
		{Bucket: "2026-04", TotalSales: 11, OrderCount: 3},
	}
	if !reflect.DeepEqual(monthly, wantMonthly) {
		t.Fatalf("expected %+v, got %+v", wantMonthly, monthly)
	}

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	ranged, err := f.agg.SalesOverTime(ctx, Daily, &from, &to)
	if err != nil || len(ranged) != 1 || ranged[0].Bucket != "2026-04-02" {
		t.Fatalf("expected one bucket in range, got %+v (%v)", ranged, err)
	}

	var verr *apperr.ValidationError
	if _, err := f.agg.SalesOverTime(ctx, Daily, &to, &from); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}
}

func TestSalesOverTimeUsesConfiguredZone(t *testing.T) {
	f := newFixture(t, time.FixedZone("UTC-5", -5*3600))
	f.order(t, models.StatusPlaced, 3, time.Date(2026, 4, 2, 2, 0, 0, 0, time.UTC))

	got, err := f.agg.SalesOverTime(context.Background(), Daily, nil, nil)
	if err != nil || len(got) != 1 || got[0].Bucket != "2026-04-01" {
		t.Fatalf("expected local-day bucket 2026-04-01, got %+v (%v)", got, err)
	}
}

func TestPeakHours(t *testing.T) {
	f := newFixture(t, time.FixedZone("UTC+2", 2*3600))
	f.order(t, models.StatusPlaced, 10, time.Date(2026, 4, 1, 10, 5, 0, 0, time.UTC))
	f.order(t, models.StatusPlaced, 2.5, time.Date(2026, 4, 3, 10, 55, 0, 0, time.UTC))
	f.order(t, models.StatusPlaced, 4, time.Date(2026, 4, 3, 22, 30, 0, 0, time.UTC))

	got, err := f.agg.PeakHours(context.Background())
	if err != nil {
		t.Fatalf("peak hours: %v", err)
	}
	want := []HourStat{
		{Hour: 0, OrderCount: 1, TotalRevenue: 4},
		{Hour: 12, OrderCount: 2, TotalRevenue: 12.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestTrends(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.order(t, models.StatusDelivered, 100, now.AddDate(0, 0, -10))
	f.order(t, models.StatusDelivered, 8, now.AddDate(0, 0, -2))
	f.order(t, models.StatusPlaced, 2, now.AddDate(0, 0, -2).Add(time.Hour))
	f.order(t, models.StatusReady, 5, now.Add(-time.Hour))

	got, err := f.agg.Trends(context.Background(), 0)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	want := []TrendPoint{
		{Bucket: "2026-04-29", Revenue: 10, Orders: 2, CompletedRevenue: 8, CompletedOrders: 1},
		{Bucket: "2026-05-01", Revenue: 5, Orders: 1, CompletedRevenue: 5, CompletedOrders: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got, err = f.agg.Trends(context.Background(), 30)
	if err != nil || len(got) != 3 {
		t.Fatalf("expected 30-day window to include the old order, got %+v (%v)", got, err)
	}
}
