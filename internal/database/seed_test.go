package database

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"restaurant-backend/internal/catalog"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/models"
	"restaurant-backend/internal/orders"
)

func TestSeedPopulatesEmptyStores(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	menuRepo := catalog.NewMemoryRepository()
	orderRepo := orders.NewMemoryRepository()

	if err := Seed(ctx, menuRepo, orderRepo, &clock.Fixed{At: now}, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if n, _ := menuRepo.Count(ctx); n != 6 {
		t.Fatalf("expected 6 menu items, got %d", n)
	}
	seeded, err := orderRepo.Scan(ctx, orders.ScanQuery{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(seeded) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(seeded))
	}

	delivered, ready := seeded[0], seeded[1]
	if delivered.Status != models.StatusDelivered || !delivered.CreatedAt.Equal(now.Add(-24*time.Hour)) {
		t.Fatalf("unexpected first order %s created %v", delivered.Status, delivered.CreatedAt)
	}
	if delivered.Timestamps.Delivered == nil || !delivered.Timestamps.Delivered.Equal(now.Add(-23*time.Hour)) {
		t.Fatalf("unexpected delivered stamp %v", delivered.Timestamps.Delivered)
	}
	if ready.Status != models.StatusReady || ready.Timestamps.Ready == nil || ready.Timestamps.Delivered != nil {
		t.Fatalf("unexpected second order %+v", ready)
	}
	if delivered.TotalAmount != 25.98 || delivered.PaymentStatus != models.PaymentPaid {
		t.Fatalf("expected two Caesar Salads paid, got %v %s", delivered.TotalAmount, delivered.PaymentStatus)
	}
}

func TestSeedLeavesPopulatedStoresAlone(t *testing.T) {
	ctx := context.Background()
	clk := &clock.Fixed{At: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	menuRepo := catalog.NewMemoryRepository()
	orderRepo := orders.NewMemoryRepository()

	if err := Seed(ctx, menuRepo, orderRepo, clk, zap.NewNop()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(ctx, menuRepo, orderRepo, clk, zap.NewNop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	if n, _ := menuRepo.Count(ctx); n != 6 {
		t.Fatalf("expected 6 menu items after reseed, got %d", n)
	}
	if n, _ := orderRepo.Count(ctx); n != 2 {
		t.Fatalf("expected 2 orders after reseed, got %d", n)
	}
}
