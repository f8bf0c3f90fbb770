package money

import "testing"

func TestLineTotal(t *testing.T) {
	if got := Float(LineTotal(12.5, 2)); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := Float(LineTotal(9.99, 3, 0.5, 1.25)); got != 35.22 {
		t.Fatalf("expected 35.22, got %v", got)
	}
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	if got := Float(Sum(0.1, 0.2)); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
	if got := Round2(2.675); got != 2.68 {
		t.Fatalf("expected 2.68, got %v", got)
	}
}

func TestAverage(t *testing.T) {
	if got := Average(Sum(10, 20), 2); got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}
	if got := Average(Sum(10, 20, 5), 3); got != 11.67 {
		t.Fatalf("expected 11.67, got %v", got)
	}
	if got := Average(Sum(), 0); got != 0 {
		t.Fatalf("expected 0 for no orders, got %v", got)
	}
}
