package costing

import "testing"

func TestRoundPrice(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{-3, 0},
		{12.00, 12.00},
		{12.01, 12.50},
		{12.50, 12.50},
		{12.51, 12.90},
		{12.90, 12.90},
		{12.91, 13.00},
		{0.40, 0.50},
		{99.99, 100.00},
	}
	for _, tt := range tests {
		if got := RoundPrice(tt.raw); got != tt.want {
			t.Fatalf("RoundPrice(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestRoundPriceIdempotent(t *testing.T) {
	for raw := 0.01; raw < 50; raw += 0.37 {
		once := RoundPrice(raw)
		twice := RoundPrice(once)
		if once != twice {
			t.Fatalf("RoundPrice not idempotent at %v: %v -> %v", raw, once, twice)
		}
	}
}

func TestPriceFromMargin(t *testing.T) {
	// 10.00 cost at 50% margin → 20.00, already a retail ending.
	if got := PriceFromMargin(10, 0.5); got != 20 {
		t.Fatalf("PriceFromMargin(10, 0.5) = %v, want 20", got)
	}
	// Invalid margins return the zero sentinel, never ∞ or negatives.
	for _, m := range []float64{1, 1.5, -0.1} {
		if got := PriceFromMargin(10, m); got != 0 {
			t.Fatalf("PriceFromMargin(10, %v) = %v, want 0", m, got)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(12.5); got != "12.50 €" {
		t.Fatalf("FormatPrice = %q", got)
	}
}
