package costing

import (
	"fmt"
	"math"
)

// retailEndings are the cent endings a retail price may carry, in
// ascending order.
var retailEndings = []int{0, 50, 90}

// RoundPrice rounds a raw amount up to the nearest canonical retail
// ending (.00, .50 or .90). It is idempotent: a price already on an
// allowed ending passes through unchanged.
func RoundPrice(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	cents := int(math.Round(raw * 100))
	euros := cents / 100
	rem := cents % 100
	for _, e := range retailEndings {
		if rem <= e {
			return float64(euros*100+e) / 100
		}
	}
	return float64((euros+1)*100) / 100
}

// PriceFromMargin derives a retail price from cost and a margin
// fraction (price = cost / (1 - margin)). A margin at or above 100% is
// invalid and returns the zero sentinel instead of a divide-by-zero.
func PriceFromMargin(cost, marginFraction float64) float64 {
	if marginFraction >= 1 || marginFraction < 0 || cost <= 0 {
		return 0
	}
	return RoundPrice(cost / (1 - marginFraction))
}

// FormatPrice renders a price for display with two decimals and the
// euro sign.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}
