package costing

import (
	"testing"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
)

func TestClassifyPremiumMonotonic(t *testing.T) {
	cfg := DefaultForensicsConfig()
	rank := map[Verdict]int{
		VerdictExcellent:  0,
		VerdictFair:       1,
		VerdictExpensive:  2,
		VerdictOverpriced: 3,
	}
	prev := -1
	for pct := -20.0; pct <= 100; pct += 0.5 {
		v := ClassifyPremium(pct, cfg.Thresholds)
		if rank[v] < prev {
			t.Fatalf("verdict improved as premium grew: %v%% -> %s", pct, v)
		}
		prev = rank[v]
	}
}

func TestClassifyPremiumBoundaries(t *testing.T) {
	th := VerdictThresholds{ExcellentMax: 5, FairMax: 15, ExpensiveMax: 30}
	tests := []struct {
		pct  float64
		want Verdict
	}{
		{-10, VerdictExcellent},
		{5, VerdictExcellent},
		{5.01, VerdictFair},
		{15, VerdictFair},
		{22, VerdictExpensive},
		{30.01, VerdictOverpriced},
	}
	for _, tt := range tests {
		if got := ClassifyPremium(tt.pct, th); got != tt.want {
			t.Fatalf("ClassifyPremium(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestAnalyzeSupplierPremium(t *testing.T) {
	p := &entity.Product{SKU: "RN100", WeightG: 5}
	rates := testRates()
	cfg := DefaultForensicsConfig()

	theo, err := CalculateProductCost(p, rates, nil, nil)
	if err != nil {
		t.Fatalf("make cost: %v", err)
	}

	quote := SupplierQuote{Cost: theo.Total * 1.10}
	a, err := AnalyzeSupplierPrice(p, quote, rates, cfg, nil, nil)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	closeTo(t, a.TheoreticalMakeCost, theo.Total, "make cost")
	closeTo(t, a.SupplierPremium, theo.Total*0.10, "premium")
	closeTo(t, a.PremiumPercent, 10, "premium percent")
	if a.Verdict != VerdictFair {
		t.Fatalf("verdict = %s, want fair at 10%%", a.Verdict)
	}
}

func TestAnalyzeEffectiveSilverPrice(t *testing.T) {
	// 10g piece, no stones. Supplier reports 2.00 labor and quotes
	// 12.00: the implied metal rate is exactly 1.00 €/g against a 0.80
	// market, a hidden markup on weight.
	p := &entity.Product{SKU: "BR55", WeightG: 10}
	rates := testRates()
	cfg := DefaultForensicsConfig()

	quote := SupplierQuote{Cost: 12.00, LaborReported: fp(2.00)}
	a, err := AnalyzeSupplierPrice(p, quote, rates, cfg, nil, nil)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	closeTo(t, a.EffectiveSilverPrice, 1.00, "effective silver price")
	if !a.HasHiddenMarkup {
		t.Fatalf("expected hidden markup at 1.00 €/g vs market 0.80")
	}

	// At an honest quote the flag stays down.
	honest := SupplierQuote{Cost: 10*0.80 + 2.00, LaborReported: fp(2.00)}
	a, err = AnalyzeSupplierPrice(p, honest, rates, cfg, nil, nil)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	if a.HasHiddenMarkup {
		t.Fatalf("honest quote flagged: effective %v", a.EffectiveSilverPrice)
	}
}

func TestAnalyzeLaborEfficiency(t *testing.T) {
	p := &entity.Product{SKU: "RN100", WeightG: 5}
	rates := testRates()
	cfg := DefaultForensicsConfig()

	theo, err := CalculateProductCost(p, rates, nil, nil)
	if err != nil {
		t.Fatalf("make cost: %v", err)
	}
	theoreticalLabor := theo.Breakdown.Labor.Total()

	tests := []struct {
		reported float64
		want     LaborEfficiency
	}{
		{theoreticalLabor * 0.5, LaborCheaper},
		{theoreticalLabor, LaborSimilar},
		{theoreticalLabor * 2, LaborMoreExpensive},
	}
	for _, tt := range tests {
		quote := SupplierQuote{Cost: theo.Total, LaborReported: fp(tt.reported)}
		a, err := AnalyzeSupplierPrice(p, quote, rates, cfg, nil, nil)
		if err != nil {
			t.Fatalf("analysis: %v", err)
		}
		if a.LaborEfficiency != tt.want {
			t.Fatalf("labor %v vs %v: efficiency = %s, want %s",
				tt.reported, theoreticalLabor, a.LaborEfficiency, tt.want)
		}
	}
}

func TestAnalyzeIntrinsicValue(t *testing.T) {
	materials := map[string]*entity.Material{
		"stone": {ID: "stone", Type: entity.MaterialStone, CostPerUnit: 2.00},
	}
	p := &entity.Product{
		SKU:     "RN100",
		WeightG: 5,
		Recipe:  []entity.RecipeItem{rawItem("stone", 1)},
	}
	a, err := AnalyzeSupplierPrice(p, SupplierQuote{Cost: 10}, testRates(), DefaultForensicsConfig(), materials, nil)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}
	closeTo(t, a.IntrinsicValue, 5*0.80+2.00, "intrinsic value")
	if a.IntrinsicValue >= a.TheoreticalMakeCost {
		t.Fatalf("melt value must sit below make cost: %v >= %v", a.IntrinsicValue, a.TheoreticalMakeCost)
	}
}
