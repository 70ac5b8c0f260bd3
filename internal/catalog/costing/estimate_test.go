package costing

import (
	"testing"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
)

func stoneProduct() (*entity.Product, map[string]*entity.Material) {
	materials := map[string]*entity.Material{
		"stone-set": {
			ID:          "stone-set",
			Type:        entity.MaterialStone,
			CostPerUnit: 1.00,
			VariantPrices: entity.VariantPrices{
				"T": 2.50,
				"H": 0.80,
			},
		},
	}
	p := &entity.Product{
		SKU:     "RN100",
		WeightG: 5,
		Recipe:  []entity.RecipeItem{rawItem("stone-set", 2)},
		Variants: []entity.ProductVariant{
			{ID: "v1", Suffix: "T"},
			{ID: "v2", Suffix: "H"},
			{ID: "v3", Suffix: "ON"},
		},
	}
	return p, materials
}

func TestEstimateUsesVariantPrice(t *testing.T) {
	p, materials := stoneProduct()

	base, err := CalculateProductCost(p, testRates(), materials, nil)
	if err != nil {
		t.Fatalf("master cost: %v", err)
	}
	turquoise, err := EstimateVariantCost(p, "T", testRates(), materials, nil)
	if err != nil {
		t.Fatalf("variant cost: %v", err)
	}
	// The T variant pays 2.50 per stone instead of 1.00.
	closeTo(t, turquoise.Total-base.Total, 2*(2.50-1.00), "variant price delta")
}

func TestEstimateFallsBackToUnitCost(t *testing.T) {
	p, materials := stoneProduct()

	base, err := CalculateProductCost(p, testRates(), materials, nil)
	if err != nil {
		t.Fatalf("master cost: %v", err)
	}
	// ON has no entry in variant_prices, so the estimate equals the
	// master computation.
	onyx, err := EstimateVariantCost(p, "ON", testRates(), materials, nil)
	if err != nil {
		t.Fatalf("variant cost: %v", err)
	}
	closeTo(t, onyx.Total, base.Total, "fallback estimate")
}

func TestEstimateSiblingIsolation(t *testing.T) {
	p, materials := stoneProduct()

	before, err := EstimateVariantCost(p, "H", testRates(), materials, nil)
	if err != nil {
		t.Fatalf("H estimate: %v", err)
	}

	// Repricing only the T stone must not move the H estimate.
	materials["stone-set"].VariantPrices["T"] = 9.00
	after, err := EstimateVariantCost(p, "H", testRates(), materials, nil)
	if err != nil {
		t.Fatalf("H estimate after T change: %v", err)
	}
	closeTo(t, after.Total, before.Total, "sibling estimate")
}

func TestReconcileOnlyBeyondTolerance(t *testing.T) {
	p, materials := stoneProduct()
	rates := testRates()

	// Seed all cached prices from a clean computation.
	for i := range p.Variants {
		res, err := EstimateVariantCost(p, p.Variants[i].Suffix, rates, materials, nil)
		if err != nil {
			t.Fatalf("seed estimate: %v", err)
		}
		p.Variants[i].ActivePrice = res.Total
	}

	// Nothing changed: reconciliation must be a no-op.
	updates, err := ReconcileVariants(p, rates, materials, nil, ReconcileTolerance)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("expected no updates on unchanged inputs, got %v", updates)
	}

	// Nudge one cached price within tolerance, push another beyond it.
	p.Variants[0].ActivePrice += 0.004
	p.Variants[1].ActivePrice += 0.50

	updates, err = ReconcileVariants(p, rates, materials, nil, ReconcileTolerance)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected exactly one update, got %v", updates)
	}
	if updates[0].VariantID != "v2" {
		t.Fatalf("wrong variant updated: %+v", updates[0])
	}
}

func TestReconcileRatesChange(t *testing.T) {
	p, materials := stoneProduct()
	rates := testRates()

	for i := range p.Variants {
		res, err := EstimateVariantCost(p, p.Variants[i].Suffix, rates, materials, nil)
		if err != nil {
			t.Fatalf("seed estimate: %v", err)
		}
		p.Variants[i].ActivePrice = res.Total
	}

	// A silver rate move shifts every variant by weight × delta.
	rates.SilverPriceGram += 0.10
	updates, err := ReconcileVariants(p, rates, materials, nil, ReconcileTolerance)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(updates) != len(p.Variants) {
		t.Fatalf("expected all variants updated, got %d of %d", len(updates), len(p.Variants))
	}
	for _, u := range updates {
		if u.NewPrice <= 0 {
			t.Fatalf("nonsense price in update: %+v", u)
		}
	}
}
