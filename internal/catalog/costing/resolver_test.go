package costing

import (
	"errors"
	"math"
	"testing"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
)

func testRates() Rates {
	return Rates{
		SilverPriceGram: 0.80,
		CastingRateGram: 0.15,
		PlatingRateGram: 0.10,
		TechnicianTiers: DefaultTechnicianTiers(),
	}
}

func strp(s string) *string { return &s }

func fp(f float64) *float64 { return &f }

func closeTo(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}

func rawItem(materialID string, qty float64) entity.RecipeItem {
	return entity.RecipeItem{Type: entity.RecipeItemRaw, MaterialID: strp(materialID), Quantity: qty}
}

func componentItem(sku string, qty float64) entity.RecipeItem {
	return entity.RecipeItem{Type: entity.RecipeItemComponent, ComponentSKU: strp(sku), Quantity: qty}
}

func TestCalculateBareProduct(t *testing.T) {
	// 5g, no recipe: silver 4.00, casting 0.75, technician(5g) from the
	// tier table, nothing else.
	p := &entity.Product{SKU: "RN100", WeightG: 5}
	res, err := CalculateProductCost(p, testRates(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeTo(t, res.Breakdown.Silver, 4.00, "silver")
	closeTo(t, res.Breakdown.Labor.Casting, 0.75, "casting")
	tech := TechnicianCost(5, DefaultTechnicianTiers())
	closeTo(t, res.Breakdown.Labor.Technician, tech, "technician")
	closeTo(t, res.Total, 4.00+0.75+tech, "total")
	if res.Breakdown.Labor.Setter != 0 || res.Breakdown.Labor.PlatingX != 0 || res.Breakdown.Labor.PlatingD != 0 {
		t.Fatalf("unexpected labor charges: %+v", res.Breakdown.Labor)
	}
}

func TestCalculateWithRawMaterials(t *testing.T) {
	materials := map[string]*entity.Material{
		"stone-onyx": {ID: "stone-onyx", Type: entity.MaterialStone, Unit: entity.UnitPiece, CostPerUnit: 1.20},
		"chain":      {ID: "chain", Type: entity.MaterialOther, Unit: entity.UnitGram, CostPerUnit: 0.40},
	}
	p := &entity.Product{
		SKU:     "PE200",
		WeightG: 3,
		Recipe: []entity.RecipeItem{
			rawItem("stone-onyx", 2),
			rawItem("chain", 10),
		},
	}
	res, err := CalculateProductCost(p, testRates(), materials, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeTo(t, res.Breakdown.Materials, 2*1.20+10*0.40, "materials subtotal")
}

func TestCalculateMissingMaterialFlaggedNotFatal(t *testing.T) {
	p := &entity.Product{
		SKU:     "PE200",
		WeightG: 3,
		Recipe:  []entity.RecipeItem{rawItem("ghost", 2)},
	}
	res, err := CalculateProductCost(p, testRates(), map[string]*entity.Material{}, nil)
	if err != nil {
		t.Fatalf("missing material must not be fatal: %v", err)
	}
	closeTo(t, res.Breakdown.Materials, 0, "materials subtotal")
	if len(res.Breakdown.Missing) != 1 || res.Breakdown.Missing[0] != "material:ghost" {
		t.Fatalf("missing reference not flagged: %v", res.Breakdown.Missing)
	}
}

func TestCalculateNestedComponents(t *testing.T) {
	clasp := &entity.Product{SKU: "CL1", WeightG: 1, IsComponent: true}
	p := &entity.Product{
		SKU:     "BR55",
		WeightG: 4,
		Recipe:  []entity.RecipeItem{componentItem("CL1", 2)},
	}
	products := map[string]*entity.Product{"CL1": clasp, "BR55": p}

	claspCost, err := CalculateProductCost(clasp, testRates(), nil, products)
	if err != nil {
		t.Fatalf("clasp cost: %v", err)
	}
	res, err := CalculateProductCost(p, testRates(), nil, products)
	if err != nil {
		t.Fatalf("bracelet cost: %v", err)
	}
	closeTo(t, res.Breakdown.Components, claspCost.Total*2, "components subtotal")
}

func TestCalculateCyclicRecipe(t *testing.T) {
	a := &entity.Product{SKU: "A1", WeightG: 1, Recipe: []entity.RecipeItem{componentItem("B1", 1)}}
	b := &entity.Product{SKU: "B1", WeightG: 1, Recipe: []entity.RecipeItem{componentItem("A1", 1)}}
	products := map[string]*entity.Product{"A1": a, "B1": b}

	_, err := CalculateProductCost(a, testRates(), nil, products)
	var cyc *CyclicRecipeError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CyclicRecipeError, got %v", err)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	p := &entity.Product{SKU: "RN100", WeightG: 5, Recipe: []entity.RecipeItem{rawItem("m1", 3)}}
	materials := map[string]*entity.Material{"m1": {ID: "m1", CostPerUnit: 0.7}}

	r1, err := CalculateProductCost(p, testRates(), materials, nil)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	r2, err := CalculateProductCost(p, testRates(), materials, nil)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if r1.Total != r2.Total {
		t.Fatalf("recomputation not idempotent: %v vs %v", r1.Total, r2.Total)
	}
}

func TestBreakdownDetails(t *testing.T) {
	p := &entity.Product{
		SKU:     "RN100",
		WeightG: 5,
		Labor:   entity.LaborCost{SetterCost: 1.10, SubcontractCost: 0.25},
	}
	res, err := CalculateProductCost(p, testRates(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"casting", "technician", "setter", "plating_x", "plating_d", "subcontract"} {
		if _, ok := res.Breakdown.Details[key]; !ok {
			t.Fatalf("breakdown details missing %q: %v", key, res.Breakdown.Details)
		}
	}
	closeTo(t, res.Breakdown.Details["setter"], 1.10, "setter detail")
	closeTo(t, res.Breakdown.Details["subcontract"], 0.25, "subcontract detail")
}

func TestIntrinsicValueExcludesLabor(t *testing.T) {
	materials := map[string]*entity.Material{
		"stone-onyx": {ID: "stone-onyx", Type: entity.MaterialStone, CostPerUnit: 1.50},
		"clasp-wire": {ID: "clasp-wire", Type: entity.MaterialOther, CostPerUnit: 9.99},
	}
	p := &entity.Product{
		SKU:     "RN100",
		WeightG: 5,
		Recipe: []entity.RecipeItem{
			rawItem("stone-onyx", 2),
			rawItem("clasp-wire", 1),
		},
	}
	melt, err := IntrinsicValue(p, testRates(), materials, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Metal + stones only: non-stone materials and all labor excluded.
	closeTo(t, melt, 5*0.80+2*1.50, "intrinsic value")
}
