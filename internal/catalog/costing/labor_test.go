package costing

import (
	"testing"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/sku"
)

func TestTechnicianCostTiers(t *testing.T) {
	tiers := []TechnicianTier{
		{UpToGrams: 2, Cost: 0.30},
		{UpToGrams: 5, Cost: 0.50},
		{UpToGrams: 0, Cost: 2.20},
	}
	tests := []struct {
		weight float64
		want   float64
	}{
		{1, 0.30},
		{2, 0.30},
		{2.1, 0.50},
		{5, 0.50},
		{50, 2.20},
	}
	for _, tt := range tests {
		if got := TechnicianCost(tt.weight, tiers); got != tt.want {
			t.Fatalf("TechnicianCost(%v) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

func TestDeriveLaborAutoCasting(t *testing.T) {
	p := &entity.Product{SKU: "RN100", WeightG: 5, SecondaryWeightG: 1}
	lb, err := DeriveLabor(p, testRates(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeTo(t, lb.Casting, 6*0.15, "auto casting")
}

func TestDeriveLaborHonorsPins(t *testing.T) {
	p := &entity.Product{
		SKU:     "RN100",
		WeightG: 5,
		Labor: entity.LaborCost{
			CastingPin:    fp(9.99),
			TechnicianPin: fp(3.33),
		},
	}
	lb, err := DeriveLabor(p, testRates(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeTo(t, lb.Casting, 9.99, "pinned casting")
	closeTo(t, lb.Technician, 3.33, "pinned technician")

	// Changing an unrelated dependency must not disturb the pins.
	p.WeightG = 50
	lb, err = DeriveLabor(p, testRates(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeTo(t, lb.Casting, 9.99, "pinned casting after weight change")
	closeTo(t, lb.Technician, 3.33, "pinned technician after weight change")
}

func TestDeriveLaborPlatingRollup(t *testing.T) {
	// Plating weight is the recursive rollup: own weight plus each
	// component's, scaled by recipe quantity.
	capPart := &entity.Product{SKU: "CAP1", WeightG: 2, IsComponent: true}
	p := &entity.Product{
		SKU:         "RN100",
		WeightG:     5,
		PlatingType: sku.FinishGold,
		Recipe:      []entity.RecipeItem{componentItem("CAP1", 2)},
	}
	products := map[string]*entity.Product{"CAP1": capPart, "RN100": p}

	lb, err := DeriveLabor(p, testRates(), products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeTo(t, lb.PlatingX, (5+2*2)*0.10, "plating X pool")
	closeTo(t, lb.PlatingD, 0, "plating D pool")
}

func TestDeriveLaborTwoToneSplit(t *testing.T) {
	p := &entity.Product{
		SKU:              "RN200",
		WeightG:          6,
		SecondaryWeightG: 2,
		PlatingType:      sku.FinishTwoTone,
	}
	lb, err := DeriveLabor(p, testRates(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeTo(t, lb.PlatingX, 6*0.10, "plating X pool")
	closeTo(t, lb.PlatingD, 2*0.10, "plating D pool")
}

func TestDeriveLaborNoPlatingForLustre(t *testing.T) {
	p := &entity.Product{SKU: "RN100", WeightG: 5}
	lb, err := DeriveLabor(p, testRates(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lb.PlatingX != 0 || lb.PlatingD != 0 {
		t.Fatalf("lustre pieces must not accrue plating cost: %+v", lb)
	}
}
