package costing

import (
	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/sku"
)

// LaborBreakdown itemizes the five labor fields of one piece.
type LaborBreakdown struct {
	Casting     float64 `json:"casting"`
	Technician  float64 `json:"technician"`
	Setter      float64 `json:"setter"`
	PlatingX    float64 `json:"plating_x"`
	PlatingD    float64 `json:"plating_d"`
	Subcontract float64 `json:"subcontract"`
}

// Total sums all labor fields.
func (lb LaborBreakdown) Total() float64 {
	return lb.Casting + lb.Technician + lb.Setter + lb.PlatingX + lb.PlatingD + lb.Subcontract
}

// TechnicianCost looks the weight up in the tier table. The first tier
// covering the weight applies; an open-ended tier (UpToGrams <= 0)
// catches everything heavier.
func TechnicianCost(weightG float64, tiers []TechnicianTier) float64 {
	for _, t := range tiers {
		if t.UpToGrams <= 0 || weightG <= t.UpToGrams {
			return t.Cost
		}
	}
	return 0
}

// weightRollup is the recursive plating-weight total of a product:
// its own primary and secondary weight plus every nested component's,
// each scaled by recipe quantity. Same traversal shape as the cost
// resolver, same cycle guard.
type weightRollup struct {
	Primary   float64
	Secondary float64
}

func rollupWeights(p *entity.Product, products map[string]*entity.Product, visited map[string]bool) (weightRollup, error) {
	if visited[p.SKU] {
		return weightRollup{}, newCyclicErr(visited, p.SKU)
	}
	visited[p.SKU] = true
	defer delete(visited, p.SKU)

	w := weightRollup{Primary: p.WeightG, Secondary: p.SecondaryWeightG}
	for _, item := range p.Recipe {
		if item.Type != entity.RecipeItemComponent || item.ComponentSKU == nil {
			continue
		}
		comp, ok := products[*item.ComponentSKU]
		if !ok {
			continue
		}
		cw, err := rollupWeights(comp, products, visited)
		if err != nil {
			return weightRollup{}, err
		}
		w.Primary += cw.Primary * item.Quantity
		w.Secondary += cw.Secondary * item.Quantity
	}
	return w, nil
}

// DeriveLabor computes the effective labor fields for a product,
// honoring pins: a pinned field keeps its operator value untouched no
// matter what the weights or rates say.
func DeriveLabor(p *entity.Product, rates Rates, products map[string]*entity.Product) (LaborBreakdown, error) {
	lb := LaborBreakdown{
		Setter:      p.Labor.SetterCost,
		Subcontract: p.Labor.SubcontractCost,
	}

	if p.Labor.CastingPin != nil {
		lb.Casting = *p.Labor.CastingPin
	} else {
		lb.Casting = (p.WeightG + p.SecondaryWeightG) * rates.CastingRateGram
	}

	if p.Labor.TechnicianPin != nil {
		lb.Technician = *p.Labor.TechnicianPin
	} else {
		lb.Technician = TechnicianCost(p.WeightG, rates.TechnicianTiers)
	}

	needX := p.Labor.PlatingXPin == nil
	needD := p.Labor.PlatingDPin == nil
	if p.Labor.PlatingXPin != nil {
		lb.PlatingX = *p.Labor.PlatingXPin
	}
	if p.Labor.PlatingDPin != nil {
		lb.PlatingD = *p.Labor.PlatingDPin
	}

	if (needX || needD) && p.PlatingType != sku.FinishLustre {
		w, err := rollupWeights(p, products, map[string]bool{})
		if err != nil {
			return LaborBreakdown{}, err
		}
		// Two-tone pieces split plating across both pools by their weight
		// subtotals; every other finish runs entirely through the X pool.
		var poolX, poolD float64
		if p.PlatingType == sku.FinishTwoTone {
			poolX = w.Primary
			poolD = w.Secondary
		} else {
			poolX = w.Primary + w.Secondary
		}
		if needX {
			lb.PlatingX = poolX * rates.PlatingRateGram
		}
		if needD {
			lb.PlatingD = poolD * rates.PlatingRateGram
		}
	}

	return lb, nil
}
