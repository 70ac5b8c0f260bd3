package costing

import (
	"fmt"
	"strings"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
)

// CyclicRecipeError is returned when recipe resolution meets a SKU that
// is already on the current resolution chain. It is fatal for the
// product being resolved; batch callers catch it and skip the product.
type CyclicRecipeError struct {
	Chain []string
}

func (e *CyclicRecipeError) Error() string {
	return fmt.Sprintf("cyclic recipe reference: %s", strings.Join(e.Chain, " -> "))
}

func newCyclicErr(visited map[string]bool, repeat string) *CyclicRecipeError {
	chain := make([]string, 0, len(visited)+1)
	for sku := range visited {
		chain = append(chain, sku)
	}
	chain = append(chain, repeat)
	return &CyclicRecipeError{Chain: chain}
}

// CostBreakdown separates a product's cost for audit display.
type CostBreakdown struct {
	Silver     float64            `json:"silver"`
	Materials  float64            `json:"materials"`
	Components float64            `json:"components"`
	Labor      LaborBreakdown     `json:"labor"`
	Details    map[string]float64 `json:"details"`
	// Missing lists unresolvable material/component references. They
	// contribute zero and are flagged for operator review, never fatal.
	Missing []string `json:"missing,omitempty"`
}

// CostResult is the output of a full product resolution.
type CostResult struct {
	Total     float64       `json:"total"`
	Breakdown CostBreakdown `json:"breakdown"`
}

// CalculateProductCost recursively totals a product: metal by weight,
// raw materials by quantity, nested components by their own active cost,
// plus derived labor. A visited set per call guards against recipe
// cycles.
func CalculateProductCost(p *entity.Product, rates Rates, materials map[string]*entity.Material, products map[string]*entity.Product) (*CostResult, error) {
	return resolve(p, "", rates, materials, products, map[string]bool{})
}

func resolve(p *entity.Product, stoneCode string, rates Rates, materials map[string]*entity.Material, products map[string]*entity.Product, visited map[string]bool) (*CostResult, error) {
	if visited[p.SKU] {
		return nil, newCyclicErr(visited, p.SKU)
	}
	visited[p.SKU] = true
	defer delete(visited, p.SKU)

	bd := CostBreakdown{
		Silver:  (p.WeightG + p.SecondaryWeightG) * rates.SilverPriceGram,
		Details: make(map[string]float64),
	}

	for _, item := range p.Recipe {
		switch item.Type {
		case entity.RecipeItemRaw:
			if item.MaterialID == nil {
				continue
			}
			mat, ok := materials[*item.MaterialID]
			if !ok {
				bd.Missing = append(bd.Missing, "material:"+*item.MaterialID)
				continue
			}
			bd.Materials += materialUnitCost(mat, stoneCode) * item.Quantity
		case entity.RecipeItemComponent:
			if item.ComponentSKU == nil {
				continue
			}
			comp, ok := products[*item.ComponentSKU]
			if !ok {
				bd.Missing = append(bd.Missing, "component:"+*item.ComponentSKU)
				continue
			}
			// Components are priced at their master cost; stone
			// substitution applies to the variant's own raw items only.
			sub, err := resolve(comp, "", rates, materials, products, visited)
			if err != nil {
				return nil, err
			}
			bd.Components += sub.Total * item.Quantity
			bd.Missing = append(bd.Missing, sub.Breakdown.Missing...)
		}
	}

	labor, err := DeriveLabor(p, rates, products)
	if err != nil {
		return nil, err
	}
	bd.Labor = labor
	bd.Details["casting"] = labor.Casting
	bd.Details["technician"] = labor.Technician
	bd.Details["setter"] = labor.Setter
	bd.Details["plating_x"] = labor.PlatingX
	bd.Details["plating_d"] = labor.PlatingD
	bd.Details["subcontract"] = labor.Subcontract

	return &CostResult{
		Total:     bd.Silver + bd.Materials + bd.Components + labor.Total(),
		Breakdown: bd,
	}, nil
}

// materialUnitCost applies a per-stone price override when the material
// defines one for this code, otherwise the registry unit cost.
func materialUnitCost(m *entity.Material, stoneCode string) float64 {
	if stoneCode != "" {
		if price, ok := m.VariantPrices[stoneCode]; ok {
			return price
		}
	}
	return m.CostPerUnit
}

// IntrinsicValue is the melt value of a product: metal weight at market
// rate plus raw stone cost, excluding all labor. Components contribute
// their own intrinsic value scaled by quantity.
func IntrinsicValue(p *entity.Product, rates Rates, materials map[string]*entity.Material, products map[string]*entity.Product) (float64, error) {
	return intrinsic(p, rates, materials, products, map[string]bool{})
}

func intrinsic(p *entity.Product, rates Rates, materials map[string]*entity.Material, products map[string]*entity.Product, visited map[string]bool) (float64, error) {
	if visited[p.SKU] {
		return 0, newCyclicErr(visited, p.SKU)
	}
	visited[p.SKU] = true
	defer delete(visited, p.SKU)

	total := (p.WeightG + p.SecondaryWeightG) * rates.SilverPriceGram
	for _, item := range p.Recipe {
		switch item.Type {
		case entity.RecipeItemRaw:
			if item.MaterialID == nil {
				continue
			}
			if mat, ok := materials[*item.MaterialID]; ok && mat.Type == entity.MaterialStone {
				total += mat.CostPerUnit * item.Quantity
			}
		case entity.RecipeItemComponent:
			if item.ComponentSKU == nil {
				continue
			}
			if comp, ok := products[*item.ComponentSKU]; ok {
				sub, err := intrinsic(comp, rates, materials, products, visited)
				if err != nil {
					return 0, err
				}
				total += sub * item.Quantity
			}
		}
	}
	return total, nil
}
