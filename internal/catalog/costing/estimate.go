package costing

import (
	"math"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/sku"
)

// ReconcileTolerance is the absolute currency tolerance under which a
// recomputed variant price counts as unchanged. Deployments may override
// it through configuration; 0.005 is half a cent.
const ReconcileTolerance = 0.005

// EstimateVariantCost prices one variant of a product: the suffix is
// decoded to its stone code and every raw material that defines a price
// for that stone is substituted. Metal, labor and component terms are
// identical to the master computation.
func EstimateVariantCost(p *entity.Product, suffix string, rates Rates, materials map[string]*entity.Material, products map[string]*entity.Product) (*CostResult, error) {
	comps := sku.GetVariantComponents(suffix, p.Gender)
	return resolve(p, comps.Stone, rates, materials, products, map[string]bool{})
}

// VariantUpdate is one variant whose recomputed price moved beyond
// tolerance and must be persisted.
type VariantUpdate struct {
	VariantID string
	Suffix    string
	NewPrice  float64
}

// ReconcileVariants recomputes every variant of a product and returns
// only those whose estimate differs from the cached active price by more
// than the tolerance. Untouched variants are left byte-identical so no
// spurious change notifications go downstream. The computation is
// idempotent: unchanged inputs produce an empty update list.
func ReconcileVariants(p *entity.Product, rates Rates, materials map[string]*entity.Material, products map[string]*entity.Product, tolerance float64) ([]VariantUpdate, error) {
	if tolerance <= 0 {
		tolerance = ReconcileTolerance
	}
	var updates []VariantUpdate
	for i := range p.Variants {
		v := &p.Variants[i]
		res, err := EstimateVariantCost(p, v.Suffix, rates, materials, products)
		if err != nil {
			return nil, err
		}
		if math.Abs(res.Total-v.ActivePrice) > tolerance {
			updates = append(updates, VariantUpdate{VariantID: v.ID, Suffix: v.Suffix, NewPrice: res.Total})
		}
	}
	return updates, nil
}
