package costing

import "github.com/nosvasedis/ilios/internal/catalog/entity"

// Verdict is the four-way classification of a supplier quote.
type Verdict string

const (
	VerdictExcellent  Verdict = "excellent"
	VerdictFair       Verdict = "fair"
	VerdictExpensive  Verdict = "expensive"
	VerdictOverpriced Verdict = "overpriced"
)

// LaborEfficiency compares supplier labor against the in-house model.
type LaborEfficiency string

const (
	LaborCheaper       LaborEfficiency = "cheaper"
	LaborSimilar       LaborEfficiency = "similar"
	LaborMoreExpensive LaborEfficiency = "more_expensive"
)

// SupplierQuote is the supplier's side of the comparison. Labor and
// stone cost are the supplier-reported breakdown when available.
type SupplierQuote struct {
	Cost          float64  `json:"cost"`
	LaborReported *float64 `json:"labor_reported,omitempty"`
	StoneReported *float64 `json:"stone_reported,omitempty"`
}

// SupplierAnalysis is the pure output of the forensics pass. It is never
// persisted.
type SupplierAnalysis struct {
	TheoreticalMakeCost  float64         `json:"theoretical_make_cost"`
	IntrinsicValue       float64         `json:"intrinsic_value"`
	SupplierPremium      float64         `json:"supplier_premium"`
	PremiumPercent       float64         `json:"premium_percent"`
	Verdict              Verdict         `json:"verdict"`
	EffectiveSilverPrice float64         `json:"effective_silver_price"`
	HasHiddenMarkup      bool            `json:"has_hidden_markup"`
	LaborEfficiency      LaborEfficiency `json:"labor_efficiency"`
	Breakdown            CostBreakdown   `json:"breakdown"`
}

// ClassifyPremium maps a premium percentage onto the verdict scale.
// Thresholds are checked in ascending order, so a lower premium can
// never classify worse than a higher one.
func ClassifyPremium(premiumPercent float64, t VerdictThresholds) Verdict {
	switch {
	case premiumPercent <= t.ExcellentMax:
		return VerdictExcellent
	case premiumPercent <= t.FairMax:
		return VerdictFair
	case premiumPercent <= t.ExpensiveMax:
		return VerdictExpensive
	default:
		return VerdictOverpriced
	}
}

// AnalyzeSupplierPrice reverse-engineers a supplier quote against the
// theoretical in-house build: premium over make cost, the implied €/g
// the supplier charges for metal, a hidden-markup flag, and a labor
// efficiency comparison.
func AnalyzeSupplierPrice(p *entity.Product, quote SupplierQuote, rates Rates, cfg ForensicsConfig, materials map[string]*entity.Material, products map[string]*entity.Product) (*SupplierAnalysis, error) {
	theo, err := CalculateProductCost(p, rates, materials, products)
	if err != nil {
		return nil, err
	}
	melt, err := IntrinsicValue(p, rates, materials, products)
	if err != nil {
		return nil, err
	}

	a := &SupplierAnalysis{
		TheoreticalMakeCost: theo.Total,
		IntrinsicValue:      melt,
		SupplierPremium:     quote.Cost - theo.Total,
		Breakdown:           theo.Breakdown,
	}
	if theo.Total > 0 {
		a.PremiumPercent = a.SupplierPremium / theo.Total * 100
	}
	a.Verdict = ClassifyPremium(a.PremiumPercent, cfg.Thresholds)

	theoreticalLabor := theo.Breakdown.Labor.Total()

	// Back-solve the implied silver rate: strip labor and stone cost off
	// the quote, divide by metal weight. Supplier-reported figures win;
	// otherwise the implied labor (quote minus melt value) stands in.
	supplierLabor := quote.Cost - melt
	if quote.LaborReported != nil {
		supplierLabor = *quote.LaborReported
	}
	stoneCost := melt - (p.WeightG+p.SecondaryWeightG)*rates.SilverPriceGram
	if quote.StoneReported != nil {
		stoneCost = *quote.StoneReported
	}

	metalWeight := p.WeightG + p.SecondaryWeightG
	if metalWeight > 0 {
		a.EffectiveSilverPrice = (quote.Cost - supplierLabor - stoneCost) / metalWeight
		a.HasHiddenMarkup = a.EffectiveSilverPrice > rates.SilverPriceGram+cfg.MarkupToleranceGram
	}

	a.LaborEfficiency = classifyLabor(supplierLabor, theoreticalLabor, cfg.LaborSimilarityBand)
	return a, nil
}

func classifyLabor(supplier, theoretical, band float64) LaborEfficiency {
	if theoretical <= 0 {
		if supplier > 0 {
			return LaborMoreExpensive
		}
		return LaborSimilar
	}
	ratio := supplier / theoretical
	switch {
	case ratio < 1-band:
		return LaborCheaper
	case ratio > 1+band:
		return LaborMoreExpensive
	default:
		return LaborSimilar
	}
}
