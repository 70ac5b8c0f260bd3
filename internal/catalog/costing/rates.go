// Package costing implements the cost engine: labor derivation, the
// recursive recipe resolver, per-variant estimation, supplier price
// forensics and retail rounding. Every function is synchronous and pure
// over the snapshot maps it is handed; callers own snapshot assembly.
package costing

import "github.com/nosvasedis/ilios/internal/catalog/entity"

// TechnicianTier is one row of the weight-tiered technician cost table.
// Tiers are evaluated in order; the first tier whose UpToGrams covers the
// weight applies. A tier with UpToGrams <= 0 is open-ended.
type TechnicianTier struct {
	UpToGrams float64
	Cost      float64
}

// Rates is the snapshot of market and workshop rates a single
// computation runs against. Silver/casting/plating rates come from the
// persisted GlobalSettings row; the technician table from configuration.
type Rates struct {
	SilverPriceGram float64
	CastingRateGram float64
	PlatingRateGram float64
	TechnicianTiers []TechnicianTier
}

// RatesFromSettings merges the settings row with the configured
// technician table into one snapshot.
func RatesFromSettings(s *entity.GlobalSettings, tiers []TechnicianTier) Rates {
	return Rates{
		SilverPriceGram: s.SilverPriceGram,
		CastingRateGram: s.CastingRateGram,
		PlatingRateGram: s.PlatingRateGram,
		TechnicianTiers: tiers,
	}
}

// VerdictThresholds are the premium-percent cutoffs of the four-way
// supplier verdict. They must be ordered ascending.
type VerdictThresholds struct {
	ExcellentMax float64
	FairMax      float64
	ExpensiveMax float64
}

// ForensicsConfig carries the tunables of the supplier analysis.
type ForensicsConfig struct {
	Thresholds VerdictThresholds
	// MarkupToleranceGram: €/g the effective silver price may exceed the
	// market rate before the hidden-markup flag trips.
	MarkupToleranceGram float64
	// LaborSimilarityBand: relative band (e.g. 0.15 = ±15%) within which
	// supplier labor counts as "similar" to the theoretical labor.
	LaborSimilarityBand float64
}

// DefaultForensicsConfig documents the shipped cutoffs. Deployments tune
// them through configuration.
func DefaultForensicsConfig() ForensicsConfig {
	return ForensicsConfig{
		Thresholds:          VerdictThresholds{ExcellentMax: 5, FairMax: 15, ExpensiveMax: 30},
		MarkupToleranceGram: 0.05,
		LaborSimilarityBand: 0.15,
	}
}

// DefaultTechnicianTiers is the shipped weight tiering.
func DefaultTechnicianTiers() []TechnicianTier {
	return []TechnicianTier{
		{UpToGrams: 2, Cost: 0.30},
		{UpToGrams: 5, Cost: 0.50},
		{UpToGrams: 10, Cost: 0.90},
		{UpToGrams: 20, Cost: 1.50},
		{UpToGrams: 0, Cost: 2.20},
	}
}
