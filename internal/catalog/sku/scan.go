package sku

import (
	"strings"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
)

// MatchState tells the caller how confident the scan resolution is.
type MatchState string

const (
	// MatchExact: the code equals a master SKU that has no variants.
	MatchExact MatchState = "exact"
	// MatchVariant: master and a specific variant were both identified.
	MatchVariant MatchState = "variant"
	// MatchVariantRequired: the master was identified but it has variants
	// and none matches the scanned suffix. Callers must ask the operator
	// to pick one instead of silently adding the master.
	MatchVariantRequired MatchState = "variant_required"
	// MatchNone: no master matched the code.
	MatchNone MatchState = "none"
)

// Match is the outcome of resolving a scanned or typed code.
type Match struct {
	Product *entity.Product        `json:"product,omitempty"`
	Variant *entity.ProductVariant `json:"variant,omitempty"`
	Suffix  string                 `json:"suffix"`
	State   MatchState             `json:"state"`
}

// FindProductByScannedCode resolves a scanned code to a product and, when
// possible, a specific variant. Exact SKU matches win; otherwise the
// longest master prefix is taken and the remainder matched against that
// master's variant suffixes. Ties between candidate masters are broken by
// exact-match priority, then alphabetical order, then shortest suffix.
func FindProductByScannedCode(code string, products []entity.Product) Match {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return Match{State: MatchNone}
	}

	var best *entity.Product
	bestLen := -1
	bestExact := false
	for i := range products {
		m := strings.ToUpper(products[i].SKU)
		if !strings.HasPrefix(c, m) {
			continue
		}
		exact := m == c
		switch {
		case len(m) > bestLen:
		case len(m) == bestLen && exact && !bestExact:
		case len(m) == bestLen && exact == bestExact && best != nil && m < strings.ToUpper(best.SKU):
		default:
			continue
		}
		best = &products[i]
		bestLen = len(m)
		bestExact = exact
	}

	if best == nil {
		return Match{State: MatchNone, Suffix: c}
	}

	suffix := c[bestLen:]
	return resolveVariant(best, suffix)
}

func resolveVariant(p *entity.Product, suffix string) Match {
	if len(p.Variants) == 0 {
		if suffix == "" {
			return Match{Product: p, State: MatchExact}
		}
		// Master known, trailing characters but no variants defined.
		return Match{Product: p, Suffix: suffix, State: MatchExact}
	}

	for i := range p.Variants {
		if strings.ToUpper(p.Variants[i].Suffix) == suffix {
			return Match{Product: p, Variant: &p.Variants[i], Suffix: suffix, State: MatchVariant}
		}
	}

	// Lustre-only masters are unambiguous: a single variant with an empty
	// suffix is the only thing the scan could mean.
	if len(p.Variants) == 1 && p.Variants[0].Suffix == "" {
		return Match{Product: p, Variant: &p.Variants[0], Suffix: suffix, State: MatchVariant}
	}

	return Match{Product: p, Suffix: suffix, State: MatchVariantRequired}
}
