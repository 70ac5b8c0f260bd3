package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nosvasedis/ilios/internal/catalog/costing"
	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/sku"
)

// PricingService groups the read-only pricing tools: scanned-code
// resolution, suffix analysis, supplier forensics and margin repricing.
// Nothing here writes to the registry.
type PricingService struct {
	*baseService
}

// Resolve matches a scanned or typed code against the registry.
func (s *PricingService) Resolve(ctx context.Context, code string) (*sku.Match, error) {
	products, err := s.repos.Product.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	m := sku.FindProductByScannedCode(code, products)
	return &m, nil
}

// Analyze decodes a full catalog code against the known masters without
// requiring the product to exist.
func (s *PricingService) Analyze(ctx context.Context, code, gender string) (*sku.Analysis, error) {
	products, err := s.repos.Product.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	masters := make([]string, 0, len(products))
	for i := range products {
		masters = append(masters, products[i].SKU)
	}
	if gender == "" {
		gender = entity.GenderWomen
	}
	a := sku.AnalyzeSKU(code, gender, masters)
	return &a, nil
}

// EstimateVariant prices an arbitrary suffix of a product, whether or
// not a variant row exists for it.
func (s *PricingService) EstimateVariant(ctx context.Context, skuCode, suffix string) (*costing.CostResult, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.Products[strings.ToUpper(strings.TrimSpace(skuCode))]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", skuCode)
	}
	return costing.EstimateVariantCost(p, suffix, snap.Rates, snap.Materials, snap.Products)
}

// AnalyzeSupplier runs the price forensics pass for one product against
// a supplier quote. The quote defaults to the stored supplier cost when
// none is given.
func (s *PricingService) AnalyzeSupplier(ctx context.Context, skuCode string, input *SupplierQuoteInput) (*costing.SupplierAnalysis, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.Products[strings.ToUpper(strings.TrimSpace(skuCode))]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", skuCode)
	}

	quote := costing.SupplierQuote{
		LaborReported: input.LaborReported,
		StoneReported: input.StoneReported,
	}
	switch {
	case input.Cost != nil:
		quote.Cost = *input.Cost
	case p.SupplierCost != nil:
		quote.Cost = *p.SupplierCost
	default:
		return nil, fmt.Errorf("no supplier cost on record for %s", p.SKU)
	}

	return costing.AnalyzeSupplierPrice(p, quote, snap.Rates, s.opts.Forensics, snap.Materials, snap.Products)
}

// Reprice suggests a retail price from the resolved cost and a margin
// fraction, falling back to the configured default margin.
func (s *PricingService) Reprice(ctx context.Context, skuCode string, margin *float64) (*RepriceResult, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.Products[strings.ToUpper(strings.TrimSpace(skuCode))]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", skuCode)
	}

	res, err := costing.CalculateProductCost(p, snap.Rates, snap.Materials, snap.Products)
	if err != nil {
		return nil, err
	}

	m := s.opts.DefaultMargin
	if margin != nil {
		m = *margin
	}
	price := costing.PriceFromMargin(res.Total, m)
	return &RepriceResult{
		SKU:            p.SKU,
		Cost:           res.Total,
		Margin:         m,
		SuggestedPrice: price,
		Display:        costing.FormatPrice(price),
	}, nil
}

// RepriceResult is the margin-based price suggestion.
type RepriceResult struct {
	SKU            string  `json:"sku"`
	Cost           float64 `json:"cost"`
	Margin         float64 `json:"margin"`
	SuggestedPrice float64 `json:"suggested_price"`
	Display        string  `json:"display"`
}

// SupplierQuoteInput carries an ad-hoc supplier quote; nil Cost falls
// back to the product's stored supplier cost.
type SupplierQuoteInput struct {
	Cost          *float64 `json:"cost"`
	LaborReported *float64 `json:"labor_reported"`
	StoneReported *float64 `json:"stone_reported"`
}
