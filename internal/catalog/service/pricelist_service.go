package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/nosvasedis/ilios/internal/catalog/costing"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// PriceListService exports the sellable catalog as an xlsx price list:
// one row per variant (or one per master when it has none), with the
// retail price rounded to a canonical ending.
type PriceListService struct {
	*baseService
}

var priceListHeader = []string{"Code", "Description", "Weight (g)", "Cost", "Retail Price"}

// Export renders the price list workbook into a buffer ready to stream.
func (s *PriceListService) Export(ctx context.Context, margin *float64) (*bytes.Buffer, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repos.Product.ListSellable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sellable products: %w", err)
	}

	m := s.opts.DefaultMargin
	if margin != nil {
		m = *margin
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Price List"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range priceListHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i := range products {
		// Price through the snapshot index: the sellable listing carries
		// no recipes, and an empty recipe would drop material and
		// component cost from every row.
		p, ok := snap.Products[products[i].SKU]
		if !ok {
			continue
		}

		if len(p.Variants) == 0 {
			res, err := costing.CalculateProductCost(p, snap.Rates, snap.Materials, snap.Products)
			if err != nil {
				s.warnSkip(p.SKU, err)
				continue
			}
			s.writeRow(f, sheet, row, p.SKU, p.Name, p.WeightG+p.SecondaryWeightG, res.Total, retailFor(p.SellingPrice, res.Total, m))
			row++
			continue
		}

		for j := range p.Variants {
			v := &p.Variants[j]
			res, err := costing.EstimateVariantCost(p, v.Suffix, snap.Rates, snap.Materials, snap.Products)
			if err != nil {
				s.warnSkip(p.SKU+v.Suffix, err)
				continue
			}
			desc := p.Name
			if v.Description != "" {
				desc = fmt.Sprintf("%s %s", p.Name, v.Description)
			}
			var override float64
			if v.SellingPrice != nil {
				override = *v.SellingPrice
			}
			s.writeRow(f, sheet, row, p.SKU+v.Suffix, desc, p.WeightG+p.SecondaryWeightG, res.Total, retailFor(override, res.Total, m))
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render price list: %w", err)
	}
	return buf, nil
}

func (s *PriceListService) writeRow(f *excelize.File, sheet string, row int, code, desc string, weight, cost, retail float64) {
	values := []interface{}{code, desc, weight, cost, costing.FormatPrice(retail)}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func (s *PriceListService) warnSkip(code string, err error) {
	s.logger.Warn("skipping price-list row",
		zap.String("code", code),
		zap.Error(err),
	)
}

// retailFor picks the manual selling price when one is set, otherwise
// derives the retail price from cost and margin. Either way the result
// lands on a canonical retail ending.
func retailFor(manual, cost, margin float64) float64 {
	if manual > 0 {
		return costing.RoundPrice(manual)
	}
	return costing.PriceFromMargin(cost, margin)
}
