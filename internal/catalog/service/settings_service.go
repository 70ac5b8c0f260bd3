package service

import (
	"context"
	"fmt"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/sse"
	"go.uber.org/zap"
)

// SettingsService manages the global rates row. Saving it reprices the
// whole registry, so Update returns the sweep result alongside the row.
type SettingsService struct {
	*baseService
}

func (s *SettingsService) Get(ctx context.Context) (*entity.GlobalSettings, error) {
	return s.repos.Settings.Get(ctx)
}

// Update persists new rates and runs a registry-wide reconciliation
// sweep. Broken products are skipped, counted and logged; the rate
// change itself never fails because of them.
func (s *SettingsService) Update(ctx context.Context, input *SettingsInput) (*entity.GlobalSettings, *BatchResult, error) {
	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		settings = &entity.GlobalSettings{ID: entity.SettingsID}
	}
	settings.SilverPriceGram = input.SilverPriceGram
	settings.CastingRateGram = input.CastingRateGram
	settings.PlatingRateGram = input.PlatingRateGram

	if err := s.repos.Settings.Save(ctx, settings); err != nil {
		return nil, nil, fmt.Errorf("save settings: %w", err)
	}

	res, err := s.reconcileAll(ctx)
	if err != nil {
		s.logger.Warn("post-settings reconciliation failed", zap.Error(err))
		res = &BatchResult{}
	}
	sse.PublishSettingsUpdate(res.Updated, res.Skipped)
	return settings, res, nil
}

// SettingsInput carries the three workshop rates.
type SettingsInput struct {
	SilverPriceGram float64 `json:"silver_price_gram" binding:"required"`
	CastingRateGram float64 `json:"casting_rate_gram"`
	PlatingRateGram float64 `json:"plating_rate_gram"`
}
