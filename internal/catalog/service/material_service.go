package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"go.uber.org/zap"
)

// MaterialService owns the raw-material registry. A price edit ripples
// through every product that draws on the material, so updates trigger
// a reconciliation sweep.
type MaterialService struct {
	*baseService
}

func (s *MaterialService) List(ctx context.Context) ([]entity.Material, error) {
	return s.repos.Material.ListAll(ctx)
}

func (s *MaterialService) Get(ctx context.Context, id string) (*entity.Material, error) {
	return s.repos.Material.FindByID(ctx, id)
}

func (s *MaterialService) Create(ctx context.Context, input *MaterialInput) (*entity.Material, error) {
	m := &entity.Material{
		ID:            uuid.New().String()[:32],
		Name:          input.Name,
		Unit:          input.Unit,
		Type:          input.Type,
		CostPerUnit:   input.CostPerUnit,
		VariantPrices: input.VariantPrices,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if m.Unit == "" {
		m.Unit = entity.UnitPiece
	}
	if m.Type == "" {
		m.Type = entity.MaterialOther
	}
	if err := s.repos.Material.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	return m, nil
}

func (s *MaterialService) Update(ctx context.Context, id string, input *MaterialInput) (*entity.Material, error) {
	m, err := s.repos.Material.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("material not found: %w", err)
	}

	if input.Name != "" {
		m.Name = input.Name
	}
	if input.Unit != "" {
		m.Unit = input.Unit
	}
	if input.Type != "" {
		m.Type = input.Type
	}
	m.CostPerUnit = input.CostPerUnit
	if input.VariantPrices != nil {
		m.VariantPrices = input.VariantPrices
	}
	m.UpdatedAt = time.Now()

	if err := s.repos.Material.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}

	// Material prices feed every estimate that references them.
	if res, err := s.reconcileAll(ctx); err != nil {
		s.logger.Warn("post-material reconciliation failed", zap.Error(err))
	} else if res.Skipped > 0 {
		s.logger.Warn("reconciliation sweep skipped products",
			zap.Int("skipped", res.Skipped))
	}
	return m, nil
}

func (s *MaterialService) Delete(ctx context.Context, id string) error {
	return s.repos.Material.Delete(ctx, id)
}

// MaterialInput is the create/update DTO.
type MaterialInput struct {
	Name          string               `json:"name" binding:"required"`
	Unit          string               `json:"unit"`
	Type          string               `json:"type"`
	CostPerUnit   float64              `json:"cost_per_unit"`
	VariantPrices entity.VariantPrices `json:"variant_prices"`
}
