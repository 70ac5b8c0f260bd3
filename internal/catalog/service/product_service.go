package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nosvasedis/ilios/internal/catalog/costing"
	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/sku"
	"go.uber.org/zap"
)

// ProductService owns registry edits. Every cost-relevant change
// (weight, recipe, labor pins, plating type) recomputes the product and
// reconciles its variants.
type ProductService struct {
	*baseService
}

func (s *ProductService) List(ctx context.Context) ([]entity.Product, error) {
	return s.repos.Product.ListAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, skuCode string) (*entity.Product, error) {
	return s.repos.Product.FindBySKU(ctx, strings.ToUpper(strings.TrimSpace(skuCode)))
}

func (s *ProductService) Create(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	p := &entity.Product{
		SKU:              strings.ToUpper(strings.TrimSpace(input.SKU)),
		Name:             input.Name,
		WeightG:          input.WeightG,
		SecondaryWeightG: input.SecondaryWeightG,
		Gender:           input.Gender,
		PlatingType:      strings.ToUpper(input.PlatingType),
		IsComponent:      input.IsComponent,
		SupplierCost:     input.SupplierCost,
		SupplierSKU:      input.SupplierSKU,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if p.Gender == "" {
		p.Gender = entity.GenderWomen
	}
	if err := s.repos.Product.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, skuCode string, input *UpdateProductInput) (*entity.Product, error) {
	p, err := s.Get(ctx, skuCode)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	costRelevant := false
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.WeightG != nil {
		p.WeightG = *input.WeightG
		costRelevant = true
	}
	if input.SecondaryWeightG != nil {
		p.SecondaryWeightG = *input.SecondaryWeightG
		costRelevant = true
	}
	if input.Gender != nil {
		p.Gender = *input.Gender
		costRelevant = true
	}
	if input.PlatingType != nil {
		p.PlatingType = strings.ToUpper(*input.PlatingType)
		costRelevant = true
	}
	if input.SellingPrice != nil {
		p.SellingPrice = *input.SellingPrice
	}
	if input.IsComponent != nil {
		p.IsComponent = *input.IsComponent
	}
	if input.SupplierCost != nil {
		p.SupplierCost = input.SupplierCost
	}
	if input.SupplierSKU != nil {
		p.SupplierSKU = *input.SupplierSKU
	}
	if input.Labor != nil {
		p.Labor = *input.Labor
		costRelevant = true
	}
	p.UpdatedAt = time.Now()

	if err := s.repos.Product.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if costRelevant {
		if _, err := s.Reconcile(ctx, p.SKU); err != nil {
			s.logger.Warn("post-edit reconciliation failed",
				zap.String("sku", p.SKU), zap.Error(err))
		}
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, skuCode string) error {
	return s.repos.Product.Delete(ctx, strings.ToUpper(strings.TrimSpace(skuCode)))
}

// SaveRecipe replaces the product's bill of materials. Items are
// validated and the resolver dry-runs the new graph so a cycle is
// rejected before anything persists.
func (s *ProductService) SaveRecipe(ctx context.Context, skuCode string, inputs []RecipeItemInput) (*entity.Product, error) {
	p, err := s.Get(ctx, skuCode)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	items := make([]entity.RecipeItem, 0, len(inputs))
	for _, in := range inputs {
		item := entity.RecipeItem{
			ID:         uuid.New().String()[:32],
			ProductSKU: p.SKU,
			Type:       in.Type,
			Quantity:   in.Quantity,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if in.MaterialID != "" {
			id := in.MaterialID
			item.MaterialID = &id
		}
		if in.ComponentSKU != "" {
			cs := strings.ToUpper(strings.TrimSpace(in.ComponentSKU))
			item.ComponentSKU = &cs
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("recipe item %d: %w", len(items)+1, err)
		}
		items = append(items, item)
	}

	// Dry-run against the current snapshot with the new recipe in place.
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	trial := *p
	trial.Recipe = items
	snap.Products[p.SKU] = &trial
	if _, err := costing.CalculateProductCost(&trial, snap.Rates, snap.Materials, snap.Products); err != nil {
		return nil, fmt.Errorf("recipe rejected: %w", err)
	}

	if err := s.repos.Product.ReplaceRecipe(ctx, p.SKU, items); err != nil {
		return nil, fmt.Errorf("save recipe: %w", err)
	}

	if _, err := s.Reconcile(ctx, p.SKU); err != nil {
		s.logger.Warn("post-recipe reconciliation failed", zap.String("sku", p.SKU), zap.Error(err))
	}
	return s.Get(ctx, p.SKU)
}

// Cost resolves the master cost of one product.
func (s *ProductService) Cost(ctx context.Context, skuCode string) (*costing.CostResult, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.Products[strings.ToUpper(strings.TrimSpace(skuCode))]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", skuCode)
	}
	return costing.CalculateProductCost(p, snap.Rates, snap.Materials, snap.Products)
}

// AddVariant registers a new variant. Its description defaults to the
// decoded suffix and its active price is estimated immediately.
func (s *ProductService) AddVariant(ctx context.Context, skuCode string, input *VariantInput) (*entity.ProductVariant, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.Products[strings.ToUpper(strings.TrimSpace(skuCode))]
	if !ok {
		return nil, fmt.Errorf("product not found: %s", skuCode)
	}

	suffix := strings.ToUpper(strings.TrimSpace(input.Suffix))
	desc := input.Description
	if desc == "" {
		desc = sku.AnalyzeSuffix(suffix, p.Gender)
	}

	est, err := costing.EstimateVariantCost(p, suffix, snap.Rates, snap.Materials, snap.Products)
	if err != nil {
		return nil, fmt.Errorf("estimate variant: %w", err)
	}

	v := &entity.ProductVariant{
		ID:           uuid.New().String()[:32],
		ProductSKU:   p.SKU,
		Suffix:       suffix,
		Description:  desc,
		SellingPrice: input.SellingPrice,
		ActivePrice:  est.Total,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.repos.Product.CreateVariant(ctx, v); err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}
	return v, nil
}

func (s *ProductService) RemoveVariant(ctx context.Context, variantID string) error {
	return s.repos.Product.DeleteVariant(ctx, variantID)
}

// Reconcile recomputes all variant prices of one product and persists
// only those that moved beyond tolerance.
func (s *ProductService) Reconcile(ctx context.Context, skuCode string) (int, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return 0, err
	}
	p, ok := snap.Products[strings.ToUpper(strings.TrimSpace(skuCode))]
	if !ok {
		return 0, fmt.Errorf("product not found: %s", skuCode)
	}
	return s.reconcileProduct(ctx, snap, p)
}

// RecomputeAll sweeps the registry, skipping and counting broken
// products instead of failing the batch.
func (s *ProductService) RecomputeAll(ctx context.Context) (*BatchResult, error) {
	return s.reconcileAll(ctx)
}

// ========== Input DTOs ==========

type CreateProductInput struct {
	SKU              string   `json:"sku" binding:"required"`
	Name             string   `json:"name"`
	WeightG          float64  `json:"weight_g"`
	SecondaryWeightG float64  `json:"secondary_weight_g"`
	Gender           string   `json:"gender"`
	PlatingType      string   `json:"plating_type"`
	IsComponent      bool     `json:"is_component"`
	SupplierCost     *float64 `json:"supplier_cost"`
	SupplierSKU      string   `json:"supplier_sku"`
}

type UpdateProductInput struct {
	Name             *string           `json:"name"`
	WeightG          *float64          `json:"weight_g"`
	SecondaryWeightG *float64          `json:"secondary_weight_g"`
	Gender           *string           `json:"gender"`
	PlatingType      *string           `json:"plating_type"`
	SellingPrice     *float64          `json:"selling_price"`
	IsComponent      *bool             `json:"is_component"`
	SupplierCost     *float64          `json:"supplier_cost"`
	SupplierSKU      *string           `json:"supplier_sku"`
	Labor            *entity.LaborCost `json:"labor"`
}

type RecipeItemInput struct {
	Type         string  `json:"type" binding:"required"`
	MaterialID   string  `json:"material_id"`
	ComponentSKU string  `json:"component_sku"`
	Quantity     float64 `json:"quantity" binding:"required"`
}

type VariantInput struct {
	Suffix       string   `json:"suffix"`
	Description  string   `json:"description"`
	SellingPrice *float64 `json:"selling_price"`
}
