package service

import (
	"context"
	"fmt"

	"github.com/nosvasedis/ilios/internal/catalog/costing"
	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/repository"
	"github.com/nosvasedis/ilios/internal/catalog/sse"
	"github.com/nosvasedis/ilios/internal/config"
	"go.uber.org/zap"
)

// Services is the catalog service collection.
type Services struct {
	Product   *ProductService
	Material  *MaterialService
	Settings  *SettingsService
	Pricing   *PricingService
	PriceList *PriceListService
}

// CostingOptions is the engine configuration shared by all services.
type CostingOptions struct {
	TechnicianTiers    []costing.TechnicianTier
	Forensics          costing.ForensicsConfig
	ReconcileTolerance float64
	DefaultMargin      float64
}

// OptionsFromConfig maps the config section onto engine options.
func OptionsFromConfig(cfg config.CostingConfig) CostingOptions {
	tiers := make([]costing.TechnicianTier, 0, len(cfg.TechnicianTiers))
	for _, t := range cfg.TechnicianTiers {
		tiers = append(tiers, costing.TechnicianTier{UpToGrams: t.UpToGrams, Cost: t.Cost})
	}
	if len(tiers) == 0 {
		tiers = costing.DefaultTechnicianTiers()
	}
	return CostingOptions{
		TechnicianTiers: tiers,
		Forensics: costing.ForensicsConfig{
			Thresholds: costing.VerdictThresholds{
				ExcellentMax: cfg.VerdictExcellentMax,
				FairMax:      cfg.VerdictFairMax,
				ExpensiveMax: cfg.VerdictExpensiveMax,
			},
			MarkupToleranceGram: cfg.MarkupToleranceGram,
			LaborSimilarityBand: cfg.LaborSimilarityBand,
		},
		ReconcileTolerance: cfg.ReconcileTolerance,
		DefaultMargin:      cfg.DefaultMargin,
	}
}

// NewServices wires the catalog services.
func NewServices(repos *repository.Repositories, opts CostingOptions, logger *zap.Logger) *Services {
	base := &baseService{repos: repos, opts: opts, logger: logger}
	return &Services{
		Product:   &ProductService{base},
		Material:  &MaterialService{base},
		Settings:  &SettingsService{base},
		Pricing:   &PricingService{base},
		PriceList: &PriceListService{base},
	}
}

// baseService carries the shared plumbing: repositories, engine options
// and snapshot assembly.
type baseService struct {
	repos  *repository.Repositories
	opts   CostingOptions
	logger *zap.Logger
}

// Snapshot is the immutable input of one engine run: rates plus keyed
// registries. The engine never touches the database.
type Snapshot struct {
	Rates     costing.Rates
	Materials map[string]*entity.Material
	Products  map[string]*entity.Product
	List      []entity.Product
}

// loadSnapshot assembles the full in-memory registry view.
func (s *baseService) loadSnapshot(ctx context.Context) (*Snapshot, error) {
	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	materials, err := s.repos.Material.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	matIndex := make(map[string]*entity.Material, len(materials))
	for i := range materials {
		matIndex[materials[i].ID] = &materials[i]
	}

	products, err := s.repos.Product.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	prodIndex := make(map[string]*entity.Product, len(products))
	for i := range products {
		prodIndex[products[i].SKU] = &products[i]
	}

	return &Snapshot{
		Rates:     costing.RatesFromSettings(settings, s.opts.TechnicianTiers),
		Materials: matIndex,
		Products:  prodIndex,
		List:      products,
	}, nil
}

// reconcileProduct recomputes every variant of one product and persists
// only the prices that moved beyond tolerance, publishing an SSE event
// per change.
func (s *baseService) reconcileProduct(ctx context.Context, snap *Snapshot, p *entity.Product) (int, error) {
	updates, err := costing.ReconcileVariants(p, snap.Rates, snap.Materials, snap.Products, s.opts.ReconcileTolerance)
	if err != nil {
		return 0, err
	}
	for _, u := range updates {
		if err := s.repos.Product.UpdateVariantPrice(ctx, u.VariantID, u.NewPrice); err != nil {
			return 0, fmt.Errorf("persist variant price: %w", err)
		}
		sse.PublishPriceUpdate(p.SKU, u.Suffix, u.NewPrice)
	}
	return len(updates), nil
}

// BatchResult reports a registry-wide recomputation sweep. Broken
// products (cycles, load failures) are skipped and counted, never fatal
// for the batch.
type BatchResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

// reconcileAll sweeps the whole registry.
func (s *baseService) reconcileAll(ctx context.Context) (*BatchResult, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	res := &BatchResult{}
	for i := range snap.List {
		p := &snap.List[i]
		res.Processed++
		updated, err := s.reconcileProduct(ctx, snap, p)
		if err != nil {
			res.Skipped++
			s.logger.Warn("skipping product in reconciliation sweep",
				zap.String("sku", p.SKU),
				zap.Error(err),
			)
			continue
		}
		res.Updated += updated
	}
	return res, nil
}
