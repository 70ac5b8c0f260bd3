package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"gorm.io/gorm"
)

// ProductRepository persists products with their recipe and variants.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindBySKU loads one product with recipe and variants.
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Variants").
		Where("sku = ? AND deleted_at IS NULL", sku).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListAll loads the full registry with recipes and variants. The cost
// engine resolves against this in-memory snapshot.
func (r *ProductRepository) ListAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Variants").
		Where("deleted_at IS NULL").
		Order("sku").
		Find(&products).Error
	return products, err
}

// ListSellable excludes component-only parts (price lists, order entry).
func (r *ProductRepository) ListSellable(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Variants").
		Where("deleted_at IS NULL AND is_component = false").
		Order("sku").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft-deletes a product.
func (r *ProductRepository) Delete(ctx context.Context, sku string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Where("sku = ?", sku).
		Update("deleted_at", time.Now()).Error
}

// ReplaceRecipe swaps the full recipe of a product in one transaction.
func (r *ProductRepository) ReplaceRecipe(ctx context.Context, sku string, items []entity.RecipeItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_sku = ?", sku).Delete(&entity.RecipeItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// CreateVariant adds one variant row.
func (r *ProductRepository) CreateVariant(ctx context.Context, v *entity.ProductVariant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// DeleteVariant removes one variant row.
func (r *ProductRepository) DeleteVariant(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.ProductVariant{}, "id = ?", id).Error
}

// UpdateVariantPrice writes a reconciled active price.
func (r *ProductRepository) UpdateVariantPrice(ctx context.Context, id string, price float64) error {
	return r.db.WithContext(ctx).
		Model(&entity.ProductVariant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active_price": price, "updated_at": time.Now()}).Error
}
