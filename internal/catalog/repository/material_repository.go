package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"gorm.io/gorm"
)

// MaterialRepository persists raw materials.
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// FindByID looks one material up.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// ListAll loads the material registry for snapshot assembly.
func (r *MaterialRepository) ListAll(ctx context.Context) ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("id").
		Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) Create(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *MaterialRepository) Update(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Delete soft-deletes a material.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Material{}).
		Where("id = ?", id).
		Update("deleted_at", time.Now()).Error
}
