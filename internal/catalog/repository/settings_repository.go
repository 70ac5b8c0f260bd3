package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	settingsCacheKey = "catalog:settings"
	settingsCacheTTL = 5 * time.Minute
)

// SettingsRepository persists the single global rates row. Reads go
// through a redis cache-aside because every cost computation starts
// here; writes invalidate the cache.
type SettingsRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewSettingsRepository(db *gorm.DB, rdb *redis.Client) *SettingsRepository {
	return &SettingsRepository{db: db, rdb: rdb}
}

// Get returns the settings row, from cache when possible.
func (r *SettingsRepository) Get(ctx context.Context) (*entity.GlobalSettings, error) {
	if r.rdb != nil {
		if raw, err := r.rdb.Get(ctx, settingsCacheKey).Bytes(); err == nil {
			var cached entity.GlobalSettings
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	var settings entity.GlobalSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", entity.SettingsID).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if r.rdb != nil {
		if raw, err := json.Marshal(&settings); err == nil {
			r.rdb.Set(ctx, settingsCacheKey, raw, settingsCacheTTL)
		}
	}
	return &settings, nil
}

// Save upserts the settings row and drops the cache entry.
func (r *SettingsRepository) Save(ctx context.Context, settings *entity.GlobalSettings) error {
	settings.ID = entity.SettingsID
	settings.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return err
	}
	if r.rdb != nil {
		r.rdb.Del(ctx, settingsCacheKey)
	}
	return nil
}

// Seed inserts a settings row with the configured defaults when none
// exists yet.
func (r *SettingsRepository) Seed(ctx context.Context, defaults entity.GlobalSettings) error {
	_, err := r.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.Save(ctx, &defaults)
}
