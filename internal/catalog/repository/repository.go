package repository

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the data access collection for the catalog context.
type Repositories struct {
	Product  *ProductRepository
	Material *MaterialRepository
	Settings *SettingsRepository
}

// NewRepositories wires the repositories. rdb may be nil; the settings
// cache degrades to database reads.
func NewRepositories(db *gorm.DB, rdb *redis.Client) *Repositories {
	return &Repositories{
		Product:  NewProductRepository(db),
		Material: NewMaterialRepository(db),
		Settings: NewSettingsRepository(db, rdb),
	}
}
