package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Material units and types
const (
	UnitGram  = "gram"
	UnitPiece = "piece"

	MaterialMetal = "metal"
	MaterialStone = "stone"
	MaterialOther = "other"
)

// VariantPrices maps a stone code to the unit cost that replaces
// CostPerUnit when estimating that gemstone variant. Stored as jsonb.
type VariantPrices map[string]float64

func (p VariantPrices) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *VariantPrices) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("variant_prices: unsupported scan type")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, p)
}

// Material is a raw registry entry: stones, findings, chains, enamel.
// Silver itself is not a Material; metal cost comes from weight and the
// market rate in GlobalSettings.
type Material struct {
	ID            string        `json:"id" gorm:"primaryKey;size:32"`
	Name          string        `json:"name" gorm:"size:128;not null"`
	Unit          string        `json:"unit" gorm:"size:8;not null;default:piece"`
	Type          string        `json:"type" gorm:"size:8;not null;default:other"`
	CostPerUnit   float64       `json:"cost_per_unit" gorm:"type:numeric(12,4);not null;default:0"`
	VariantPrices VariantPrices `json:"variant_prices,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DeletedAt     *time.Time    `json:"deleted_at,omitempty" gorm:"index"`
}

func (Material) TableName() string {
	return "materials"
}
