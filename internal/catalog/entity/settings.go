package entity

import "time"

// GlobalSettings is the single-row table of market and workshop rates.
// Every cost computation reads a snapshot of it; editing it triggers a
// full variant reconciliation sweep.
type GlobalSettings struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	SilverPriceGram float64   `json:"silver_price_gram" gorm:"type:numeric(10,4);not null;default:0"`
	CastingRateGram float64   `json:"casting_rate_gram" gorm:"type:numeric(10,4);not null;default:0"`
	PlatingRateGram float64   `json:"plating_rate_gram" gorm:"type:numeric(10,4);not null;default:0"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (GlobalSettings) TableName() string {
	return "global_settings"
}

// SettingsID is the fixed primary key of the single settings row.
const SettingsID = "global"
