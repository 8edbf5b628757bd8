package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSample is one persisted oracle reading, kept for the pricefeed API
// and pruned by retention.
type PriceSample struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	Price     decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	UpdatedAt time.Time       `gorm:"type:timestamptz;not null"`
	SampledAt time.Time       `gorm:"type:timestamptz;not null;index"`
}

func (PriceSample) TableName() string {
	return "price_samples"
}
