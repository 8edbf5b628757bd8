package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FactoryState is the single row describing the deployed factory: its
// identity, creation stamp, and the immutable bounds applied to every
// createChallenge call. Written once at first boot from config.
type FactoryState struct {
	ID      uint32 `gorm:"primaryKey"`
	Address string `gorm:"type:varchar(42);not null"`
	Owner   string `gorm:"type:varchar(42);not null"`

	StartBlock uint64    `gorm:"not null"`
	StartTime  time.Time `gorm:"type:timestamptz;not null"`

	MinEntryFee          decimal.Decimal `gorm:"type:numeric(38,0);not null"`
	MinChallengeDuration int64           `gorm:"not null"`
	MaxChallengeDuration int64           `gorm:"not null"`
	MinLockDuration      int64           `gorm:"not null"`
	MaxLockDuration      int64           `gorm:"not null"`
	SettlementDuration   int64           `gorm:"not null"`

	SettlementFeePercent int64           `gorm:"not null"`
	SettlementFeeMax     decimal.Decimal `gorm:"type:numeric(38,0);not null"`

	// Zero-value blueprint instance, kept for parity with the clone pattern
	// the original factory used. All of its fields stay at defaults.
	ChallengeImplementation string `gorm:"type:varchar(42);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (FactoryState) TableName() string {
	return "factory_state"
}
