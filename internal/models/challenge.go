package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Challenge is one wager instance. Amounts are wei, predictions and prices
// are USD values quoted to 8 decimal places (the oracle's fixed-point scale).
//
// Status is never stored: it is derived from these fields and the current
// chain time on every read (see engine.DeriveStatus).
type Challenge struct {
	Address string `gorm:"primaryKey;type:varchar(42)"`
	Owner   string `gorm:"type:varchar(42);not null"`
	Creator string `gorm:"type:varchar(42);not null;index"`

	StartBlock uint64    `gorm:"not null"`
	StartTime  time.Time `gorm:"type:timestamptz;not null"`

	EntryFee          decimal.Decimal `gorm:"type:numeric(38,0);not null"`
	CreatorPrediction decimal.Decimal `gorm:"type:numeric(20,8);not null"`

	Challenger           *string          `gorm:"type:varchar(42);index"`
	ChallengerPrediction *decimal.Decimal `gorm:"type:numeric(20,8)"`

	LockTime            time.Time `gorm:"type:timestamptz;not null;index"`
	SettlementStartTime time.Time `gorm:"type:timestamptz;not null"`
	SettlementEndTime   time.Time `gorm:"type:timestamptz;not null"`

	// Per-instance copies of the factory's settler-incentive constants.
	SettlementFeePercent int64           `gorm:"not null"`
	SettlementFeeMax     decimal.Decimal `gorm:"type:numeric(38,0);not null"`

	Settled         bool             `gorm:"not null;default:false"`
	SettledBy       *string          `gorm:"type:varchar(42)"`
	SettledAt       *time.Time       `gorm:"type:timestamptz"`
	SettlementPrice *decimal.Decimal `gorm:"type:numeric(20,8)"`
	SettlementFee   *decimal.Decimal `gorm:"type:numeric(38,0)"`
	Winner          *string          `gorm:"type:varchar(42)"`

	Active              bool `gorm:"not null;default:true;index"`
	CreatorWithdrawn    bool `gorm:"not null;default:false"`
	ChallengerWithdrawn bool `gorm:"not null;default:false"`

	// Wei currently held by the instance. 2*EntryFee once accepted, drained
	// by the settlement fee and withdrawals.
	Escrow decimal.Decimal `gorm:"type:numeric(38,0);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// HasChallenger reports whether the instance has been accepted.
func (c *Challenge) HasChallenger() bool {
	return c.Challenger != nil && *c.Challenger != ""
}
