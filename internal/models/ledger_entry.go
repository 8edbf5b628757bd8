package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LedgerKindDeposit = "deposit"
	LedgerKindEscrow  = "escrow"
	LedgerKindRefund  = "refund"
	LedgerKindPayout  = "payout"
	LedgerKindFee     = "fee"
)

// LedgerEntry records one fund movement between an account and a challenge
// escrow. Every state transition that moves value writes its entries in the
// same transaction, so the ledger always sums to the escrowed totals.
type LedgerEntry struct {
	ID               uint64          `gorm:"primaryKey;autoIncrement"`
	Address          string          `gorm:"type:varchar(42);not null;index"`
	ChallengeAddress string          `gorm:"type:varchar(42);index"`
	Kind             string          `gorm:"type:varchar(20);not null;index"`
	Amount           decimal.Decimal `gorm:"type:numeric(38,0);not null"`
	CreatedAt        time.Time       `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
