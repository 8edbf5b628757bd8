package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger balance in wei for one EVM address.
type Account struct {
	Address   string          `gorm:"primaryKey;type:varchar(42)"`
	Balance   decimal.Decimal `gorm:"type:numeric(38,0);not null;default:0"`
	CreatedAt time.Time       `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
