package models

import "time"

// ActiveChallenge maps a creator to their one currently active instance.
// Uniqueness of the creator key is what enforces at most one live challenge
// per address.
type ActiveChallenge struct {
	Creator          string    `gorm:"primaryKey;type:varchar(42)"`
	ChallengeAddress string    `gorm:"type:varchar(42);not null;index"`
	CreatedAt        time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (ActiveChallenge) TableName() string {
	return "active_challenges"
}
