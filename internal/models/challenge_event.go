package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventChallengeCreated   = "challenge_created"
	EventChallengeAccepted  = "challenge_accepted"
	EventChallengeCancelled = "challenge_cancelled"
	EventChallengeSettled   = "challenge_settled"
	EventWithdrawal         = "withdrawal"
)

// ChallengeEvent mirrors the contract events the original frontend listened
// to for toasts and refetches. Payload carries the event-specific fields
// (amounts, price, winner) as JSON.
type ChallengeEvent struct {
	ID               uint64         `gorm:"primaryKey;autoIncrement"`
	ChallengeAddress string         `gorm:"type:varchar(42);not null;index"`
	Type             string         `gorm:"type:varchar(30);not null;index"`
	Actor            string         `gorm:"type:varchar(42);not null"`
	Payload          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (ChallengeEvent) TableName() string {
	return "challenge_events"
}
