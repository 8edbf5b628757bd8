package engine

import (
	"time"

	"wagerwinz/internal/models"
)

// Status is the derived lifecycle state the original contract reported from
// getChallengeDetails. It is a pure function of stored fields and the current
// time, recomputed on every query and re-derived inside mutating guards.
type Status string

const (
	StatusInactive      Status = "INACTIVE"
	StatusChallengeable Status = "CHALLENGEABLE"
	StatusAccepted      Status = "ACCEPTED"
	StatusLocked        Status = "LOCKED"
	StatusSettleable    Status = "SETTLEABLE"
	StatusSettled       Status = "SETTLED"
	StatusVoid          Status = "VOID"
	StatusExpired       Status = "EXPIRED"
)

// DeriveStatus maps an instance and the current time to its lifecycle state.
func DeriveStatus(ch *models.Challenge, now time.Time) Status {
	switch {
	case ch == nil || ch.StartTime.IsZero():
		return StatusInactive
	case ch.Settled:
		return StatusSettled
	case !ch.Active:
		return StatusVoid
	case !ch.HasChallenger():
		if now.Before(ch.LockTime) {
			return StatusChallengeable
		}
		return StatusExpired
	case now.Before(ch.LockTime):
		return StatusAccepted
	case now.Before(ch.SettlementStartTime):
		return StatusLocked
	case !now.After(ch.SettlementEndTime):
		return StatusSettleable
	default:
		return StatusExpired
	}
}

// Terminal reports whether the instance can never again be accepted,
// cancelled, or settled. Used when deciding if a creator's registry slot is
// stale and may be replaced.
func Terminal(ch *models.Challenge, now time.Time) bool {
	switch DeriveStatus(ch, now) {
	case StatusSettled, StatusVoid, StatusExpired:
		return true
	default:
		return false
	}
}
