package engine

import "errors"

// Guard failures for the factory and challenge state machines. Each condition
// gets its own sentinel so callers (and the API layer) can react precisely;
// the original contracts revert with an equally specific reason per guard.
var (
	ErrInsufficientStake        = errors.New("stake below minimum entry fee")
	ErrStakeMismatch            = errors.New("stake does not match entry fee")
	ErrDuplicateActiveChallenge = errors.New("creator already has an active challenge")
	ErrLockTimeTooEarly         = errors.New("lock time before minimum challenge duration")
	ErrLockTimeTooLate          = errors.New("lock time beyond maximum challenge duration")
	ErrSettlementTooEarly       = errors.New("settlement start before minimum lock duration")
	ErrSettlementTooLate        = errors.New("settlement start beyond maximum lock duration")

	ErrAlreadyAccepted  = errors.New("challenge already accepted")
	ErrNotYetAccepted   = errors.New("challenge not yet accepted")
	ErrOwnChallenge     = errors.New("creator cannot accept own challenge")
	ErrChallengeExpired = errors.New("challenge lock time has passed")
	ErrChallengeActive  = errors.New("challenge still active")

	ErrNotParticipant = errors.New("caller is not a challenge participant")
	ErrNotWinner      = errors.New("caller is not the winner")

	ErrOutsideSettlementWindow = errors.New("outside settlement window")
	ErrAlreadySettled          = errors.New("challenge already settled")
	ErrAlreadyCancelled        = errors.New("challenge already cancelled")
	ErrAlreadyWithdrawn        = errors.New("already withdrawn")

	ErrPriceFeedUnavailable = errors.New("price feed unavailable or stale")
	ErrTransferFailed       = errors.New("transfer failed")
)

var errCodes = map[error]string{
	ErrInsufficientStake:        "insufficient_stake",
	ErrStakeMismatch:            "stake_mismatch",
	ErrDuplicateActiveChallenge: "duplicate_active_challenge",
	ErrLockTimeTooEarly:         "lock_time_too_early",
	ErrLockTimeTooLate:          "lock_time_too_late",
	ErrSettlementTooEarly:       "settlement_time_too_early",
	ErrSettlementTooLate:        "settlement_time_too_late",
	ErrAlreadyAccepted:          "already_accepted",
	ErrNotYetAccepted:           "not_yet_accepted",
	ErrOwnChallenge:             "own_challenge",
	ErrChallengeExpired:         "challenge_expired",
	ErrChallengeActive:          "challenge_active",
	ErrNotParticipant:           "not_participant",
	ErrNotWinner:                "not_winner",
	ErrOutsideSettlementWindow:  "outside_settlement_window",
	ErrAlreadySettled:           "already_settled",
	ErrAlreadyCancelled:         "already_cancelled",
	ErrAlreadyWithdrawn:         "already_withdrawn",
	ErrPriceFeedUnavailable:     "price_feed_unavailable",
	ErrTransferFailed:           "transfer_failed",
}

// Code returns the stable API identifier for a guard error, or empty if err
// is not one of the taxonomy sentinels.
func Code(err error) string {
	for sentinel, code := range errCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
