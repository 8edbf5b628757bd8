package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"wagerwinz/internal/models"
)

// The mutating transitions below follow the contract discipline: every guard
// is re-checked at the top of the call, and the struct is only mutated after
// all guards pass. Callers persist the instance and move funds in the same
// transaction, so a failed guard leaves no partial state.

// Accept locks in the second participant. The stake must equal the entry fee
// exactly, mirroring the msg.value check in the original.
func Accept(ch *models.Challenge, now time.Time, challenger string, prediction, stake decimal.Decimal) error {
	if ch.Settled {
		return ErrAlreadySettled
	}
	if !ch.Active {
		return ErrAlreadyCancelled
	}
	if ch.HasChallenger() {
		return ErrAlreadyAccepted
	}
	if !now.Before(ch.LockTime) {
		return ErrChallengeExpired
	}
	if challenger == ch.Creator {
		return ErrOwnChallenge
	}
	if !stake.Equal(ch.EntryFee) {
		return ErrStakeMismatch
	}

	ch.Challenger = &challenger
	ch.ChallengerPrediction = &prediction
	ch.Escrow = ch.Escrow.Add(stake)
	return nil
}

// Cancel voids an unaccepted challenge and releases the creator's stake.
// The refund is immediate, so the creator's withdrawal flag is set here;
// no later withdraw call can double-pay.
func Cancel(ch *models.Challenge, caller string) (decimal.Decimal, error) {
	if ch.Settled {
		return decimal.Zero, ErrAlreadySettled
	}
	if !ch.Active {
		return decimal.Zero, ErrAlreadyCancelled
	}
	if ch.HasChallenger() {
		return decimal.Zero, ErrAlreadyAccepted
	}
	if caller != ch.Creator {
		return decimal.Zero, ErrNotParticipant
	}

	refund := ch.Escrow
	ch.Active = false
	ch.CreatorWithdrawn = true
	ch.Escrow = decimal.Zero
	return refund, nil
}

// SettleResult is what a successful settlement produced: the winner, the
// settler's fee (already deducted from escrow), and the oracle price used.
type SettleResult struct {
	Winner string
	Fee    decimal.Decimal
	Price  decimal.Decimal
}

// Settle resolves an accepted challenge against the oracle price. The party
// whose prediction is closest wins; the creator wins exact ties. The settler
// earns the incentive fee regardless of standing.
func Settle(ch *models.Challenge, now time.Time, caller string, price decimal.Decimal) (SettleResult, error) {
	if ch.Settled {
		return SettleResult{}, ErrAlreadySettled
	}
	if !ch.Active {
		return SettleResult{}, ErrAlreadyCancelled
	}
	if !ch.HasChallenger() {
		return SettleResult{}, ErrNotYetAccepted
	}
	if now.Before(ch.SettlementStartTime) || now.After(ch.SettlementEndTime) {
		return SettleResult{}, ErrOutsideSettlementWindow
	}

	creatorDiff := ch.CreatorPrediction.Sub(price).Abs()
	challengerDiff := ch.ChallengerPrediction.Sub(price).Abs()
	winner := ch.Creator
	if challengerDiff.LessThan(creatorDiff) {
		winner = *ch.Challenger
	}

	fee := SettlementIncentive(ch.SettlementFeePercent, ch.SettlementFeeMax, ch.EntryFee)

	ch.Settled = true
	ch.SettledBy = &caller
	settledAt := now
	ch.SettledAt = &settledAt
	ch.SettlementPrice = &price
	ch.SettlementFee = &fee
	ch.Winner = &winner
	ch.Active = false
	ch.Escrow = ch.Escrow.Sub(fee)

	return SettleResult{Winner: winner, Fee: fee, Price: price}, nil
}

// Withdraw releases funds after settlement or expiry. Settled: the winner
// takes the remaining escrow (total staked minus the settlement fee), once.
// Expired: each participant reclaims their own entry fee, once. Cancelled
// instances were refunded at cancellation and always report AlreadyWithdrawn.
func Withdraw(ch *models.Challenge, now time.Time, caller string) (decimal.Decimal, error) {
	isCreator := caller == ch.Creator
	isChallenger := ch.HasChallenger() && caller == *ch.Challenger
	if !isCreator && !isChallenger {
		return decimal.Zero, ErrNotParticipant
	}

	if ch.Settled {
		if ch.Winner == nil || caller != *ch.Winner {
			return decimal.Zero, ErrNotWinner
		}
		if withdrawn(ch, caller) {
			return decimal.Zero, ErrAlreadyWithdrawn
		}
		amount := ch.Escrow
		markWithdrawn(ch, caller)
		ch.Escrow = decimal.Zero
		return amount, nil
	}

	if !ch.Active {
		return decimal.Zero, ErrAlreadyWithdrawn
	}

	if DeriveStatus(ch, now) != StatusExpired {
		return decimal.Zero, ErrChallengeActive
	}
	if withdrawn(ch, caller) {
		return decimal.Zero, ErrAlreadyWithdrawn
	}

	amount := ch.EntryFee
	markWithdrawn(ch, caller)
	ch.Escrow = ch.Escrow.Sub(amount)
	return amount, nil
}

func withdrawn(ch *models.Challenge, caller string) bool {
	if caller == ch.Creator {
		return ch.CreatorWithdrawn
	}
	return ch.ChallengerWithdrawn
}

func markWithdrawn(ch *models.Challenge, caller string) {
	if caller == ch.Creator {
		ch.CreatorWithdrawn = true
		return
	}
	ch.ChallengerWithdrawn = true
}
