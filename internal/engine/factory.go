package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"wagerwinz/internal/models"
)

// Bounds are the factory's immutable creation constraints.
type Bounds struct {
	MinEntryFee          decimal.Decimal
	MinChallengeDuration time.Duration
	MaxChallengeDuration time.Duration
	MinLockDuration      time.Duration
	MaxLockDuration      time.Duration
	SettlementDuration   time.Duration
	SettlementFeePercent int64
	SettlementFeeMax     decimal.Decimal
}

// BoundsFromState rebuilds Bounds from the persisted factory row.
func BoundsFromState(st *models.FactoryState) Bounds {
	return Bounds{
		MinEntryFee:          st.MinEntryFee,
		MinChallengeDuration: time.Duration(st.MinChallengeDuration) * time.Second,
		MaxChallengeDuration: time.Duration(st.MaxChallengeDuration) * time.Second,
		MinLockDuration:      time.Duration(st.MinLockDuration) * time.Second,
		MaxLockDuration:      time.Duration(st.MaxLockDuration) * time.Second,
		SettlementDuration:   time.Duration(st.SettlementDuration) * time.Second,
		SettlementFeePercent: st.SettlementFeePercent,
		SettlementFeeMax:     st.SettlementFeeMax,
	}
}

// ValidateCreate runs every createChallenge precondition except the
// one-active-challenge rule, which needs the registry and lives in the
// service layer. Violations map one-to-one onto the error taxonomy.
func ValidateCreate(b Bounds, now, lockTime, settlementStart time.Time, stake decimal.Decimal) error {
	if stake.LessThan(b.MinEntryFee) {
		return ErrInsufficientStake
	}
	if lockTime.Before(now.Add(b.MinChallengeDuration)) {
		return ErrLockTimeTooEarly
	}
	if lockTime.After(now.Add(b.MaxChallengeDuration)) {
		return ErrLockTimeTooLate
	}
	if settlementStart.Before(lockTime.Add(b.MinLockDuration)) {
		return ErrSettlementTooEarly
	}
	if settlementStart.After(lockTime.Add(b.MaxLockDuration)) {
		return ErrSettlementTooLate
	}
	return nil
}

// NewChallenge populates a fresh instance after ValidateCreate has passed.
// The stake is escrowed immediately; settlementEndTime is derived from the
// factory's fixed window length.
func NewChallenge(
	b Bounds,
	factoryAddress, instanceAddress, creator string,
	prediction decimal.Decimal,
	lockTime, settlementStart time.Time,
	stake decimal.Decimal,
	now time.Time,
	block uint64,
) *models.Challenge {
	return &models.Challenge{
		Address:              instanceAddress,
		Owner:                factoryAddress,
		Creator:              creator,
		StartBlock:           block,
		StartTime:            now,
		EntryFee:             stake,
		CreatorPrediction:    prediction,
		LockTime:             lockTime,
		SettlementStartTime:  settlementStart,
		SettlementEndTime:    settlementStart.Add(b.SettlementDuration),
		SettlementFeePercent: b.SettlementFeePercent,
		SettlementFeeMax:     b.SettlementFeeMax,
		Active:               true,
		Escrow:               stake,
	}
}
