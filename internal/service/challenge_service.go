package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wagerwinz/internal/chain"
	"wagerwinz/internal/engine"
	"wagerwinz/internal/events"
	"wagerwinz/internal/ledger"
	"wagerwinz/internal/models"
	"wagerwinz/internal/oracle"
	"wagerwinz/internal/repository"
)

// ChallengeService drives the challenge lifecycle. Every mutating operation
// runs inside one repository transaction: load the instance row with a lock,
// re-check the guards, move funds through the ledger, persist, append the
// event. The websocket hub is only notified after the transaction commits.
type ChallengeService struct {
	Repo    repository.Repository
	Ledger  *ledger.Ledger
	Feed    oracle.PriceFeed
	Clock   chain.Clock
	Hub     *events.Hub
	Logger  *zap.Logger
	Factory *models.FactoryState

	// MaxPriceStaleness rejects oracle readings older than this at
	// settlement time. Zero disables the check.
	MaxPriceStaleness time.Duration
}

type CreateParams struct {
	Creator         string
	Prediction      decimal.Decimal
	LockTime        time.Time
	SettlementStart time.Time
	Stake           decimal.Decimal
}

// Create deploys a new challenge instance: validates the factory bounds and
// the one-active-challenge rule, escrows the creator's stake, and registers
// the instance under the creator's slot. A slot pointing at a terminal
// instance is treated as free and replaced in the same transaction.
func (s *ChallengeService) Create(ctx context.Context, p CreateParams) (*models.Challenge, error) {
	creator, err := NormalizeAddress(p.Creator)
	if err != nil {
		return nil, err
	}
	bounds := engine.BoundsFromState(s.Factory)
	now := s.Clock.Now()

	var ch *models.Challenge
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureSlotFreeTx(ctx, tx, creator, now); err != nil {
			return err
		}
		if err := engine.ValidateCreate(bounds, now, p.LockTime, p.SettlementStart, p.Stake); err != nil {
			return err
		}

		addr, err := newInstanceAddress()
		if err != nil {
			return err
		}
		ch = engine.NewChallenge(
			bounds, s.Factory.Address, addr, creator,
			p.Prediction, p.LockTime, p.SettlementStart, p.Stake,
			now, s.Clock.BlockNumber(),
		)
		if err := s.Ledger.EscrowTx(ctx, tx, creator, addr, p.Stake); err != nil {
			return err
		}
		if err := s.Repo.InsertChallengeTx(ctx, tx, ch); err != nil {
			return err
		}
		if err := s.Repo.SetActiveChallengeTx(ctx, tx, &models.ActiveChallenge{
			Creator:          creator,
			ChallengeAddress: addr,
		}); err != nil {
			return err
		}
		return s.appendEventTx(ctx, tx, models.EventChallengeCreated, addr, creator, map[string]any{
			"creator":               creator,
			"entry_fee":             ch.EntryFee.String(),
			"creator_prediction":    ch.CreatorPrediction.String(),
			"lock_time":             ch.LockTime,
			"settlement_start_time": ch.SettlementStartTime,
			"settlement_end_time":   ch.SettlementEndTime,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventChallengeCreated, ch.Address, creator, map[string]any{
		"entry_fee": ch.EntryFee.String(),
		"lock_time": ch.LockTime,
	})
	if s.Logger != nil {
		s.Logger.Info("challenge created",
			zap.String("address", ch.Address),
			zap.String("creator", creator),
			zap.String("entry_fee_wei", ch.EntryFee.String()),
		)
	}
	return ch, nil
}

// ValidateCreate dry-runs the creation guards, including the registry slot
// and the creator's balance, without touching any state.
func (s *ChallengeService) ValidateCreate(ctx context.Context, p CreateParams) error {
	creator, err := NormalizeAddress(p.Creator)
	if err != nil {
		return err
	}
	now := s.Clock.Now()

	slot, err := s.Repo.GetActiveChallenge(ctx, creator)
	if err != nil {
		return err
	}
	if slot != nil {
		existing, err := s.Repo.GetChallenge(ctx, slot.ChallengeAddress)
		if err != nil {
			return err
		}
		if existing != nil && !engine.Terminal(existing, now) {
			return engine.ErrDuplicateActiveChallenge
		}
	}
	if err := engine.ValidateCreate(engine.BoundsFromState(s.Factory), now, p.LockTime, p.SettlementStart, p.Stake); err != nil {
		return err
	}

	acct, err := s.Repo.GetAccount(ctx, creator)
	if err != nil {
		return err
	}
	if acct == nil || acct.Balance.LessThan(p.Stake) {
		return fmt.Errorf("%w: insufficient balance for %s", engine.ErrTransferFailed, creator)
	}
	return nil
}

// Accept joins the caller as the challenger, escrowing a stake equal to the
// entry fee.
func (s *ChallengeService) Accept(ctx context.Context, address, caller string, prediction, stake decimal.Decimal) (*models.Challenge, error) {
	challenger, err := NormalizeAddress(caller)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()

	var ch *models.Challenge
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		ch, err = s.lockChallengeTx(ctx, tx, address)
		if err != nil {
			return err
		}
		if err := engine.Accept(ch, now, challenger, prediction, stake); err != nil {
			return err
		}
		if err := s.Ledger.EscrowTx(ctx, tx, challenger, ch.Address, stake); err != nil {
			return err
		}
		if err := s.Repo.SaveChallengeTx(ctx, tx, ch); err != nil {
			return err
		}
		return s.appendEventTx(ctx, tx, models.EventChallengeAccepted, ch.Address, challenger, map[string]any{
			"challenger":            challenger,
			"challenger_prediction": prediction.String(),
			"entry_fee":             stake.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventChallengeAccepted, ch.Address, challenger, map[string]any{
		"challenger_prediction": prediction.String(),
	})
	return ch, nil
}

// Cancel voids an unaccepted challenge and refunds the creator immediately.
// The creator's registry slot is freed in the same transaction.
func (s *ChallengeService) Cancel(ctx context.Context, address, caller string) (*models.Challenge, error) {
	creator, err := NormalizeAddress(caller)
	if err != nil {
		return nil, err
	}

	var ch *models.Challenge
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		ch, err = s.lockChallengeTx(ctx, tx, address)
		if err != nil {
			return err
		}
		refund, err := engine.Cancel(ch, creator)
		if err != nil {
			return err
		}
		if err := s.Ledger.ReleaseTx(ctx, tx, creator, ch.Address, refund, models.LedgerKindRefund); err != nil {
			return err
		}
		if err := s.Repo.SaveChallengeTx(ctx, tx, ch); err != nil {
			return err
		}
		if err := s.Repo.ClearActiveChallengeTx(ctx, tx, ch.Creator); err != nil {
			return err
		}
		return s.appendEventTx(ctx, tx, models.EventChallengeCancelled, ch.Address, creator, map[string]any{
			"refund": refund.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventChallengeCancelled, ch.Address, creator, nil)
	return ch, nil
}

// Settle resolves an accepted challenge inside its settlement window using a
// live oracle reading. The settler earns the incentive fee and the creator's
// registry slot is freed; the remaining escrow waits for the winner's
// withdrawal.
func (s *ChallengeService) Settle(ctx context.Context, address, caller string) (*models.Challenge, error) {
	settler, err := NormalizeAddress(caller)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()

	reading, err := s.readPrice(ctx, now)
	if err != nil {
		return nil, err
	}

	var (
		ch  *models.Challenge
		res engine.SettleResult
	)
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		ch, err = s.lockChallengeTx(ctx, tx, address)
		if err != nil {
			return err
		}
		res, err = engine.Settle(ch, now, settler, reading.Price)
		if err != nil {
			return err
		}
		if res.Fee.IsPositive() {
			if err := s.Ledger.ReleaseTx(ctx, tx, settler, ch.Address, res.Fee, models.LedgerKindFee); err != nil {
				return err
			}
		}
		if err := s.Repo.SaveChallengeTx(ctx, tx, ch); err != nil {
			return err
		}
		if err := s.Repo.ClearActiveChallengeTx(ctx, tx, ch.Creator); err != nil {
			return err
		}
		return s.appendEventTx(ctx, tx, models.EventChallengeSettled, ch.Address, settler, map[string]any{
			"winner":           res.Winner,
			"settlement_price": res.Price.String(),
			"settlement_fee":   res.Fee.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventChallengeSettled, ch.Address, settler, map[string]any{
		"winner":           res.Winner,
		"settlement_price": res.Price.String(),
	})
	if s.Logger != nil {
		s.Logger.Info("challenge settled",
			zap.String("address", ch.Address),
			zap.String("winner", res.Winner),
			zap.String("price", res.Price.String()),
			zap.String("fee_wei", res.Fee.String()),
		)
	}
	return ch, nil
}

// Withdraw releases the caller's claimable funds: the winner's pot after
// settlement, or the caller's own entry fee after expiry.
func (s *ChallengeService) Withdraw(ctx context.Context, address, caller string) (*models.Challenge, decimal.Decimal, error) {
	claimant, err := NormalizeAddress(caller)
	if err != nil {
		return nil, decimal.Zero, err
	}
	now := s.Clock.Now()

	var (
		ch     *models.Challenge
		amount decimal.Decimal
	)
	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		ch, err = s.lockChallengeTx(ctx, tx, address)
		if err != nil {
			return err
		}
		amount, err = engine.Withdraw(ch, now, claimant)
		if err != nil {
			return err
		}
		kind := models.LedgerKindRefund
		if ch.Settled {
			kind = models.LedgerKindPayout
		}
		if err := s.Ledger.ReleaseTx(ctx, tx, claimant, ch.Address, amount, kind); err != nil {
			return err
		}
		if err := s.Repo.SaveChallengeTx(ctx, tx, ch); err != nil {
			return err
		}
		return s.appendEventTx(ctx, tx, models.EventWithdrawal, ch.Address, claimant, map[string]any{
			"amount": amount.String(),
		})
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	s.publish(models.EventWithdrawal, ch.Address, claimant, map[string]any{
		"amount": amount.String(),
	})
	return ch, amount, nil
}

// ChallengeDetails is an instance plus its derived lifecycle state and the
// chain view it was derived at, matching the original getChallengeDetails
// read surface.
type ChallengeDetails struct {
	Challenge             *models.Challenge `json:"challenge"`
	Status                engine.Status     `json:"status"`
	SettlementIncentive   decimal.Decimal   `json:"settlement_incentive"`
	CurrentBlock          uint64            `json:"current_block"`
	CurrentBlockTimestamp time.Time         `json:"current_block_timestamp"`
}

func (s *ChallengeService) Details(ctx context.Context, address string) (*ChallengeDetails, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	ch, err := s.Repo.GetChallenge(ctx, addr)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChallengeNotFound
	}
	now := s.Clock.Now()
	return &ChallengeDetails{
		Challenge:             ch,
		Status:                engine.DeriveStatus(ch, now),
		SettlementIncentive:   engine.SettlementIncentive(ch.SettlementFeePercent, ch.SettlementFeeMax, ch.EntryFee),
		CurrentBlock:          s.Clock.BlockNumber(),
		CurrentBlockTimestamp: now,
	}, nil
}

type ChallengeList struct {
	Items []ChallengeDetails `json:"items"`
	Total int64              `json:"total"`
}

func (s *ChallengeService) List(ctx context.Context, params repository.ListChallengesParams) (*ChallengeList, error) {
	items, err := s.Repo.ListChallenges(ctx, params)
	if err != nil {
		return nil, err
	}
	total, err := s.Repo.CountChallenges(ctx, params)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	out := make([]ChallengeDetails, 0, len(items))
	for i := range items {
		ch := items[i]
		out = append(out, ChallengeDetails{
			Challenge:             &ch,
			Status:                engine.DeriveStatus(&ch, now),
			SettlementIncentive:   engine.SettlementIncentive(ch.SettlementFeePercent, ch.SettlementFeeMax, ch.EntryFee),
			CurrentBlock:          s.Clock.BlockNumber(),
			CurrentBlockTimestamp: now,
		})
	}
	return &ChallengeList{Items: out, Total: total}, nil
}

// FactoryDetails is the factory record plus the chain view, the read surface
// the original getFactoryDetails exposed.
type FactoryDetails struct {
	Factory               *models.FactoryState `json:"factory"`
	CurrentBlock          uint64               `json:"current_block"`
	CurrentBlockTimestamp time.Time            `json:"current_block_timestamp"`
}

func (s *ChallengeService) FactoryDetails(ctx context.Context) (*FactoryDetails, error) {
	state, err := s.Repo.GetFactoryState(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = s.Factory
	}
	return &FactoryDetails{
		Factory:               state,
		CurrentBlock:          s.Clock.BlockNumber(),
		CurrentBlockTimestamp: s.Clock.Now(),
	}, nil
}

func (s *ChallengeService) Events(ctx context.Context, params repository.ListChallengeEventsParams) ([]models.ChallengeEvent, error) {
	return s.Repo.ListChallengeEvents(ctx, params)
}

// ensureSlotFreeTx enforces the one-active-challenge-per-creator rule. A slot
// whose instance reached a terminal state is stale and cleared here.
func (s *ChallengeService) ensureSlotFreeTx(ctx context.Context, tx *gorm.DB, creator string, now time.Time) error {
	slot, err := s.Repo.GetActiveChallengeTx(ctx, tx, creator)
	if err != nil {
		return err
	}
	if slot == nil {
		return nil
	}
	existing, err := s.Repo.GetChallengeForUpdateTx(ctx, tx, slot.ChallengeAddress)
	if err != nil {
		return err
	}
	if existing != nil && !engine.Terminal(existing, now) {
		return engine.ErrDuplicateActiveChallenge
	}
	return s.Repo.ClearActiveChallengeTx(ctx, tx, creator)
}

func (s *ChallengeService) lockChallengeTx(ctx context.Context, tx *gorm.DB, address string) (*models.Challenge, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	ch, err := s.Repo.GetChallengeForUpdateTx(ctx, tx, addr)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChallengeNotFound
	}
	return ch, nil
}

func (s *ChallengeService) readPrice(ctx context.Context, now time.Time) (oracle.Reading, error) {
	if s.Feed == nil {
		return oracle.Reading{}, engine.ErrPriceFeedUnavailable
	}
	reading, err := s.Feed.LatestRound(ctx)
	if err != nil {
		return oracle.Reading{}, fmt.Errorf("%w: %v", engine.ErrPriceFeedUnavailable, err)
	}
	if !reading.Price.IsPositive() {
		return oracle.Reading{}, fmt.Errorf("%w: non-positive price", engine.ErrPriceFeedUnavailable)
	}
	if s.MaxPriceStaleness > 0 && now.Sub(reading.UpdatedAt) > s.MaxPriceStaleness {
		return oracle.Reading{}, fmt.Errorf("%w: reading is stale", engine.ErrPriceFeedUnavailable)
	}
	return reading, nil
}

func (s *ChallengeService) appendEventTx(ctx context.Context, tx *gorm.DB, typ, address, actor string, payload map[string]any) error {
	var raw datatypes.JSON
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = datatypes.JSON(b)
	}
	return s.Repo.InsertChallengeEventTx(ctx, tx, &models.ChallengeEvent{
		ChallengeAddress: address,
		Type:             typ,
		Actor:            actor,
		Payload:          raw,
	})
}

func (s *ChallengeService) publish(typ, address, actor string, payload map[string]any) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(events.Event{
		Type:             typ,
		ChallengeAddress: address,
		Actor:            actor,
		Payload:          payload,
		CreatedAt:        time.Now().UTC(),
	})
}
