package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wagerwinz/internal/chain"
	"wagerwinz/internal/config"
	"wagerwinz/internal/models"
	"wagerwinz/internal/repository"
)

// FactoryService owns the singleton factory record. The record is written
// once, on the first boot, from config; later boots reuse the stored bounds
// so a config edit never mutates an already-deployed factory.
type FactoryService struct {
	Repo   repository.Repository
	Clock  chain.Clock
	Logger *zap.Logger
}

func (s *FactoryService) Ensure(ctx context.Context, cfg config.FactoryConfig) (*models.FactoryState, error) {
	existing, err := s.Repo.GetFactoryState(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	minFee, err := cfg.MinEntryFeeWei()
	if err != nil {
		return nil, err
	}
	feeMax, err := cfg.SettlementFeeMaxWei()
	if err != nil {
		return nil, err
	}
	owner, err := NormalizeAddress(cfg.Owner)
	if err != nil {
		return nil, err
	}
	factoryAddr, err := newInstanceAddress()
	if err != nil {
		return nil, err
	}
	implAddr, err := newInstanceAddress()
	if err != nil {
		return nil, err
	}

	state := &models.FactoryState{
		ID:                      1,
		Address:                 factoryAddr,
		Owner:                   owner,
		StartBlock:              s.Clock.BlockNumber(),
		StartTime:               s.Clock.Now(),
		MinEntryFee:             minFee,
		MinChallengeDuration:    seconds(cfg.MinChallengeDuration),
		MaxChallengeDuration:    seconds(cfg.MaxChallengeDuration),
		MinLockDuration:         seconds(cfg.MinLockDuration),
		MaxLockDuration:         seconds(cfg.MaxLockDuration),
		SettlementDuration:      seconds(cfg.SettlementDuration),
		SettlementFeePercent:    cfg.SettlementFeePercent,
		SettlementFeeMax:        feeMax,
		ChallengeImplementation: implAddr,
	}
	if err := s.Repo.SaveFactoryState(ctx, state); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("factory deployed",
			zap.String("address", state.Address),
			zap.String("owner", state.Owner),
			zap.String("min_entry_fee_wei", state.MinEntryFee.String()),
		)
	}
	return state, nil
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
