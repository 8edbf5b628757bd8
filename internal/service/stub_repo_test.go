package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wagerwinz/internal/models"
	"wagerwinz/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Rows are stored and returned by value so a mutation only sticks after an
// explicit Save, matching the real store's read-modify-write shape.
type stubRepo struct {
	factory    *models.FactoryState
	challenges map[string]models.Challenge
	slots      map[string]string
	accounts   map[string]models.Account
	entries    []models.LedgerEntry
	events     []models.ChallengeEvent
	samples    []models.PriceSample
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		challenges: map[string]models.Challenge{},
		slots:      map[string]string{},
		accounts:   map[string]models.Account{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) GetFactoryState(ctx context.Context) (*models.FactoryState, error) {
	if s.factory == nil {
		return nil, nil
	}
	cp := *s.factory
	return &cp, nil
}

func (s *stubRepo) SaveFactoryState(ctx context.Context, state *models.FactoryState) error {
	cp := *state
	s.factory = &cp
	return nil
}

func (s *stubRepo) InsertChallengeTx(ctx context.Context, tx *gorm.DB, item *models.Challenge) error {
	s.challenges[item.Address] = *item
	return nil
}

func (s *stubRepo) SaveChallengeTx(ctx context.Context, tx *gorm.DB, item *models.Challenge) error {
	s.challenges[item.Address] = *item
	return nil
}

func (s *stubRepo) GetChallenge(ctx context.Context, address string) (*models.Challenge, error) {
	ch, ok := s.challenges[address]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (s *stubRepo) GetChallengeForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Challenge, error) {
	return s.GetChallenge(ctx, address)
}

func (s *stubRepo) ListChallenges(ctx context.Context, params repository.ListChallengesParams) ([]models.Challenge, error) {
	var out []models.Challenge
	for _, ch := range s.challenges {
		if params.Creator != nil && ch.Creator != *params.Creator {
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

func (s *stubRepo) CountChallenges(ctx context.Context, params repository.ListChallengesParams) (int64, error) {
	rows, err := s.ListChallenges(ctx, params)
	return int64(len(rows)), err
}

func (s *stubRepo) GetActiveChallenge(ctx context.Context, creator string) (*models.ActiveChallenge, error) {
	addr, ok := s.slots[creator]
	if !ok {
		return nil, nil
	}
	return &models.ActiveChallenge{Creator: creator, ChallengeAddress: addr}, nil
}

func (s *stubRepo) GetActiveChallengeTx(ctx context.Context, tx *gorm.DB, creator string) (*models.ActiveChallenge, error) {
	return s.GetActiveChallenge(ctx, creator)
}

func (s *stubRepo) SetActiveChallengeTx(ctx context.Context, tx *gorm.DB, item *models.ActiveChallenge) error {
	s.slots[item.Creator] = item.ChallengeAddress
	return nil
}

func (s *stubRepo) ClearActiveChallengeTx(ctx context.Context, tx *gorm.DB, creator string) error {
	delete(s.slots, creator)
	return nil
}

func (s *stubRepo) GetAccount(ctx context.Context, address string) (*models.Account, error) {
	acct, ok := s.accounts[address]
	if !ok {
		return nil, nil
	}
	return &acct, nil
}

func (s *stubRepo) GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Account, error) {
	return s.GetAccount(ctx, address)
}

func (s *stubRepo) SaveAccountTx(ctx context.Context, tx *gorm.DB, item *models.Account) error {
	s.accounts[item.Address] = *item
	return nil
}

func (s *stubRepo) InsertLedgerEntryTx(ctx context.Context, tx *gorm.DB, item *models.LedgerEntry) error {
	s.entries = append(s.entries, *item)
	return nil
}

func (s *stubRepo) ListLedgerEntries(ctx context.Context, params repository.ListLedgerEntriesParams) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for _, e := range s.entries {
		if params.Address != nil && e.Address != *params.Address {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubRepo) InsertChallengeEventTx(ctx context.Context, tx *gorm.DB, item *models.ChallengeEvent) error {
	s.events = append(s.events, *item)
	return nil
}

func (s *stubRepo) ListChallengeEvents(ctx context.Context, params repository.ListChallengeEventsParams) ([]models.ChallengeEvent, error) {
	var out []models.ChallengeEvent
	for _, e := range s.events {
		if params.ChallengeAddress != nil && e.ChallengeAddress != *params.ChallengeAddress {
			continue
		}
		if params.Type != nil && e.Type != *params.Type {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubRepo) DeleteChallengeEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (s *stubRepo) InsertPriceSample(ctx context.Context, item *models.PriceSample) error {
	s.samples = append(s.samples, *item)
	return nil
}

func (s *stubRepo) ListPriceSamples(ctx context.Context, limit int) ([]models.PriceSample, error) {
	return s.samples, nil
}

func (s *stubRepo) DeletePriceSamplesBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
