package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wagerwinz/internal/models"
)

// Repository is the persistence surface for the factory, challenge instances,
// the ledger, and the event log. The Tx variants participate in an InTx
// transaction; every state-mutating challenge operation runs entirely inside
// one such transaction so guards and fund movements commit atomically.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Factory
	GetFactoryState(ctx context.Context) (*models.FactoryState, error)
	SaveFactoryState(ctx context.Context, state *models.FactoryState) error

	// Challenges
	InsertChallengeTx(ctx context.Context, tx *gorm.DB, item *models.Challenge) error
	SaveChallengeTx(ctx context.Context, tx *gorm.DB, item *models.Challenge) error
	GetChallenge(ctx context.Context, address string) (*models.Challenge, error)
	GetChallengeForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Challenge, error)
	ListChallenges(ctx context.Context, params ListChallengesParams) ([]models.Challenge, error)
	CountChallenges(ctx context.Context, params ListChallengesParams) (int64, error)

	// Creator -> active instance registry
	GetActiveChallenge(ctx context.Context, creator string) (*models.ActiveChallenge, error)
	GetActiveChallengeTx(ctx context.Context, tx *gorm.DB, creator string) (*models.ActiveChallenge, error)
	SetActiveChallengeTx(ctx context.Context, tx *gorm.DB, item *models.ActiveChallenge) error
	ClearActiveChallengeTx(ctx context.Context, tx *gorm.DB, creator string) error

	// Ledger
	GetAccount(ctx context.Context, address string) (*models.Account, error)
	GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Account, error)
	SaveAccountTx(ctx context.Context, tx *gorm.DB, item *models.Account) error
	InsertLedgerEntryTx(ctx context.Context, tx *gorm.DB, item *models.LedgerEntry) error
	ListLedgerEntries(ctx context.Context, params ListLedgerEntriesParams) ([]models.LedgerEntry, error)

	// Events
	InsertChallengeEventTx(ctx context.Context, tx *gorm.DB, item *models.ChallengeEvent) error
	ListChallengeEvents(ctx context.Context, params ListChallengeEventsParams) ([]models.ChallengeEvent, error)
	DeleteChallengeEventsBefore(ctx context.Context, before time.Time) (int64, error)

	// Price samples
	InsertPriceSample(ctx context.Context, item *models.PriceSample) error
	ListPriceSamples(ctx context.Context, limit int) ([]models.PriceSample, error)
	DeletePriceSamplesBefore(ctx context.Context, before time.Time) (int64, error)
}

type ListChallengesParams struct {
	Limit      int
	Offset     int
	Creator    *string
	Challenger *string
	Active     *bool
	Settled    *bool
	OrderBy    string
	Asc        *bool
}

type ListChallengeEventsParams struct {
	Limit            int
	Offset           int
	ChallengeAddress *string
	Type             *string
	Since            *time.Time
}

type ListLedgerEntriesParams struct {
	Limit            int
	Offset           int
	Address          *string
	ChallengeAddress *string
	Kind             *string
}
