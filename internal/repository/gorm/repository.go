package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wagerwinz/internal/models"
	"wagerwinz/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Factory ----------------------------------------------------------------

func (s *Store) GetFactoryState(ctx context.Context) (*models.FactoryState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.FactoryState
	err := s.db.WithContext(ctx).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveFactoryState(ctx context.Context, state *models.FactoryState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(state).Error
}

// --- Challenges -------------------------------------------------------------

func (s *Store) InsertChallengeTx(ctx context.Context, tx *gorm.DB, item *models.Challenge) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) SaveChallengeTx(ctx context.Context, tx *gorm.DB, item *models.Challenge) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Save(item).Error
}

func (s *Store) GetChallenge(ctx context.Context, address string) (*models.Challenge, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Challenge
	err := s.db.WithContext(ctx).
		Where("address = ?", normalizeAddr(address)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetChallengeForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Challenge, error) {
	if tx == nil {
		return nil, nil
	}
	var item models.Challenge
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", normalizeAddr(address)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListChallenges(ctx context.Context, params repository.ListChallengesParams) ([]models.Challenge, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.challengeQuery(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.Challenge
	if err := query.
		Limit(normalizeLimit(params.Limit, 50)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountChallenges(ctx context.Context, params repository.ListChallengesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.challengeQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) challengeQuery(ctx context.Context, params repository.ListChallengesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Challenge{})
	if params.Creator != nil && strings.TrimSpace(*params.Creator) != "" {
		query = query.Where("creator = ?", normalizeAddr(*params.Creator))
	}
	if params.Challenger != nil && strings.TrimSpace(*params.Challenger) != "" {
		query = query.Where("challenger = ?", normalizeAddr(*params.Challenger))
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.Settled != nil {
		query = query.Where("settled = ?", *params.Settled)
	}
	return query
}

// --- Active-challenge registry ----------------------------------------------

func (s *Store) GetActiveChallenge(ctx context.Context, creator string) (*models.ActiveChallenge, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return getActiveChallenge(s.db.WithContext(ctx), creator, false)
}

func (s *Store) GetActiveChallengeTx(ctx context.Context, tx *gorm.DB, creator string) (*models.ActiveChallenge, error) {
	if tx == nil {
		return nil, nil
	}
	return getActiveChallenge(tx.WithContext(ctx), creator, true)
}

func getActiveChallenge(db *gorm.DB, creator string, lock bool) (*models.ActiveChallenge, error) {
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.ActiveChallenge
	err := db.Where("creator = ?", normalizeAddr(creator)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SetActiveChallengeTx(ctx context.Context, tx *gorm.DB, item *models.ActiveChallenge) error {
	if tx == nil || item == nil {
		return nil
	}
	item.Creator = normalizeAddr(item.Creator)
	item.ChallengeAddress = normalizeAddr(item.ChallengeAddress)
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "creator"}},
		DoUpdates: clause.AssignmentColumns([]string{"challenge_address", "created_at"}),
	}).Create(item).Error
}

func (s *Store) ClearActiveChallengeTx(ctx context.Context, tx *gorm.DB, creator string) error {
	if tx == nil {
		return nil
	}
	return tx.WithContext(ctx).
		Where("creator = ?", normalizeAddr(creator)).
		Delete(&models.ActiveChallenge{}).Error
}

// --- Ledger -----------------------------------------------------------------

func (s *Store) GetAccount(ctx context.Context, address string) (*models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Account
	err := s.db.WithContext(ctx).
		Where("address = ?", normalizeAddr(address)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetAccountForUpdateTx(ctx context.Context, tx *gorm.DB, address string) (*models.Account, error) {
	if tx == nil {
		return nil, nil
	}
	var item models.Account
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", normalizeAddr(address)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveAccountTx(ctx context.Context, tx *gorm.DB, item *models.Account) error {
	if tx == nil || item == nil {
		return nil
	}
	item.Address = normalizeAddr(item.Address)
	return tx.WithContext(ctx).Save(item).Error
}

func (s *Store) InsertLedgerEntryTx(ctx context.Context, tx *gorm.DB, item *models.LedgerEntry) error {
	if tx == nil || item == nil {
		return nil
	}
	item.Address = normalizeAddr(item.Address)
	item.ChallengeAddress = normalizeAddr(item.ChallengeAddress)
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) ListLedgerEntries(ctx context.Context, params repository.ListLedgerEntriesParams) ([]models.LedgerEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if params.Address != nil && strings.TrimSpace(*params.Address) != "" {
		query = query.Where("address = ?", normalizeAddr(*params.Address))
	}
	if params.ChallengeAddress != nil && strings.TrimSpace(*params.ChallengeAddress) != "" {
		query = query.Where("challenge_address = ?", normalizeAddr(*params.ChallengeAddress))
	}
	if params.Kind != nil && strings.TrimSpace(*params.Kind) != "" {
		query = query.Where("kind = ?", strings.TrimSpace(*params.Kind))
	}
	var items []models.LedgerEntry
	if err := query.
		Order("created_at desc").
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Events -----------------------------------------------------------------

func (s *Store) InsertChallengeEventTx(ctx context.Context, tx *gorm.DB, item *models.ChallengeEvent) error {
	if tx == nil || item == nil {
		return nil
	}
	item.ChallengeAddress = normalizeAddr(item.ChallengeAddress)
	item.Actor = normalizeAddr(item.Actor)
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) ListChallengeEvents(ctx context.Context, params repository.ListChallengeEventsParams) ([]models.ChallengeEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.ChallengeEvent{})
	if params.ChallengeAddress != nil && strings.TrimSpace(*params.ChallengeAddress) != "" {
		query = query.Where("challenge_address = ?", normalizeAddr(*params.ChallengeAddress))
	}
	if params.Type != nil && strings.TrimSpace(*params.Type) != "" {
		query = query.Where("type = ?", strings.TrimSpace(*params.Type))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	var items []models.ChallengeEvent
	if err := query.
		Order("created_at desc").
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteChallengeEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.ChallengeEvent{})
	return res.RowsAffected, res.Error
}

// --- Price samples ----------------------------------------------------------

func (s *Store) InsertPriceSample(ctx context.Context, item *models.PriceSample) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListPriceSamples(ctx context.Context, limit int) ([]models.PriceSample, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.PriceSample
	if err := s.db.WithContext(ctx).
		Model(&models.PriceSample{}).
		Order("sampled_at desc").
		Limit(normalizeLimit(limit, 100)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeletePriceSamplesBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("sampled_at < ?", before).
		Delete(&models.PriceSample{})
	return res.RowsAffected, res.Error
}

// --- helpers ----------------------------------------------------------------

func normalizeAddr(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

var orderableColumns = map[string]struct{}{
	"created_at":            {},
	"updated_at":            {},
	"lock_time":             {},
	"settlement_start_time": {},
	"settlement_end_time":   {},
	"entry_fee":             {},
	"start_time":            {},
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(orderBy)
	if _, ok := orderableColumns[col]; !ok {
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return query.Order(col + " " + dir)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 || limit > 1000 {
		return fallback
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
