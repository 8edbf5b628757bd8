package db

import (
	"wagerwinz/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.FactoryState{},
		&models.Challenge{},
		&models.ActiveChallenge{},
		&models.Account{},
		&models.LedgerEntry{},
		&models.ChallengeEvent{},
		&models.PriceSample{},
	)
}
