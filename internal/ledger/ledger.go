package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wagerwinz/internal/engine"
	"wagerwinz/internal/models"
	"wagerwinz/internal/repository"
)

// Ledger is the value-transfer primitive: wei balances per address, moved in
// and out of challenge escrows. The Tx methods run inside the caller's
// transaction so a failed transfer aborts the whole state transition.
type Ledger struct {
	Repo repository.Repository
}

// Deposit credits an account from outside the system (the stand-in for
// attaching value to a transaction).
func (l *Ledger) Deposit(ctx context.Context, address string, amount decimal.Decimal) (*models.Account, error) {
	if l == nil || l.Repo == nil {
		return nil, fmt.Errorf("%w: ledger not configured", engine.ErrTransferFailed)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", engine.ErrTransferFailed)
	}
	var acct *models.Account
	err := l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		acct, err = l.creditTx(ctx, tx, address, "", amount, models.LedgerKindDeposit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// EscrowTx debits the address into a challenge escrow. Insufficient balance
// (or a missing account) is a transfer failure, not a guard violation.
func (l *Ledger) EscrowTx(ctx context.Context, tx *gorm.DB, address, challengeAddr string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: escrow amount must be positive", engine.ErrTransferFailed)
	}
	acct, err := l.Repo.GetAccountForUpdateTx(ctx, tx, address)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransferFailed, err)
	}
	if acct == nil || acct.Balance.LessThan(amount) {
		return fmt.Errorf("%w: insufficient balance for %s", engine.ErrTransferFailed, address)
	}
	acct.Balance = acct.Balance.Sub(amount)
	if err := l.Repo.SaveAccountTx(ctx, tx, acct); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransferFailed, err)
	}
	return l.recordTx(ctx, tx, address, challengeAddr, amount.Neg(), models.LedgerKindEscrow)
}

// ReleaseTx credits the address from a challenge escrow. Kind distinguishes
// refunds, winner payouts, and settler fees in the ledger trail.
func (l *Ledger) ReleaseTx(ctx context.Context, tx *gorm.DB, address, challengeAddr string, amount decimal.Decimal, kind string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: release amount must be positive", engine.ErrTransferFailed)
	}
	_, err := l.creditTx(ctx, tx, address, challengeAddr, amount, kind)
	return err
}

func (l *Ledger) creditTx(ctx context.Context, tx *gorm.DB, address, challengeAddr string, amount decimal.Decimal, kind string) (*models.Account, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	acct, err := l.Repo.GetAccountForUpdateTx(ctx, tx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrTransferFailed, err)
	}
	if acct == nil {
		acct = &models.Account{Address: address, Balance: decimal.Zero}
	}
	acct.Balance = acct.Balance.Add(amount)
	if err := l.Repo.SaveAccountTx(ctx, tx, acct); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrTransferFailed, err)
	}
	if err := l.recordTx(ctx, tx, address, challengeAddr, amount, kind); err != nil {
		return nil, err
	}
	return acct, nil
}

func (l *Ledger) recordTx(ctx context.Context, tx *gorm.DB, address, challengeAddr string, amount decimal.Decimal, kind string) error {
	err := l.Repo.InsertLedgerEntryTx(ctx, tx, &models.LedgerEntry{
		Address:          address,
		ChallengeAddress: challengeAddr,
		Kind:             kind,
		Amount:           amount,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransferFailed, err)
	}
	return nil
}
