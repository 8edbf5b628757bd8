package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wagerwinz/internal/models"
)

const (
	creator    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	challenger = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	outsider   = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func newTestChallenge(now time.Time) *models.Challenge {
	b := testBounds()
	return NewChallenge(
		b, "0xfac", "0xdddddddddddddddddddddddddddddddddddddddd", creator,
		decimal.NewFromInt(3000),
		now.Add(5*time.Minute),  // lock
		now.Add(10*time.Minute), // settlement start
		wei("20000000000000000"),
		now, 1,
	)
}

func acceptedChallenge(now time.Time, prediction decimal.Decimal) *models.Challenge {
	ch := newTestChallenge(now)
	if err := Accept(ch, now, challenger, prediction, ch.EntryFee); err != nil {
		panic(err)
	}
	return ch
}

func TestAccept(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("happy path doubles escrow", func(t *testing.T) {
		ch := newTestChallenge(now)
		if err := Accept(ch, now, challenger, decimal.NewFromInt(3100), ch.EntryFee); err != nil {
			t.Fatalf("accept: %v", err)
		}
		if !ch.HasChallenger() || *ch.Challenger != challenger {
			t.Fatal("challenger not recorded")
		}
		if !ch.Escrow.Equal(ch.EntryFee.Mul(decimal.NewFromInt(2))) {
			t.Fatalf("escrow=%s want=2x entry fee", ch.Escrow.String())
		}
	})

	t.Run("creator cannot accept own", func(t *testing.T) {
		ch := newTestChallenge(now)
		err := Accept(ch, now, creator, decimal.NewFromInt(3100), ch.EntryFee)
		if !errors.Is(err, ErrOwnChallenge) {
			t.Fatalf("err=%v want=ErrOwnChallenge", err)
		}
	})

	t.Run("stake must match exactly", func(t *testing.T) {
		ch := newTestChallenge(now)
		err := Accept(ch, now, challenger, decimal.NewFromInt(3100), ch.EntryFee.Add(decimal.NewFromInt(1)))
		if !errors.Is(err, ErrStakeMismatch) {
			t.Fatalf("err=%v want=ErrStakeMismatch", err)
		}
	})

	t.Run("rejected at lock time", func(t *testing.T) {
		ch := newTestChallenge(now)
		err := Accept(ch, ch.LockTime, challenger, decimal.NewFromInt(3100), ch.EntryFee)
		if !errors.Is(err, ErrChallengeExpired) {
			t.Fatalf("err=%v want=ErrChallengeExpired", err)
		}
	})

	t.Run("second accept rejected", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		err := Accept(ch, now, outsider, decimal.NewFromInt(3200), ch.EntryFee)
		if !errors.Is(err, ErrAlreadyAccepted) {
			t.Fatalf("err=%v want=ErrAlreadyAccepted", err)
		}
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creator cancels unaccepted", func(t *testing.T) {
		ch := newTestChallenge(now)
		refund, err := Cancel(ch, creator)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if !refund.Equal(ch.EntryFee) {
			t.Fatalf("refund=%s want entry fee", refund.String())
		}
		if ch.Active || !ch.Escrow.IsZero() || !ch.CreatorWithdrawn {
			t.Fatalf("bad post-cancel state: active=%v escrow=%s withdrawn=%v",
				ch.Active, ch.Escrow.String(), ch.CreatorWithdrawn)
		}
	})

	t.Run("non-creator cannot cancel", func(t *testing.T) {
		ch := newTestChallenge(now)
		if _, err := Cancel(ch, outsider); !errors.Is(err, ErrNotParticipant) {
			t.Fatalf("err=%v want=ErrNotParticipant", err)
		}
	})

	t.Run("accepted cannot cancel", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		if _, err := Cancel(ch, creator); !errors.Is(err, ErrAlreadyAccepted) {
			t.Fatalf("err=%v want=ErrAlreadyAccepted", err)
		}
	})

	t.Run("double cancel rejected", func(t *testing.T) {
		ch := newTestChallenge(now)
		if _, err := Cancel(ch, creator); err != nil {
			t.Fatalf("first cancel: %v", err)
		}
		if _, err := Cancel(ch, creator); !errors.Is(err, ErrAlreadyCancelled) {
			t.Fatalf("err=%v want=ErrAlreadyCancelled", err)
		}
	})
}

func TestSettle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(3050)

	t.Run("closer prediction wins", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3060)) // creator predicted 3000
		inWindow := ch.SettlementStartTime
		res, err := Settle(ch, inWindow, outsider, price)
		if err != nil {
			t.Fatalf("settle: %v", err)
		}
		if res.Winner != challenger {
			t.Fatalf("winner=%s want challenger", res.Winner)
		}
		if ch.SettledBy == nil || *ch.SettledBy != outsider {
			t.Fatal("settler not recorded")
		}
	})

	t.Run("tie goes to creator", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100)) // both 50 off from 3050
		res, err := Settle(ch, ch.SettlementStartTime, challenger, price)
		if err != nil {
			t.Fatalf("settle: %v", err)
		}
		if res.Winner != creator {
			t.Fatalf("winner=%s want creator on tie", res.Winner)
		}
	})

	t.Run("fee plus remaining escrow conserves the pot", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		pot := ch.Escrow
		res, err := Settle(ch, ch.SettlementStartTime, outsider, price)
		if err != nil {
			t.Fatalf("settle: %v", err)
		}
		if !res.Fee.Add(ch.Escrow).Equal(pot) {
			t.Fatalf("fee %s + escrow %s != pot %s", res.Fee, ch.Escrow, pot)
		}
	})

	t.Run("window is inclusive at the end", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		if _, err := Settle(ch, ch.SettlementEndTime, outsider, price); err != nil {
			t.Fatalf("settle at end: %v", err)
		}
	})

	t.Run("before window rejected", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		_, err := Settle(ch, ch.SettlementStartTime.Add(-time.Second), outsider, price)
		if !errors.Is(err, ErrOutsideSettlementWindow) {
			t.Fatalf("err=%v want=ErrOutsideSettlementWindow", err)
		}
	})

	t.Run("after window rejected", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		_, err := Settle(ch, ch.SettlementEndTime.Add(time.Second), outsider, price)
		if !errors.Is(err, ErrOutsideSettlementWindow) {
			t.Fatalf("err=%v want=ErrOutsideSettlementWindow", err)
		}
	})

	t.Run("unaccepted cannot settle", func(t *testing.T) {
		ch := newTestChallenge(now)
		_, err := Settle(ch, ch.SettlementStartTime, outsider, price)
		if !errors.Is(err, ErrNotYetAccepted) {
			t.Fatalf("err=%v want=ErrNotYetAccepted", err)
		}
	})

	t.Run("double settle rejected", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		if _, err := Settle(ch, ch.SettlementStartTime, outsider, price); err != nil {
			t.Fatalf("first settle: %v", err)
		}
		_, err := Settle(ch, ch.SettlementStartTime, outsider, price)
		if !errors.Is(err, ErrAlreadySettled) {
			t.Fatalf("err=%v want=ErrAlreadySettled", err)
		}
	})
}

func TestWithdraw(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(3050)

	t.Run("winner takes remaining escrow once", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3060))
		res, err := Settle(ch, ch.SettlementStartTime, outsider, price)
		if err != nil {
			t.Fatalf("settle: %v", err)
		}
		pot := ch.EntryFee.Mul(decimal.NewFromInt(2))

		amount, err := Withdraw(ch, ch.SettlementEndTime, res.Winner)
		if err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		if !amount.Add(res.Fee).Equal(pot) {
			t.Fatalf("payout %s + fee %s != pot %s", amount, res.Fee, pot)
		}
		if _, err := Withdraw(ch, ch.SettlementEndTime, res.Winner); !errors.Is(err, ErrAlreadyWithdrawn) {
			t.Fatalf("err=%v want=ErrAlreadyWithdrawn", err)
		}
	})

	t.Run("loser cannot withdraw after settlement", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3060))
		if _, err := Settle(ch, ch.SettlementStartTime, outsider, price); err != nil {
			t.Fatalf("settle: %v", err)
		}
		if _, err := Withdraw(ch, ch.SettlementEndTime, creator); !errors.Is(err, ErrNotWinner) {
			t.Fatalf("err=%v want=ErrNotWinner", err)
		}
	})

	t.Run("expired parties reclaim their own stakes", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		expired := ch.SettlementEndTime.Add(time.Minute)

		got, err := Withdraw(ch, expired, creator)
		if err != nil {
			t.Fatalf("creator withdraw: %v", err)
		}
		if !got.Equal(ch.EntryFee) {
			t.Fatalf("creator refund=%s want entry fee", got.String())
		}
		got, err = Withdraw(ch, expired, challenger)
		if err != nil {
			t.Fatalf("challenger withdraw: %v", err)
		}
		if !got.Equal(ch.EntryFee) {
			t.Fatalf("challenger refund=%s want entry fee", got.String())
		}
		if !ch.Escrow.IsZero() {
			t.Fatalf("escrow=%s want zero after both refunds", ch.Escrow.String())
		}
		if _, err := Withdraw(ch, expired, creator); !errors.Is(err, ErrAlreadyWithdrawn) {
			t.Fatalf("err=%v want=ErrAlreadyWithdrawn", err)
		}
	})

	t.Run("active challenge cannot withdraw", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		if _, err := Withdraw(ch, ch.LockTime, creator); !errors.Is(err, ErrChallengeActive) {
			t.Fatalf("err=%v want=ErrChallengeActive", err)
		}
	})

	t.Run("outsider cannot withdraw", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		if _, err := Withdraw(ch, ch.SettlementEndTime.Add(time.Minute), outsider); !errors.Is(err, ErrNotParticipant) {
			t.Fatalf("err=%v want=ErrNotParticipant", err)
		}
	})

	t.Run("cancelled reports already withdrawn", func(t *testing.T) {
		ch := newTestChallenge(now)
		if _, err := Cancel(ch, creator); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if _, err := Withdraw(ch, ch.SettlementEndTime.Add(time.Minute), creator); !errors.Is(err, ErrAlreadyWithdrawn) {
			t.Fatalf("err=%v want=ErrAlreadyWithdrawn", err)
		}
	})
}
