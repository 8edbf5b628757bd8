package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wagerwinz/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil and uninitialized are inactive", func(t *testing.T) {
		if got := DeriveStatus(nil, now); got != StatusInactive {
			t.Fatalf("status=%s want=INACTIVE", got)
		}
		if got := DeriveStatus(&models.Challenge{}, now); got != StatusInactive {
			t.Fatalf("status=%s want=INACTIVE", got)
		}
	})

	t.Run("fresh challenge is challengeable", func(t *testing.T) {
		ch := newTestChallenge(now)
		if got := DeriveStatus(ch, now); got != StatusChallengeable {
			t.Fatalf("status=%s want=CHALLENGEABLE", got)
		}
	})

	t.Run("unaccepted past lock is expired", func(t *testing.T) {
		ch := newTestChallenge(now)
		if got := DeriveStatus(ch, ch.LockTime); got != StatusExpired {
			t.Fatalf("status=%s want=EXPIRED", got)
		}
	})

	t.Run("accepted lifecycle", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		steps := []struct {
			at   time.Time
			want Status
		}{
			{now, StatusAccepted},
			{ch.LockTime, StatusLocked},
			{ch.SettlementStartTime, StatusSettleable},
			{ch.SettlementEndTime, StatusSettleable},
			{ch.SettlementEndTime.Add(time.Second), StatusExpired},
		}
		for _, s := range steps {
			if got := DeriveStatus(ch, s.at); got != s.want {
				t.Fatalf("at %v: status=%s want=%s", s.at, got, s.want)
			}
		}
	})

	t.Run("settled and cancelled", func(t *testing.T) {
		ch := acceptedChallenge(now, decimal.NewFromInt(3100))
		if _, err := Settle(ch, ch.SettlementStartTime, outsider, decimal.NewFromInt(3050)); err != nil {
			t.Fatalf("settle: %v", err)
		}
		if got := DeriveStatus(ch, ch.SettlementStartTime); got != StatusSettled {
			t.Fatalf("status=%s want=SETTLED", got)
		}

		ch2 := newTestChallenge(now)
		if _, err := Cancel(ch2, creator); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got := DeriveStatus(ch2, now); got != StatusVoid {
			t.Fatalf("status=%s want=VOID", got)
		}
	})
}

func TestTerminal(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ch := newTestChallenge(now)
	if Terminal(ch, now) {
		t.Fatal("challengeable must not be terminal")
	}
	if !Terminal(ch, ch.LockTime) {
		t.Fatal("expired unaccepted must be terminal")
	}

	accepted := acceptedChallenge(now, decimal.NewFromInt(3100))
	if Terminal(accepted, accepted.SettlementEndTime) {
		t.Fatal("settleable must not be terminal")
	}
	if !Terminal(accepted, accepted.SettlementEndTime.Add(time.Second)) {
		t.Fatal("expired accepted must be terminal")
	}
}
