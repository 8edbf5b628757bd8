package handler

import (
	"fmt"
	"net/http"
	"testing"

	"wagerwinz/internal/engine"
	"wagerwinz/internal/service"
)

func TestOpStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrChallengeNotFound, http.StatusNotFound},
		{service.ErrInvalidAddress, http.StatusBadRequest},
		{engine.ErrInsufficientStake, http.StatusBadRequest},
		{engine.ErrTransferFailed, http.StatusBadRequest},
		{engine.ErrNotWinner, http.StatusForbidden},
		{engine.ErrOwnChallenge, http.StatusForbidden},
		{engine.ErrPriceFeedUnavailable, http.StatusBadGateway},
		{engine.ErrDuplicateActiveChallenge, http.StatusConflict},
		{engine.ErrOutsideSettlementWindow, http.StatusConflict},
		{engine.ErrAlreadyWithdrawn, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", engine.ErrStakeMismatch), http.StatusBadRequest},
		{fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := opStatus(tc.err); got != tc.want {
			t.Fatalf("opStatus(%v)=%d want=%d", tc.err, got, tc.want)
		}
	}
}
