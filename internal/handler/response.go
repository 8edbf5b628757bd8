package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wagerwinz/internal/engine"
	"wagerwinz/internal/service"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// FailOp maps a lifecycle operation error onto an HTTP status, carrying the
// stable machine code in meta so clients can branch without string-matching
// the message.
func FailOp(c *gin.Context, err error) {
	meta := map[string]any{}
	if code := engine.Code(err); code != "" {
		meta["code"] = code
	}
	Error(c, opStatus(err), err.Error(), meta)
}

func opStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrChallengeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, engine.ErrInsufficientStake),
		errors.Is(err, engine.ErrStakeMismatch),
		errors.Is(err, engine.ErrLockTimeTooEarly),
		errors.Is(err, engine.ErrLockTimeTooLate),
		errors.Is(err, engine.ErrSettlementTooEarly),
		errors.Is(err, engine.ErrSettlementTooLate),
		errors.Is(err, engine.ErrTransferFailed):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrOwnChallenge),
		errors.Is(err, engine.ErrNotParticipant),
		errors.Is(err, engine.ErrNotWinner):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrPriceFeedUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, engine.ErrDuplicateActiveChallenge),
		errors.Is(err, engine.ErrAlreadyAccepted),
		errors.Is(err, engine.ErrNotYetAccepted),
		errors.Is(err, engine.ErrChallengeExpired),
		errors.Is(err, engine.ErrChallengeActive),
		errors.Is(err, engine.ErrOutsideSettlementWindow),
		errors.Is(err, engine.ErrAlreadySettled),
		errors.Is(err, engine.ErrAlreadyCancelled),
		errors.Is(err, engine.ErrAlreadyWithdrawn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func boolPtr(v bool) *bool { return &v }
