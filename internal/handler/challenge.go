package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wagerwinz/internal/repository"
	"wagerwinz/internal/service"
)

type ChallengeHandler struct {
	Service *service.ChallengeService
}

func (h *ChallengeHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/challenges")
	group.POST("", h.create)
	group.POST("/validate", h.validate)
	group.GET("", h.list)
	group.GET("/:address", h.details)
	group.GET("/:address/events", h.events)
	group.POST("/:address/accept", h.accept)
	group.POST("/:address/cancel", h.cancel)
	group.POST("/:address/settle", h.settle)
	group.POST("/:address/withdraw", h.withdraw)
}

type createChallengeRequest struct {
	Creator           string `json:"creator"`
	Prediction        string `json:"prediction"`
	LockTimeRFC3339   string `json:"lock_time"`
	SettlementRFC3339 string `json:"settlement_start_time"`
	Stake             string `json:"stake"`
}

func (r createChallengeRequest) params() (service.CreateParams, string) {
	prediction, err := decimal.NewFromString(strings.TrimSpace(r.Prediction))
	if err != nil || !prediction.IsPositive() {
		return service.CreateParams{}, "prediction must be a positive decimal"
	}
	stake, err := decimal.NewFromString(strings.TrimSpace(r.Stake))
	if err != nil || !stake.IsPositive() {
		return service.CreateParams{}, "stake must be a positive wei amount"
	}
	lockTime, err := time.Parse(time.RFC3339, strings.TrimSpace(r.LockTimeRFC3339))
	if err != nil {
		return service.CreateParams{}, "lock_time must be RFC3339"
	}
	settlementStart, err := time.Parse(time.RFC3339, strings.TrimSpace(r.SettlementRFC3339))
	if err != nil {
		return service.CreateParams{}, "settlement_start_time must be RFC3339"
	}
	return service.CreateParams{
		Creator:         r.Creator,
		Prediction:      prediction,
		LockTime:        lockTime.UTC(),
		SettlementStart: settlementStart.UTC(),
		Stake:           stake,
	}, ""
}

func (h *ChallengeHandler) create(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	params, msg := req.params()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	ch, err := h.Service.Create(c.Request.Context(), params)
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, ch, nil)
}

func (h *ChallengeHandler) validate(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	params, msg := req.params()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if err := h.Service.ValidateCreate(c.Request.Context(), params); err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, gin.H{"valid": true}, nil)
}

func (h *ChallengeHandler) list(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	params := repository.ListChallengesParams{
		Limit:   parseIntDefault(c.Query("limit"), 50),
		Offset:  parseIntDefault(c.Query("offset"), 0),
		OrderBy: strings.TrimSpace(c.Query("order_by")),
	}
	if v := strings.TrimSpace(c.Query("creator")); v != "" {
		addr, err := service.NormalizeAddress(v)
		if err != nil {
			FailOp(c, err)
			return
		}
		params.Creator = &addr
	}
	if v := strings.TrimSpace(c.Query("challenger")); v != "" {
		addr, err := service.NormalizeAddress(v)
		if err != nil {
			FailOp(c, err)
			return
		}
		params.Challenger = &addr
	}
	if v := strings.TrimSpace(c.Query("active")); v != "" {
		params.Active = boolPtr(v == "true" || v == "1")
	}
	if v := strings.TrimSpace(c.Query("settled")); v != "" {
		params.Settled = boolPtr(v == "true" || v == "1")
	}
	if v := strings.TrimSpace(c.Query("asc")); v != "" {
		params.Asc = boolPtr(v == "true" || v == "1")
	}
	out, err := h.Service.List(c.Request.Context(), params)
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, out.Items, map[string]any{
		"total":  out.Total,
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

func (h *ChallengeHandler) details(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	out, err := h.Service.Details(c.Request.Context(), c.Param("address"))
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, out, nil)
}

func (h *ChallengeHandler) events(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	addr, err := service.NormalizeAddress(c.Param("address"))
	if err != nil {
		FailOp(c, err)
		return
	}
	params := repository.ListChallengeEventsParams{
		Limit:            parseIntDefault(c.Query("limit"), 100),
		Offset:           parseIntDefault(c.Query("offset"), 0),
		ChallengeAddress: &addr,
	}
	if v := strings.TrimSpace(c.Query("type")); v != "" {
		params.Type = &v
	}
	rows, err := h.Service.Events(c.Request.Context(), params)
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, rows, nil)
}

type acceptRequest struct {
	Challenger string `json:"challenger"`
	Prediction string `json:"prediction"`
	Stake      string `json:"stake"`
}

func (h *ChallengeHandler) accept(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	prediction, err := decimal.NewFromString(strings.TrimSpace(req.Prediction))
	if err != nil || !prediction.IsPositive() {
		Error(c, http.StatusBadRequest, "prediction must be a positive decimal", nil)
		return
	}
	stake, err := decimal.NewFromString(strings.TrimSpace(req.Stake))
	if err != nil || !stake.IsPositive() {
		Error(c, http.StatusBadRequest, "stake must be a positive wei amount", nil)
		return
	}
	ch, err := h.Service.Accept(c.Request.Context(), c.Param("address"), req.Challenger, prediction, stake)
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, ch, nil)
}

type callerRequest struct {
	Caller string `json:"caller"`
}

func (h *ChallengeHandler) cancel(c *gin.Context) {
	h.callerOp(c, func(addr, caller string) (any, error) {
		return h.Service.Cancel(c.Request.Context(), addr, caller)
	})
}

func (h *ChallengeHandler) settle(c *gin.Context) {
	h.callerOp(c, func(addr, caller string) (any, error) {
		return h.Service.Settle(c.Request.Context(), addr, caller)
	})
}

func (h *ChallengeHandler) withdraw(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	ch, amount, err := h.Service.Withdraw(c.Request.Context(), c.Param("address"), req.Caller)
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, ch, map[string]any{"amount": amount.String()})
}

func (h *ChallengeHandler) callerOp(c *gin.Context, op func(addr, caller string) (any, error)) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	out, err := op(c.Param("address"), req.Caller)
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, out, nil)
}

func parseIntDefault(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
