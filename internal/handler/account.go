package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wagerwinz/internal/ledger"
	"wagerwinz/internal/repository"
	"wagerwinz/internal/service"
)

type AccountHandler struct {
	Repo   repository.Repository
	Ledger *ledger.Ledger
}

func (h *AccountHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/accounts")
	group.POST("/deposit", h.deposit)
	group.GET("/:address", h.details)
}

type depositRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

func (h *AccountHandler) deposit(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "ledger unavailable", nil)
		return
	}
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	addr, err := service.NormalizeAddress(req.Address)
	if err != nil {
		FailOp(c, err)
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		Error(c, http.StatusBadRequest, "amount must be a positive wei amount", nil)
		return
	}
	acct, err := h.Ledger.Deposit(c.Request.Context(), addr, amount)
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, acct, nil)
}

func (h *AccountHandler) details(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	addr, err := service.NormalizeAddress(c.Param("address"))
	if err != nil {
		FailOp(c, err)
		return
	}
	acct, err := h.Repo.GetAccount(c.Request.Context(), addr)
	if err != nil {
		FailOp(c, err)
		return
	}
	if acct == nil {
		Error(c, http.StatusNotFound, "account not found", nil)
		return
	}
	entries, err := h.Repo.ListLedgerEntries(c.Request.Context(), repository.ListLedgerEntriesParams{
		Limit:   parseIntDefault(c.Query("limit"), 100),
		Offset:  parseIntDefault(c.Query("offset"), 0),
		Address: &addr,
	})
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, gin.H{"account": acct, "ledger": entries}, nil)
}
