package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# WagerWinz Service

ETH/USD wager challenges: create a prediction, stake ETH, let a challenger
match it, settle against the price feed inside the settlement window.

## Routes

- GET  /healthz
- GET  /readyz
- GET  /api/v1/factory
- POST /api/v1/challenges
- POST /api/v1/challenges/validate
- GET  /api/v1/challenges
- GET  /api/v1/challenges/:address
- GET  /api/v1/challenges/:address/events
- POST /api/v1/challenges/:address/accept
- POST /api/v1/challenges/:address/cancel
- POST /api/v1/challenges/:address/settle
- POST /api/v1/challenges/:address/withdraw
- POST /api/v1/accounts/deposit
- GET  /api/v1/accounts/:address
- GET  /api/v1/pricefeed
- GET  /api/v1/pricefeed/history
- GET  /ws/events

## Amounts

All stakes and balances are wei strings. Predictions are ETH/USD prices
with up to 8 decimal places. Errors carry a stable machine code in
meta.code (e.g. stake_mismatch, outside_settlement_window).
`)
	})
}
