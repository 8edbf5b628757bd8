package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wagerwinz/internal/oracle"
	"wagerwinz/internal/repository"
)

type PriceFeedHandler struct {
	Feed oracle.PriceFeed
	Repo repository.Repository
}

func (h *PriceFeedHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/pricefeed", h.latest)
	r.GET("/api/v1/pricefeed/history", h.history)
}

func (h *PriceFeedHandler) latest(c *gin.Context) {
	if h.Feed == nil {
		Error(c, http.StatusInternalServerError, "feed unavailable", nil)
		return
	}
	reading, err := h.Feed.LatestRound(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, reading, nil)
}

func (h *PriceFeedHandler) history(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	rows, err := h.Repo.ListPriceSamples(c.Request.Context(), parseIntDefault(c.Query("limit"), 100))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, rows, nil)
}
