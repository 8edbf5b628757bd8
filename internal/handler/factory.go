package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wagerwinz/internal/service"
)

type FactoryHandler struct {
	Service *service.ChallengeService
}

func (h *FactoryHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/factory", h.details)
}

func (h *FactoryHandler) details(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	out, err := h.Service.FactoryDetails(c.Request.Context())
	if err != nil {
		FailOp(c, err)
		return
	}
	Ok(c, out, nil)
}
