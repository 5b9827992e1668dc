package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

type QuoteHandler struct {
	svc *services.QuoteService
}

func NewQuoteHandler(svc *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/quote/today", h.Today)
}

func (h *QuoteHandler) Today(c *gin.Context) {
	quote, err := h.svc.DailyQuote(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "quote temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}
