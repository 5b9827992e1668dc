package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wellspringhq/wellspring-engine/internal/adapters/handler/http/middleware"
	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

// ActivityHandler exposes the single entry point that feeds the
// gamification engine plus the read-side progress queries.
type ActivityHandler struct {
	svc *services.ProgressService
}

func NewActivityHandler(svc *services.ProgressService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

type processActivityRequest struct {
	Kind       string   `json:"kind" binding:"required"`
	HabitID    string   `json:"habit_id"`
	MoodLabel  string   `json:"mood_label"`
	Activities []string `json:"activities"`
	Note       string   `json:"note"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/activities", h.ProcessActivity)
	router.GET("/progress", h.GetProgress)
	router.GET("/achievements", h.GetAchievements)
}

func (h *ActivityHandler) ProcessActivity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req processActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.ProcessActivityInput{
		UserID:     userID,
		Kind:       domain.ActivityKind(req.Kind),
		HabitID:    req.HabitID,
		MoodLabel:  req.MoodLabel,
		Activities: req.Activities,
		Note:       req.Note,
	}

	result, err := h.svc.ProcessActivity(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ActivityHandler) GetProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	snapshot, err := h.svc.GetProgress(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *ActivityHandler) GetAchievements(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	achievements, err := h.svc.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	if achievements == nil {
		achievements = []*domain.Achievement{}
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements":    achievements,
		"catalog_version": domain.CatalogVersion,
	})
}
