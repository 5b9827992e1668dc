package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wellspringhq/wellspring-engine/internal/adapters/handler/http/middleware"
	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

type HabitHandler struct {
	svc      *services.HabitService
	progress *services.ProgressService
}

func NewHabitHandler(svc *services.HabitService, progress *services.ProgressService) *HabitHandler {
	return &HabitHandler{
		svc:      svc,
		progress: progress,
	}
}

type createHabitRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	Weekdays            []int  `json:"weekdays"`
	PointsPerCompletion int    `json:"points_per_completion"`
	StreakBonus         int    `json:"streak_bonus"`
}

type updateHabitRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	Weekdays            []int  `json:"weekdays"`
	PointsPerCompletion int    `json:"points_per_completion"`
	StreakBonus         int    `json:"streak_bonus"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type removeCompletionRequest struct {
	Date string `json:"date" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/complete", h.Complete)
		habits.DELETE("/:id/complete", h.RemoveCompletion)
		habits.PUT("/:id/status", h.SetStatus)
		habits.GET("/:id/streak", h.GetStreak)
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateHabitInput{
		UserID:              userID,
		Name:                req.Name,
		Description:         req.Description,
		Category:            req.Category,
		Weekdays:            req.Weekdays,
		PointsPerCompletion: req.PointsPerCompletion,
		StreakBonus:         req.StreakBonus,
	}

	habit, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habit, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateHabitInput{
		ID:                  c.Param("id"),
		UserID:              userID,
		Name:                req.Name,
		Description:         req.Description,
		Category:            req.Category,
		Weekdays:            req.Weekdays,
		PointsPerCompletion: req.PointsPerCompletion,
		StreakBonus:         req.StreakBonus,
	}

	habit, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Complete routes the completion through the progress aggregator so the
// points, streaks and achievements all move in the same pass.
func (h *HabitHandler) Complete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	input := services.ProcessActivityInput{
		UserID:  userID,
		Kind:    domain.ActivityHabitCompletion,
		HabitID: c.Param("id"),
	}

	result, err := h.progress.ProcessActivity(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *HabitHandler) RemoveCompletion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req removeCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	if err := h.svc.RemoveCompletion(c.Request.Context(), c.Param("id"), userID, day); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) SetStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), userID, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) GetStreak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	streak, err := h.progress.GetHabitStreak(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, streak)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
