package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

// handleError maps domain errors onto HTTP statuses. Ownership mismatches
// come back as not-found so the API never confirms another user's data
// exists. Anything unmapped is a 500 with a generic body.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingUserID),
		errors.Is(err, domain.ErrInvalidActivity),
		errors.Is(err, domain.ErrMissingHabitID),
		errors.Is(err, domain.ErrMissingMoodLabel),
		errors.Is(err, domain.ErrInvalidMoodLabel),
		errors.Is(err, domain.ErrInvalidPoints),
		errors.Is(err, domain.ErrInvalidAwardReason),
		errors.Is(err, domain.ErrHabitNameEmpty),
		errors.Is(err, domain.ErrHabitNameTooLong),
		errors.Is(err, domain.ErrHabitDescTooLong),
		errors.Is(err, domain.ErrHabitInvalidUserID),
		errors.Is(err, domain.ErrInvalidWeekdays),
		errors.Is(err, domain.ErrInvalidHabitPoints):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrHabitNotFound),
		errors.Is(err, domain.ErrLedgerNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})

	case errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrHabitNotActive),
		errors.Is(err, domain.ErrHabitArchived),
		errors.Is(err, domain.ErrHabitConflict),
		errors.Is(err, domain.ErrLedgerConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable, retry later"})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
