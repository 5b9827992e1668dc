package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/wellspringhq/wellspring-engine/internal/adapters/handler/http"
	"github.com/wellspringhq/wellspring-engine/internal/adapters/handler/http/middleware"
	"github.com/wellspringhq/wellspring-engine/internal/adapters/repository"
	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
	"github.com/wellspringhq/wellspring-engine/internal/core/workers"
)

// handlerFixture wires the handlers against in-memory storage with a stub
// auth layer that injects a fixed user.
type handlerFixture struct {
	router  *gin.Engine
	habits  *repository.InMemoryHabitRepository
	ledgers *repository.InMemoryLedgerRepository
	records *repository.InMemoryRecordRepository
}

func newHandlerFixture(userID string) *handlerFixture {
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		habits:  repository.NewInMemoryHabitRepository(),
		ledgers: repository.NewInMemoryLedgerRepository(),
		records: repository.NewInMemoryRecordRepository(),
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	achievements := repository.NewInMemoryAchievementRepository()
	progress := services.NewProgressService(f.ledgers, achievements, f.habits, f.records, log)

	worker := workers.NewRecountWorker(f.habits, log)
	habitSvc := services.NewHabitService(f.habits, worker)
	recordSvc := services.NewRecordService(f.records)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})

	handler.NewActivityHandler(progress).RegisterRoutes(api)
	handler.NewHabitHandler(habitSvc, progress).RegisterRoutes(api)
	handler.NewRecordHandler(recordSvc).RegisterRoutes(api)

	f.router = router
	return f
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestActivityHandler_ProcessActivity(t *testing.T) {
	t.Run("Success: Mood entry returns the consolidated result", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodPost, "/api/v1/activities", gin.H{
			"kind":       "mood_entry",
			"mood_label": "happy",
			"note":       "good day",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result domain.ActivityResult
		decode(t, w, &result)
		assert.Equal(t, 5, result.PointsAwarded)
		assert.Equal(t, 1, result.CurrentStreak)
		require.Len(t, result.NewAchievements, 1)
		assert.Equal(t, "mood_first", result.NewAchievements[0].AchievementID)
	})

	t.Run("Error: Missing body", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodPost, "/api/v1/activities", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error: Unknown kind maps to 400", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodPost, "/api/v1/activities", gin.H{"kind": "nap"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error: Mood entry without label maps to 400", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodPost, "/api/v1/activities", gin.H{"kind": "mood_entry"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestActivityHandler_GetProgress(t *testing.T) {
	t.Run("Success: Fresh user gets a zeroed snapshot", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodGet, "/api/v1/progress", nil)

		require.Equal(t, http.StatusOK, w.Code)

		var snap struct {
			Ledger struct {
				Points int `json:"points"`
				Level  int `json:"level"`
			} `json:"ledger"`
			LevelInfo domain.LevelInfo `json:"level_info"`
		}
		decode(t, w, &snap)
		assert.Equal(t, 0, snap.Ledger.Points)
		assert.Equal(t, 1, snap.LevelInfo.Level)
		assert.Equal(t, 100, snap.LevelInfo.PointsToNext)
	})

	t.Run("Success: Progress reflects processed activities", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodPost, "/api/v1/activities", gin.H{"kind": "challenge_completion"})
		require.Equal(t, http.StatusOK, w.Code)

		w = f.do(t, http.MethodGet, "/api/v1/progress", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snap struct {
			Ledger struct {
				Points                   int `json:"points"`
				ChallengeCompletionCount int `json:"challenge_completion_count"`
			} `json:"ledger"`
		}
		decode(t, w, &snap)
		assert.Equal(t, 1, snap.Ledger.ChallengeCompletionCount)
		assert.Equal(t, 50, snap.Ledger.Points, "25 base plus the challenge_first milestone reward")
	})
}

func TestActivityHandler_GetAchievements(t *testing.T) {
	t.Run("Success: Empty list is an empty array, not null", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodGet, "/api/v1/achievements", nil)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Achievements   []json.RawMessage `json:"achievements"`
			CatalogVersion int               `json:"catalog_version"`
		}
		decode(t, w, &resp)
		assert.NotNil(t, resp.Achievements)
		assert.Empty(t, resp.Achievements)
		assert.Equal(t, domain.CatalogVersion, resp.CatalogVersion)
		assert.Contains(t, w.Body.String(), `"achievements":[]`)
	})

	t.Run("Success: Unlocked milestones are listed", func(t *testing.T) {
		f := newHandlerFixture("u1")

		w := f.do(t, http.MethodPost, "/api/v1/activities", gin.H{
			"kind":       "mood_entry",
			"mood_label": "calm",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = f.do(t, http.MethodGet, "/api/v1/achievements", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Achievements []domain.Achievement `json:"achievements"`
		}
		decode(t, w, &resp)
		require.Len(t, resp.Achievements, 1)
		assert.Equal(t, "mood_first", resp.Achievements[0].AchievementID)
	})
}
