package http_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/wellspringhq/wellspring-engine/internal/adapters/handler/http"
	"github.com/wellspringhq/wellspring-engine/internal/adapters/cache"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

func TestQuoteHandler_Today(t *testing.T) {
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	svc := services.NewQuoteService(services.NewStaticQuoteClient(), cache.NewMemoryDailyCache(), log)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.NewQuoteHandler(svc).RegisterRoutes(api)

	f := &handlerFixture{router: router}

	first := f.do(t, http.MethodGet, "/api/v1/quote/today", nil)
	require.Equal(t, http.StatusOK, first.Code)

	var resp struct {
		Quote string `json:"quote"`
	}
	decode(t, first, &resp)
	assert.NotEmpty(t, resp.Quote)

	second := f.do(t, http.MethodGet, "/api/v1/quote/today", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String(), "same day serves the cached quote")
}
