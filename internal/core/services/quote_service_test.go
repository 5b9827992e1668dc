package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellspringhq/wellspring-engine/internal/core/services"
)

type mockCompletionClient struct {
	response string
	err      error
	calls    int
}

func (m *mockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type mockDailyCache struct {
	store    map[string]string
	getErr   error
	setErr   error
	getCalls int
}

func newMockDailyCache() *mockDailyCache {
	return &mockDailyCache{store: make(map[string]string)}
}

func (m *mockDailyCache) Get(ctx context.Context, day string) (string, error) {
	m.getCalls++
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.store[day]
	if !ok {
		return "", services.ErrCacheMiss
	}
	return v, nil
}

func (m *mockDailyCache) Set(ctx context.Context, day, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.store[day] = value
	return nil
}

func newTestQuoteService(client services.CompletionClient, cache services.DailyCache) *services.QuoteService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return services.NewQuoteService(client, cache, log).
		WithClock(func() time.Time { return testNow })
}

func TestQuoteService_DailyQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Generates once per day, then serves from cache", func(t *testing.T) {
		client := &mockCompletionClient{response: "Keep going."}
		cache := newMockDailyCache()
		svc := newTestQuoteService(client, cache)

		first, err := svc.DailyQuote(ctx)
		require.NoError(t, err)
		second, err := svc.DailyQuote(ctx)
		require.NoError(t, err)

		assert.Equal(t, "Keep going.", first)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, client.calls, "the provider is called at most once per day")
	})

	t.Run("Success: A new day regenerates", func(t *testing.T) {
		client := &mockCompletionClient{response: "Keep going."}
		cache := newMockDailyCache()
		log := logrus.New()
		log.SetLevel(logrus.PanicLevel)

		day := testNow
		svc := services.NewQuoteService(client, cache, log).
			WithClock(func() time.Time { return day })

		_, err := svc.DailyQuote(ctx)
		require.NoError(t, err)

		day = testNow.AddDate(0, 0, 1)
		_, err = svc.DailyQuote(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, client.calls)
	})

	t.Run("Success: Cache read failure degrades to the provider", func(t *testing.T) {
		client := &mockCompletionClient{response: "Keep going."}
		cache := newMockDailyCache()
		cache.getErr = errors.New("redis down")
		svc := newTestQuoteService(client, cache)

		quote, err := svc.DailyQuote(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Keep going.", quote)
	})

	t.Run("Success: Cache write failure does not fail the request", func(t *testing.T) {
		client := &mockCompletionClient{response: "Keep going."}
		cache := newMockDailyCache()
		cache.setErr = errors.New("redis down")
		svc := newTestQuoteService(client, cache)

		quote, err := svc.DailyQuote(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Keep going.", quote)
	})

	t.Run("Error: Provider failure surfaces", func(t *testing.T) {
		client := &mockCompletionClient{err: errors.New("upstream timeout")}
		svc := newTestQuoteService(client, newMockDailyCache())

		_, err := svc.DailyQuote(ctx)

		assert.Error(t, err)
	})
}

func TestStaticQuoteClient(t *testing.T) {
	client := services.NewStaticQuoteClient()

	quote, err := client.Complete(context.Background(), "ignored")

	require.NoError(t, err)
	assert.NotEmpty(t, quote)
}
