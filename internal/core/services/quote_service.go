package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by a DailyCache when no value exists for the
// requested day.
var ErrCacheMiss = errors.New("daily cache miss")

// CompletionClient is the request/response contract with the external
// text-completion provider.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DailyCache stores one value per calendar day. Injected rather than held
// in package scope so lifecycle and invalidation stay testable.
type DailyCache interface {
	Get(ctx context.Context, day string) (string, error)
	Set(ctx context.Context, day, value string) error
}

const quotePrompt = "Write one short, encouraging wellness coaching message for today. " +
	"Two sentences at most, no preamble."

type QuoteService struct {
	client CompletionClient
	cache  DailyCache
	log    *logrus.Logger
	now    func() time.Time
}

func NewQuoteService(client CompletionClient, cache DailyCache, log *logrus.Logger) *QuoteService {
	return &QuoteService{
		client: client,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *QuoteService) WithClock(now func() time.Time) *QuoteService {
	s.now = now
	return s
}

// DailyQuote returns the coaching quote for the current calendar day,
// generating it at most once per day. Cache failures degrade to calling
// the provider; they never fail the request.
func (s *QuoteService) DailyQuote(ctx context.Context) (string, error) {
	day := s.now().UTC().Format("2006-01-02")

	cached, err := s.cache.Get(ctx, day)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.WithError(err).Warn("Quote cache read failed")
	}

	quote, err := s.client.Complete(ctx, quotePrompt)
	if err != nil {
		return "", fmt.Errorf("quote service: completion failed: %w", err)
	}

	if err := s.cache.Set(ctx, day, quote); err != nil {
		s.log.WithError(err).Warn("Quote cache write failed")
	}

	return quote, nil
}

// StaticQuoteClient is the in-process fallback provider: a fixed rotation
// keyed by day so the service works without the external API configured.
type StaticQuoteClient struct {
	quotes []string
	now    func() time.Time
}

func NewStaticQuoteClient() *StaticQuoteClient {
	return &StaticQuoteClient{
		quotes: []string{
			"Small steps still move you forward. Pick one thing and do it today.",
			"Your streak is built one ordinary day at a time. Today counts.",
			"Rest is part of the work. Check in with yourself before you push on.",
			"Progress over perfection. Log it, learn from it, let it go.",
			"You showed up yesterday. Showing up today is how momentum happens.",
			"A five minute habit done daily beats an hour done never.",
			"Notice one thing you are grateful for before the day gets loud.",
		},
		now: time.Now,
	}
}

func (c *StaticQuoteClient) Complete(ctx context.Context, prompt string) (string, error) {
	day := c.now().UTC().YearDay()
	return c.quotes[day%len(c.quotes)], nil
}
