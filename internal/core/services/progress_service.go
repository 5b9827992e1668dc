package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

// ProgressService is the aggregator that turns raw activity events into
// points, levels, streaks and achievements. Event processing is strictly
// serialized per user; different users proceed in parallel.
type ProgressService struct {
	ledgers      domain.LedgerRepository
	achievements domain.AchievementRepository
	habits       domain.HabitRepository
	records      domain.ActivityRecordRepository
	log          *logrus.Logger

	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProgressService(
	ledgers domain.LedgerRepository,
	achievements domain.AchievementRepository,
	habits domain.HabitRepository,
	records domain.ActivityRecordRepository,
	log *logrus.Logger,
) *ProgressService {
	return &ProgressService{
		ledgers:      ledgers,
		achievements: achievements,
		habits:       habits,
		records:      records,
		log:          log,
		now:          time.Now,
		locks:        make(map[string]*sync.Mutex),
	}
}

// WithClock overrides the service clock. Test hook.
func (s *ProgressService) WithClock(now func() time.Time) *ProgressService {
	s.now = now
	return s
}

func (s *ProgressService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

type ProcessActivityInput struct {
	UserID     string
	Kind       domain.ActivityKind
	HabitID    string
	MoodLabel  string
	Activities []string
	Note       string
}

func (in ProcessActivityInput) validate() error {
	if in.UserID == "" {
		return domain.ErrMissingUserID
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidActivity, in.Kind)
	}
	if in.Kind == domain.ActivityHabitCompletion && in.HabitID == "" {
		return domain.ErrMissingHabitID
	}
	if in.Kind == domain.ActivityMoodEntry {
		if in.MoodLabel == "" {
			return domain.ErrMissingMoodLabel
		}
		if !domain.MoodLabels[in.MoodLabel] {
			return domain.ErrInvalidMoodLabel
		}
	}
	return nil
}

// ProcessActivity runs one activity event through the whole pipeline:
// counters, engagement streak, points, level, achievements. The ledger
// save is the commit point for everything the event earns: unlock state
// and habit credit days travel inside the ledger, so an error return
// means no progress was committed and the same event is safe to retry.
// Rows written ahead of the commit (achievement rows, the habit's
// completion day) are credited on the retry instead of double-counted.
func (s *ProgressService) ProcessActivity(ctx context.Context, input ProcessActivityInput) (*domain.ActivityResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	lock := s.userLock(input.UserID)
	lock.Lock()
	defer lock.Unlock()

	now := s.now().UTC()

	ledger, err := s.ledgers.Get(ctx, input.UserID)
	switch {
	case errors.Is(err, domain.ErrLedgerNotFound):
		ledger, err = domain.NewProgressLedger(input.UserID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("progress service: load ledger: %w", err)
	}

	work := ledger.Clone()
	oldLevel := work.Level

	var habit *domain.Habit
	var habitStreak int
	var record *domain.ActivityRecord

	points := input.Kind.BasePoints()
	description := defaultDescription(input.Kind)

	switch input.Kind {
	case domain.ActivityHabitCompletion:
		stored, err := s.habits.GetByID(ctx, input.HabitID)
		if err != nil {
			return nil, err
		}
		if stored.UserID != input.UserID {
			return nil, domain.ErrHabitNotFound
		}

		habit = stored.Clone()
		points, err = habit.Complete(now, now)
		switch {
		case errors.Is(err, domain.ErrAlreadyCompleted):
			// The habit already carries today's completion. When the
			// ledger never credited it, an earlier attempt failed between
			// the habit write and the ledger commit; finish the credit
			// instead of rejecting the retry.
			if work.HabitCreditedOn(input.HabitID, now) {
				return nil, err
			}
			points = habit.CompletionPoints()
			habitStreak = habit.CurrentStreak
			habit = nil
		case err != nil:
			return nil, err
		default:
			habitStreak = habit.CurrentStreak
		}
		work.CreditHabit(input.HabitID, now)
		description = fmt.Sprintf("Completed habit %q", stored.Name)

	case domain.ActivityMoodEntry:
		record = domain.NewActivityRecord(input.UserID, domain.RecordKindMood, input.MoodLabel, input.Note, input.Activities, now)
		if err := record.Validate(); err != nil {
			return nil, err
		}
		work.RecordMood(input.MoodLabel)
		description = fmt.Sprintf("Logged mood %q", input.MoodLabel)

	case domain.ActivityWellnessCheckIn:
		record = domain.NewActivityRecord(input.UserID, domain.RecordKindWellness, "", input.Note, input.Activities, now)
		if err := record.Validate(); err != nil {
			return nil, err
		}
	}

	work.TouchActivityDay(now)

	if _, err := work.Award(points, input.Kind.AwardReason(), description, now); err != nil {
		return nil, err
	}

	stats := work.Stats()
	if input.Kind == domain.ActivityHabitCompletion {
		stats.HabitStreak = habitStreak
	}

	newEntries := domain.EvaluateCatalog(stats, work.Unlocked)

	var newAchievements []*domain.Achievement
	for _, entry := range newEntries {
		ach := domain.NewAchievement(input.UserID, entry, now)

		// The row may already exist: a concurrent evaluation on another
		// node, or an earlier attempt that failed before its ledger
		// commit. The unique index resolves both silently; the credit
		// still belongs to whichever ledger save wins.
		if err := s.achievements.Create(ctx, ach); err != nil && !errors.Is(err, domain.ErrAchievementExists) {
			return nil, fmt.Errorf("progress service: persist achievement: %w", err)
		}

		work.Unlock(entry.ID)
		if _, err := work.Award(entry.Points, domain.ReasonAchievement, fmt.Sprintf("Unlocked %q", entry.Name), now); err != nil {
			return nil, err
		}
		newAchievements = append(newAchievements, ach)
	}

	if habit != nil {
		if err := s.habits.Update(ctx, habit); err != nil {
			return nil, fmt.Errorf("progress service: persist habit: %w", err)
		}
	}

	if err := s.ledgers.Save(ctx, work); err != nil {
		return nil, fmt.Errorf("progress service: persist ledger: %w", err)
	}

	// Past the commit point. The record is a journal projection of the
	// already-committed event; losing one row must not fail the event.
	if record != nil {
		if err := s.records.Create(ctx, record); err != nil {
			s.log.WithError(err).WithField("user_id", input.UserID).Error("Activity record write failed after ledger commit")
		}
	}

	return &domain.ActivityResult{
		PointsAwarded:   points,
		TotalPoints:     work.Points,
		Level:           work.Level,
		LeveledUp:       work.Level > oldLevel,
		CurrentStreak:   work.CurrentStreak,
		LongestStreak:   work.LongestStreak,
		NewAchievements: newAchievements,
	}, nil
}

type ProgressSnapshot struct {
	Ledger    *domain.ProgressLedger `json:"ledger"`
	LevelInfo domain.LevelInfo       `json:"level_info"`
}

// GetProgress returns the persisted ledger plus derived level info. A user
// with no activity yet gets a fresh, unpersisted ledger.
func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*ProgressSnapshot, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}

	ledger, err := s.ledgers.Get(ctx, userID)
	if errors.Is(err, domain.ErrLedgerNotFound) {
		ledger, err = domain.NewProgressLedger(userID)
	}
	if err != nil {
		return nil, err
	}

	return &ProgressSnapshot{
		Ledger:    ledger,
		LevelInfo: domain.LevelInfoForPoints(ledger.Points),
	}, nil
}

func (s *ProgressService) GetAchievements(ctx context.Context, userID string) ([]*domain.Achievement, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	return s.achievements.ListByUserID(ctx, userID)
}

// GetHabitStreak reads the cached streak state of one habit.
func (s *ProgressService) GetHabitStreak(ctx context.Context, habitID, userID string) (domain.StreakState, error) {
	if userID == "" {
		return domain.StreakState{}, domain.ErrMissingUserID
	}

	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return domain.StreakState{}, err
	}
	if habit.UserID != userID {
		return domain.StreakState{}, domain.ErrHabitNotFound
	}

	return domain.StreakState{
		CurrentStreak: habit.CurrentStreak,
		LongestStreak: habit.LongestStreak,
	}, nil
}

func defaultDescription(kind domain.ActivityKind) string {
	switch kind {
	case domain.ActivityMoodEntry:
		return "Logged a mood entry"
	case domain.ActivityHabitCompletion:
		return "Completed a habit"
	case domain.ActivityChallengeCompletion:
		return "Completed a challenge"
	case domain.ActivityWellnessCheckIn:
		return "Wellness check-in"
	case domain.ActivityResourceCompletion:
		return "Finished a resource"
	case domain.ActivityGoalProgress:
		return "Made progress on a goal"
	case domain.ActivityGoalCompletion:
		return "Completed a goal"
	case domain.ActivityTodoCompletion:
		return "Completed a todo"
	}
	return "Activity"
}
