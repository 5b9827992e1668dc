package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wellspringhq/wellspring-engine/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	Update(ctx context.Context, habit *domain.Habit) error
}

type RecountJob struct {
	HabitID string
}

// RecountWorker recomputes a habit's cached streaks from its completion
// history in the background. Completions update streaks synchronously;
// this worker covers the paths that invalidate the cache after the fact,
// like removing a completion.
type RecountWorker struct {
	habits HabitRepository
	jobs   chan RecountJob
	log    *logrus.Logger
}

func NewRecountWorker(habits HabitRepository, log *logrus.Logger) *RecountWorker {
	return &RecountWorker{
		habits: habits,
		jobs:   make(chan RecountJob, 100),
		log:    log,
	}
}

func (w *RecountWorker) Start(ctx context.Context) {
	go func() {
		w.log.Info("Streak recount worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.log.Info("Streak recount worker shutting down")
				return
			}
		}
	}()
}

func (w *RecountWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- RecountJob{HabitID: habitID}:
	default:
		w.log.WithField("habit_id", habitID).Warn("Recount queue full, dropping job")
	}
}

func (w *RecountWorker) processJob(ctx context.Context, job RecountJob) {
	habit, err := w.habits.GetByID(ctx, job.HabitID)
	if err != nil {
		w.log.WithError(err).WithField("habit_id", job.HabitID).Error("Recount: fetching habit failed")
		return
	}

	before := domain.StreakState{
		CurrentStreak: habit.CurrentStreak,
		LongestStreak: habit.LongestStreak,
	}

	habit.RecountStreaks(time.Now().UTC())

	if habit.CurrentStreak == before.CurrentStreak && habit.LongestStreak == before.LongestStreak {
		return
	}

	if err := w.habits.Update(ctx, habit); err != nil {
		w.log.WithError(err).WithField("habit_id", job.HabitID).Error("Recount: updating habit failed")
		return
	}

	w.log.WithFields(logrus.Fields{
		"habit_id": job.HabitID,
		"current":  habit.CurrentStreak,
		"longest":  habit.LongestStreak,
	}).Info("Habit streaks recounted")
}
