package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RecordKindMood     = "mood"
	RecordKindWellness = "wellness"
)

// MoodLabels is the fixed vocabulary a mood entry may carry. The variety
// achievements count distinct labels out of this set.
var MoodLabels = map[string]bool{
	"happy":     true,
	"calm":      true,
	"energetic": true,
	"grateful":  true,
	"tired":     true,
	"anxious":   true,
	"sad":       true,
	"stressed":  true,
}

// ActivityRecord is a mood entry or wellness check-in. Day granularity is
// what matters: RecordedFor is truncated to the calendar day.
type ActivityRecord struct {
	ID         string `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Kind       string `json:"kind" db:"kind"`
	MoodLabel  string `json:"mood_label,omitempty" db:"mood_label"`
	Activities []string `json:"activities,omitempty"`
	Note       string `json:"note,omitempty" db:"note"`

	RecordedFor time.Time  `json:"recorded_for" db:"recorded_for"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewActivityRecord(userID, kind, moodLabel, note string, activities []string, day time.Time) *ActivityRecord {
	now := time.Now().UTC()

	return &ActivityRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		Kind:        kind,
		MoodLabel:   moodLabel,
		Activities:  activities,
		Note:        note,
		RecordedFor: DayKey(day),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *ActivityRecord) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUserID
	}
	if r.Kind != RecordKindMood && r.Kind != RecordKindWellness {
		return ErrInvalidActivity
	}
	if r.Kind == RecordKindMood {
		if r.MoodLabel == "" {
			return ErrMissingMoodLabel
		}
		if !MoodLabels[r.MoodLabel] {
			return ErrInvalidMoodLabel
		}
	}
	if r.RecordedFor.IsZero() {
		return ErrInvalidActivity
	}
	return nil
}
