package domain

import (
	"sort"
	"time"
)

type StreakState struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// DayKey strips the time-of-day component; all streak math works on
// calendar days in UTC.
func DayKey(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// StreaksAt computes the current and longest run of consecutive days in
// dates, evaluated as of now. The current streak is live only if the most
// recent day is today or yesterday; a missing entry for today does not
// break the streak until the day has fully elapsed.
func StreaksAt(dates []time.Time, now time.Time) StreakState {
	if len(dates) == 0 {
		return StreakState{}
	}

	uniqueDays := make(map[time.Time]bool, len(dates))
	var days []time.Time
	for _, d := range dates {
		key := DayKey(d)
		if !uniqueDays[key] {
			uniqueDays[key] = true
			days = append(days, key)
		}
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})

	today := DayKey(now)

	current := 0
	gap := today.Sub(days[0]).Hours() / 24
	if gap <= 1 {
		current = 1
		for i := 0; i < len(days)-1; i++ {
			if days[i].Sub(days[i+1]).Hours() == 24 {
				current++
			} else {
				break
			}
		}
	}

	longest := 1
	run := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i].Sub(days[i+1]).Hours() == 24 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	if longest < current {
		longest = current
	}

	return StreakState{CurrentStreak: current, LongestStreak: longest}
}
