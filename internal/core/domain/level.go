package domain

// levelThresholds[i] is the cumulative point total required to reach
// level i+1. Levels past the table grow by a fixed step so the math stays
// defined for any point total.
var levelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500, 5500}

const levelStepBeyondTable = 1000

type LevelInfo struct {
	Level            int `json:"level"`
	ProgressPercent  int `json:"progress_percent"`
	PointsToNext     int `json:"points_to_next_level"`
	CurrentThreshold int `json:"current_threshold"`
	NextThreshold    int `json:"next_threshold"`
}

func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}

	last := len(levelThresholds) - 1
	if points >= levelThresholds[last] {
		return len(levelThresholds) + (points-levelThresholds[last])/levelStepBeyondTable
	}

	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

func thresholdForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level <= len(levelThresholds) {
		return levelThresholds[level-1]
	}
	return levelThresholds[len(levelThresholds)-1] + (level-len(levelThresholds))*levelStepBeyondTable
}

func LevelInfoForPoints(points int) LevelInfo {
	if points < 0 {
		points = 0
	}

	level := LevelForPoints(points)
	current := thresholdForLevel(level)
	next := thresholdForLevel(level + 1)

	progress := (points - current) * 100 / (next - current)
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	toNext := next - points
	if toNext < 0 {
		toNext = 0
	}

	return LevelInfo{
		Level:            level,
		ProgressPercent:  progress,
		PointsToNext:     toNext,
		CurrentThreshold: current,
		NextThreshold:    next,
	}
}
