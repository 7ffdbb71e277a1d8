package progression

import "time"

// Leveling curve constants
const (
	// XPPerLevel is the flat amount of XP separating consecutive levels
	XPPerLevel = 1000

	// StartingLevel is the level of a participant with zero XP
	StartingLevel = 1
)

// Streak constants
const (
	// StreakDay is the length of one streak step
	StreakDay = 24 * time.Hour

	// StreakReset is the streak value after a lapse or first activity
	StreakReset = 1
)
