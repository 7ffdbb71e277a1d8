package progression

import "time"

// DaysSince returns floor(hours between lastActive and now / 24).
// A last-active time in the future counts as zero days.
func DaysSince(lastActive, now time.Time) int {
	elapsed := now.Sub(lastActive)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / StreakDay)
}

// NextStreak applies the streak continuation policy for a reward-granting event at now:
// one day since last activity extends the streak, zero days leaves it unchanged,
// anything else (including never active) resets it to 1.
func NextStreak(current int, lastActive *time.Time, now time.Time) int {
	if lastActive == nil {
		return StreakReset
	}
	switch DaysSince(*lastActive, now) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return StreakReset
	}
}
