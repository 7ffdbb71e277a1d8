package progression

// Level returns the level for a total XP using level = floor(xp / XPPerLevel) + 1.
// Negative XP is treated as zero.
func Level(xp int64) int {
	if xp <= 0 {
		return StartingLevel
	}
	return int(xp/XPPerLevel) + StartingLevel
}

// ProgressFraction returns how far xp is through its current level, in [0, 1)
func ProgressFraction(xp int64) float64 {
	if xp <= 0 {
		return 0
	}
	return float64(xp%XPPerLevel) / float64(XPPerLevel)
}

// XPToNextLevel returns the XP still needed to reach the next level
func XPToNextLevel(xp int64) int64 {
	if xp <= 0 {
		return XPPerLevel
	}
	return XPPerLevel - xp%XPPerLevel
}

// XPForLevel returns the minimum total XP at which level is reached
func XPForLevel(level int) int64 {
	if level <= StartingLevel {
		return 0
	}
	return int64(level-StartingLevel) * XPPerLevel
}
