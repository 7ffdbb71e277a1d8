package achievement

// Notification text for unlocks
const (
	NotificationTitle  = "Achievement Unlocked! 🏆"
	NotificationFormat = "You earned %q - %s. +%d XP bonus!"
)

// Log messages
const (
	LogMsgAchievementUnlocked = "Achievement unlocked"
	LogMsgCheckCompleted      = "Achievement check completed"
)

// maxSettleRounds bounds the fixpoint loop; each round unlocks at least one entry
const maxSettleRounds = 64

// Error message formats
const (
	ErrMsgBeginTxFailed   = "failed to begin achievement transaction: %w"
	ErrMsgLoadStateFailed = "failed to load achievement state: %w"
	ErrMsgCommitFailed    = "failed to commit achievement check: %w"
)
