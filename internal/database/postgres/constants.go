package postgres

// Postgres SQLSTATE codes
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Attempt statuses as stored; expired is derived at read time and never written
const (
	statusInProgress = "in_progress"
	statusCompleted  = "completed"
)

// Error messages
const (
	ErrMsgBeginTxFailed     = "failed to begin transaction: %w"
	ErrMsgQueryFailed       = "failed to %s: %w"
	ErrMsgEncodeFailed      = "failed to encode %s: %w"
	ErrMsgDecodeQuestFailed = "failed to decode quest %s: %w"
)
