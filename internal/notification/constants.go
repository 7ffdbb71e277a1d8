package notification

// Page sizes
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Log messages
const (
	LogMsgMarkedRead = "Notifications marked read"
)

// Error messages
const (
	ErrMsgListFailed     = "failed to list notifications: %w"
	ErrMsgCountFailed    = "failed to count unread notifications: %w"
	ErrMsgMarkReadFailed = "failed to mark notifications read: %w"
	ErrMsgNoIDs          = "no notification ids given"
)
