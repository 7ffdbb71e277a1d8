package economy

// Notification text for purchases
const (
	NotificationPurchaseTitle  = "Purchase Complete! 🛒"
	NotificationPurchaseFormat = "You purchased %s for %d gold."
)

// Database operation error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgDebitFailed             = "failed to debit gold: %w"
	ErrMsgJournalFailed           = "failed to record purchase: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
)

// Service operation log messages
const (
	LogMsgPurchaseCalled   = "Purchase called"
	LogMsgItemPurchased    = "Item purchased"
	LogMsgPurchaseRejected = "Purchase rejected"
)
