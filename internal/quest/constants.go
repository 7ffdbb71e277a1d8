package quest

// HistoryLimit is how many recent attempts History returns
const HistoryLimit = 50

// Notification text
const (
	NotificationCompletedTitle  = "Quest Complete! ⚔️"
	NotificationCompletedFormat = "You completed %q and earned %d XP and %d gold."
	NotificationRejectedTitle   = "Submission Rejected"
	NotificationRejectedFormat  = "Your proof for %q was not accepted. You can submit again."
	NotificationRejectedNote    = " Reviewer note: %s"
)

// Log messages
const (
	LogMsgQuestAccepted       = "Quest accepted"
	LogMsgQuestCompleted      = "Quest completed"
	LogMsgSubmissionPending   = "Quest submission awaiting review"
	LogMsgVerificationFailed  = "Quest verification failed"
	LogMsgSubmissionRejected  = "Quest submission rejected"
	LogMsgQuestCreated        = "Quest created"
	LogMsgSubmitCompletion    = "SubmitCompletion called"
	LogMsgReviewCalled        = "Review called"
)

// Error message formats
const (
	ErrMsgBeginTxFailed  = "failed to begin quest transaction: %w"
	ErrMsgCommitTxFailed = "failed to commit quest transaction: %w"
	ErrMsgTitleRequired  = "title is required"
	ErrMsgBadDifficulty  = "unknown difficulty %q"
	ErrMsgBadReward      = "rewards must not be negative"
	ErrMsgBadCapacity    = "max participants must be positive"
	ErrMsgBadWindow      = "expiry must be after start"
	ErrMsgNoEvidence     = "attempt has no submitted evidence"
	ErrMsgSelfReview     = "participants cannot review their own submission"
)
