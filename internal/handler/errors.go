package handler

// Generic HTTP error messages for client responses.
// Internal failures never expose the underlying error text.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidDifficulty     = "Invalid difficulty parameter"
	ErrMsgNothingToMark         = "Provide notification ids or set all"
	ErrMsgUnknownGuild          = "Unknown guild"
	ErrMsgMissingParticipant    = "Missing " + HeaderParticipantID + " header"

	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgRetryLater         = "The request conflicted with another update. Please retry."
	ErrMsgEvidenceDisabled   = "Evidence uploads are not configured"
)

// Success messages for API responses
const (
	MsgNotificationsMarkedRead = "Notifications marked as read"
)

// Headers
const (
	// HeaderParticipantID carries the caller identity resolved by the upstream identity provider
	HeaderParticipantID = "X-Participant-ID"
	HeaderRetryAfter    = "Retry-After"

	retryAfterSeconds = "1"
)

// Log messages
const (
	LogMsgRequestFailed     = "Request failed"
	LogMsgRequestRejected   = "Request rejected"
	LogMsgDecodeFailed      = "Failed to decode %s request"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response buffer"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgQuestCreated      = "Quest created via API"
	LogMsgCompletionHandled = "Quest completion handled"

	LogMsgParticipantRegistered = "Participant registered via API"
	LogMsgPurchaseHandled       = "Shop purchase handled"
)
