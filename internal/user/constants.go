package user

// Limits
const (
	MaxDisplayNameLength = 64
)

// Log messages
const (
	LogMsgRegisterCalled      = "Register called"
	LogMsgParticipantUpserted = "Participant registered"
	LogErrUpsertFailed        = "Failed to upsert participant"
)

// Error messages
const (
	ErrMsgIDRequired          = "participant id is required"
	ErrMsgDisplayNameRequired = "display name is required"
	ErrMsgDisplayNameTooLong  = "display name is too long"
	ErrMsgUpsertFailed        = "failed to register participant: %w"
)
