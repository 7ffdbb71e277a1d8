package stats

// aggregateParticipant labels participant stats cache lookups in metrics
const aggregateParticipant = "participant"

// Log messages
const (
	LogMsgCacheReadFailed  = "Stats cache read failed, recomputing"
	LogMsgCacheWriteFailed = "Stats cache write failed"
	LogMsgInvalidateFailed = "Stats cache invalidation failed"
	LogMsgDecodeFailed     = "Failed to decode event payload"
)

// Error messages
const (
	ErrMsgLoadProfileFailed = "failed to load profile: %w"
	ErrMsgCountFailed       = "failed to count %s: %w"
	ErrMsgGuildRankFailed   = "failed to compute guild rank: %w"
)
