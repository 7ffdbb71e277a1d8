package leaderboard

// Sizes
const (
	TopPlayersLimit  = 100
	GuildTopMembers  = 10
	averageLevelUnit = 100 // two decimals
)

// Cache aggregate labels for metrics
const (
	aggregateGuilds      = "guilds"
	aggregatePlayers     = "players"
	aggregateGuildStats  = "guild_stats"
	aggregateParticipant = "participant"
)

// Log messages
const (
	LogMsgCacheReadFailed  = "Leaderboard cache read failed, recomputing"
	LogMsgCacheWriteFailed = "Leaderboard cache write failed"
	LogMsgInvalidateFailed = "Leaderboard cache invalidation failed"
	LogMsgInvalidated      = "Leaderboard cache invalidated"
)
