package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a TTL key-value store for derived aggregates. Values are stored as
// JSON so both backends round-trip the same shapes.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was present
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// SchemaVersion is stored alongside every entry.
// Increment this when a cached structure changes to auto-invalidate old entries.
const SchemaVersion = "1.0"

// Keys
const (
	GuildLeaderboardKey   = "guild:leaderboard"
	PlayersLeaderboardKey = "players:leaderboard"
)

// TTLs
const (
	LeaderboardTTL      = 60 * time.Second
	GuildStatsTTL       = 120 * time.Second
	ParticipantStatsTTL = 300 * time.Second
)

// GuildStatsKey is the key for one guild's standing and top members
func GuildStatsKey(guild string) string {
	return fmt.Sprintf("guild:%s:stats", guild)
}

// ParticipantRankKey is the key for one participant's stats and guild rank
func ParticipantRankKey(participantID string) string {
	return fmt.Sprintf("user:%s:rank", participantID)
}

// RewardKeys lists every key a reward to participantID in guild makes stale
func RewardKeys(participantID, guild string) []string {
	keys := []string{GuildLeaderboardKey, PlayersLeaderboardKey, ParticipantRankKey(participantID)}
	if guild != "" {
		keys = append(keys, GuildStatsKey(guild))
	}
	return keys
}
