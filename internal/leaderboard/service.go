package leaderboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/cache"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/metrics"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// GuildNamer resolves a guild code to its display name
type GuildNamer interface {
	GuildName(code string) string
}

// Service serves rankings through a read-through cache
type Service interface {
	Guilds(ctx context.Context) ([]domain.GuildStanding, error)
	TopPlayers(ctx context.Context) ([]domain.LeaderboardEntry, error)
	GuildStats(ctx context.Context, guild string) (*domain.GuildStats, error)
	// GuildRank returns the 1-based position of guild, or 0 when it has no members
	GuildRank(ctx context.Context, guild string) (int, error)
	// InvalidateForReward drops every cached aggregate a reward to participantID can change
	InvalidateForReward(ctx context.Context, participantID, guild string)
}

type service struct {
	repo      repository.Leaderboard
	cache     cache.Cache
	guilds    GuildNamer
	publisher event.Publisher
}

// NewService creates a leaderboard service. publisher may be nil.
func NewService(repo repository.Leaderboard, c cache.Cache, guilds GuildNamer, publisher event.Publisher) Service {
	return &service{
		repo:      repo,
		cache:     c,
		guilds:    guilds,
		publisher: publisher,
	}
}

// readThrough returns the cached value under key, or computes, caches and returns it
func readThrough[T any](ctx context.Context, c cache.Cache, aggregate, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	log := logger.FromContext(ctx)

	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Warn(LogMsgCacheReadFailed, "key", key, "error", err)
	}
	metrics.RecordCacheHit(aggregate, found)
	if found {
		return cached, nil
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.Warn(LogMsgCacheWriteFailed, "key", key, "error", err)
	}
	return value, nil
}

func (s *service) Guilds(ctx context.Context) ([]domain.GuildStanding, error) {
	return readThrough(ctx, s.cache, aggregateGuilds, cache.GuildLeaderboardKey, cache.LeaderboardTTL, func() ([]domain.GuildStanding, error) {
		return s.computeGuilds(ctx)
	})
}

func (s *service) computeGuilds(ctx context.Context) ([]domain.GuildStanding, error) {
	standings, err := s.repo.GetGuildStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute guild standings: %w", err)
	}
	for i := range standings {
		standings[i].Rank = i + 1
		standings[i].Name = s.guilds.GuildName(standings[i].Guild)
		standings[i].AverageLevel = roundAverage(standings[i].AverageLevel)
	}
	return standings, nil
}

func (s *service) TopPlayers(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return readThrough(ctx, s.cache, aggregatePlayers, cache.PlayersLeaderboardKey, cache.LeaderboardTTL, func() ([]domain.LeaderboardEntry, error) {
		return s.rankedPlayers(ctx, "", TopPlayersLimit)
	})
}

func (s *service) rankedPlayers(ctx context.Context, guild string, limit int) ([]domain.LeaderboardEntry, error) {
	entries, err := s.repo.GetTopPlayers(ctx, guild, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top players: %w", err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *service) GuildStats(ctx context.Context, guild string) (*domain.GuildStats, error) {
	return readThrough(ctx, s.cache, aggregateGuildStats, cache.GuildStatsKey(guild), cache.GuildStatsTTL, func() (*domain.GuildStats, error) {
		standings, err := s.Guilds(ctx)
		if err != nil {
			return nil, err
		}

		stats := &domain.GuildStats{
			GuildStanding: domain.GuildStanding{Guild: guild, Name: s.guilds.GuildName(guild)},
		}
		for _, st := range standings {
			if st.Guild == guild {
				stats.GuildStanding = st
				break
			}
		}

		members, err := s.rankedPlayers(ctx, guild, GuildTopMembers)
		if err != nil {
			return nil, err
		}
		stats.TopMembers = members
		return stats, nil
	})
}

func (s *service) GuildRank(ctx context.Context, guild string) (int, error) {
	standings, err := s.Guilds(ctx)
	if err != nil {
		return 0, err
	}
	for _, st := range standings {
		if st.Guild == guild {
			return st.Rank, nil
		}
	}
	return 0, nil
}

func (s *service) InvalidateForReward(ctx context.Context, participantID, guild string) {
	log := logger.FromContext(ctx)

	keys := cache.RewardKeys(participantID, guild)
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		// Entries still expire on their TTL
		log.Warn(LogMsgInvalidateFailed, "keys", keys, "error", err)
		return
	}
	log.Debug(LogMsgInvalidated, "keys", keys)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewLeaderboardUpdatedEvent(guild, keys))
	}
}

func roundAverage(v float64) float64 {
	return math.Round(v*averageLevelUnit) / averageLevelUnit
}
