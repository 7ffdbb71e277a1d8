package stats

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/CampusQuest_Go/internal/cache"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/metrics"
	"github.com/osse101/CampusQuest_Go/internal/progression"
)

// GuildRanker returns the 1-based leaderboard position of a guild
type GuildRanker interface {
	GuildRank(ctx context.Context, guild string) (int, error)
}

// Service defines the interface for participant stats
type Service interface {
	GetParticipantStats(ctx context.Context, participantID string) (*domain.ParticipantStats, error)
	InvalidateParticipant(ctx context.Context, participantID string)
}

type service struct {
	repo   Repository
	cache  cache.Cache
	ranker GuildRanker
}

// NewService creates a new stats service
func NewService(repo Repository, c cache.Cache, ranker GuildRanker) Service {
	return &service{
		repo:   repo,
		cache:  c,
		ranker: ranker,
	}
}

func (s *service) GetParticipantStats(ctx context.Context, participantID string) (*domain.ParticipantStats, error) {
	log := logger.FromContext(ctx)
	key := cache.ParticipantRankKey(participantID)

	var cached domain.ParticipantStats
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn(LogMsgCacheReadFailed, "key", key, "error", err)
	}
	metrics.RecordCacheHit(aggregateParticipant, found)
	if found {
		return &cached, nil
	}

	stats, err := s.compute(ctx, participantID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, stats, cache.ParticipantStatsTTL); err != nil {
		log.Warn(LogMsgCacheWriteFailed, "key", key, "error", err)
	}
	return stats, nil
}

func (s *service) compute(ctx context.Context, participantID string) (*domain.ParticipantStats, error) {
	var (
		profile      *domain.ParticipantProfile
		completed    int
		achievements int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.GetProfile(gctx, participantID)
		if err != nil {
			return fmt.Errorf(ErrMsgLoadProfileFailed, err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountCompletedAttempts(gctx, participantID)
		if err != nil {
			return fmt.Errorf(ErrMsgCountFailed, "completed quests", err)
		}
		completed = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountUnlockedAchievements(gctx, participantID)
		if err != nil {
			return fmt.Errorf(ErrMsgCountFailed, "achievements", err)
		}
		achievements = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rank, err := s.ranker.GuildRank(ctx, profile.Guild)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGuildRankFailed, err)
	}

	return &domain.ParticipantStats{
		ParticipantID:        profile.ID,
		DisplayName:          profile.DisplayName,
		Guild:                profile.Guild,
		XP:                   profile.XP,
		Gold:                 profile.Gold,
		Level:                progression.Level(profile.XP),
		LevelProgress:        progression.ProgressFraction(profile.XP),
		XPToNextLevel:        progression.XPToNextLevel(profile.XP),
		ActivityStreak:       profile.ActivityStreak,
		QuestsCompleted:      completed,
		AchievementsUnlocked: achievements,
		GuildRank:            rank,
	}, nil
}

func (s *service) InvalidateParticipant(ctx context.Context, participantID string) {
	key := cache.ParticipantRankKey(participantID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidateFailed, "key", key, "error", err)
	}
}
