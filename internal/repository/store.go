package repository

import (
	"context"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

// Participant defines the interface for profile persistence
type Participant interface {
	UpsertProfile(ctx context.Context, profile *domain.ParticipantProfile) error
	GetProfile(ctx context.Context, participantID string) (*domain.ParticipantProfile, error)
}

// Quest defines the interface for quest and attempt persistence
type Quest interface {
	GetQuest(ctx context.Context, questID string) (*domain.Quest, error)
	// ListActiveQuests returns active quests not expired at now, newest first
	ListActiveQuests(ctx context.Context, now time.Time, filter domain.QuestFilter) ([]domain.Quest, error)
	CreateQuest(ctx context.Context, quest *domain.Quest) error

	GetAttempt(ctx context.Context, participantID, questID string) (*domain.QuestAttempt, error)
	GetAttemptByID(ctx context.Context, attemptID string) (*domain.QuestAttempt, error)
	ListAttempts(ctx context.Context, participantID string) ([]domain.QuestAttempt, error)
	GetAttemptHistory(ctx context.Context, participantID string, limit int) ([]domain.AttemptHistoryEntry, error)

	BeginQuestTx(ctx context.Context) (QuestTx, error)
}

// Achievement defines the interface for unlock reads and the re-check transaction
type Achievement interface {
	ListUnlocks(ctx context.Context, participantID string) ([]domain.AchievementUnlock, error)
	BeginProgressTx(ctx context.Context) (ProgressTx, error)
}

// Leaderboard computes rankings from profiles
type Leaderboard interface {
	// GetGuildStandings returns every guild with members, ordered by total XP desc
	GetGuildStandings(ctx context.Context) ([]domain.GuildStanding, error)
	// GetTopPlayers returns profiles by XP desc; an empty guild means all guilds
	GetTopPlayers(ctx context.Context, guild string, limit int) ([]domain.LeaderboardEntry, error)
}

// Stats provides the counters behind participant stats
type Stats interface {
	CountCompletedAttempts(ctx context.Context, participantID string) (int, error)
	CountUnlockedAchievements(ctx context.Context, participantID string) (int, error)
}

// Notification defines the interface for the inbox
type Notification interface {
	ListNotifications(ctx context.Context, participantID string, limit int) ([]domain.Notification, error)
	CountUnreadNotifications(ctx context.Context, participantID string) (int, error)
	MarkNotificationsRead(ctx context.Context, participantID string, ids []string) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, participantID string) (int64, error)
}

// Economy defines the interface for gold debits
type Economy interface {
	BeginEconomyTx(ctx context.Context) (EconomyTx, error)
}

// Store is the full record store. Both the postgres and in-memory backends implement it.
type Store interface {
	Participant
	Quest
	Achievement
	Leaderboard
	Stats
	Notification
	Economy
	Ping(ctx context.Context) error
	Close()
}
