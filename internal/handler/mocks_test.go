package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/evidence"
	"github.com/osse101/CampusQuest_Go/internal/quest"
	"github.com/osse101/CampusQuest_Go/internal/user"
)

// MockQuestService mocks the quest.Service interface
type MockQuestService struct {
	mock.Mock
}

func (m *MockQuestService) ListAvailable(ctx context.Context, filter domain.QuestFilter) ([]domain.Quest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quest), args.Error(1)
}

func (m *MockQuestService) Attempts(ctx context.Context, participantID string) ([]domain.QuestAttempt, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuestAttempt), args.Error(1)
}

func (m *MockQuestService) Create(ctx context.Context, authorID string, input quest.CreateQuestInput) (*domain.Quest, error) {
	args := m.Called(ctx, authorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quest), args.Error(1)
}

func (m *MockQuestService) Accept(ctx context.Context, participantID, questID string) (*domain.QuestAttempt, error) {
	args := m.Called(ctx, participantID, questID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestAttempt), args.Error(1)
}

func (m *MockQuestService) SubmitCompletion(ctx context.Context, participantID, questID string, proof domain.SubmittedProof) (*domain.CompletionResult, error) {
	args := m.Called(ctx, participantID, questID, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionResult), args.Error(1)
}

func (m *MockQuestService) Review(ctx context.Context, reviewerID, attemptID string, approve bool, note string) (*domain.ReviewResult, error) {
	args := m.Called(ctx, reviewerID, attemptID, approve, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewResult), args.Error(1)
}

func (m *MockQuestService) EvidenceReference(ctx context.Context, viewerID, attemptID string) (string, error) {
	args := m.Called(ctx, viewerID, attemptID)
	return args.String(0), args.Error(1)
}

func (m *MockQuestService) History(ctx context.Context, participantID string) (*domain.QuestHistory, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestHistory), args.Error(1)
}

// MockEvidenceService mocks the evidence.Service interface
type MockEvidenceService struct {
	mock.Mock
}

func (m *MockEvidenceService) UploadURL(ctx context.Context, participantID, questID, contentType string) (*evidence.Upload, error) {
	args := m.Called(ctx, participantID, questID, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*evidence.Upload), args.Error(1)
}

func (m *MockEvidenceService) ViewURL(ctx context.Context, reference string) (*evidence.View, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*evidence.View), args.Error(1)
}

// MockUserService mocks the user.Service interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input user.RegisterInput) (*domain.ParticipantProfile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParticipantProfile), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, participantID string) (*domain.ParticipantProfile, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParticipantProfile), args.Error(1)
}

// MockStatsService mocks the stats.Service interface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetParticipantStats(ctx context.Context, participantID string) (*domain.ParticipantStats, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParticipantStats), args.Error(1)
}

func (m *MockStatsService) InvalidateParticipant(ctx context.Context, participantID string) {
	m.Called(ctx, participantID)
}

// MockEconomyService mocks the economy.Service interface
type MockEconomyService struct {
	mock.Mock
}

func (m *MockEconomyService) Catalog(ctx context.Context) []domain.ShopItem {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ShopItem)
}

func (m *MockEconomyService) Purchase(ctx context.Context, participantID, itemID string) (*domain.PurchaseResult, error) {
	args := m.Called(ctx, participantID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseResult), args.Error(1)
}

// MockNotificationService mocks the notification.Service interface
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, participantID string, limit int) (*domain.NotificationInbox, error) {
	args := m.Called(ctx, participantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationInbox), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, participantID string, ids []string) (int64, error) {
	args := m.Called(ctx, participantID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, participantID string) (int64, error) {
	args := m.Called(ctx, participantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAchievementService mocks the achievement.Service interface
type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) List(ctx context.Context, participantID string) ([]domain.AchievementStatus, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AchievementStatus), args.Error(1)
}

func (m *MockAchievementService) Check(ctx context.Context, participantID string) ([]domain.Achievement, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Achievement), args.Error(1)
}

// MockLeaderboardService mocks the leaderboard.Service interface
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Guilds(ctx context.Context) ([]domain.GuildStanding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuildStanding), args.Error(1)
}

func (m *MockLeaderboardService) TopPlayers(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardService) GuildStats(ctx context.Context, guild string) (*domain.GuildStats, error) {
	args := m.Called(ctx, guild)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuildStats), args.Error(1)
}

func (m *MockLeaderboardService) GuildRank(ctx context.Context, guild string) (int, error) {
	args := m.Called(ctx, guild)
	return args.Int(0), args.Error(1)
}

func (m *MockLeaderboardService) InvalidateForReward(ctx context.Context, participantID, guild string) {
	m.Called(ctx, participantID, guild)
}
