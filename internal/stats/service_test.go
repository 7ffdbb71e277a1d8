package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CampusQuest_Go/internal/cache"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) UpsertProfile(ctx context.Context, profile *domain.ParticipantProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockRepository) GetProfile(ctx context.Context, participantID string) (*domain.ParticipantProfile, error) {
	args := m.Called(ctx, participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	p := *args.Get(0).(*domain.ParticipantProfile)
	return &p, args.Error(1)
}

func (m *MockRepository) CountCompletedAttempts(ctx context.Context, participantID string) (int, error) {
	args := m.Called(ctx, participantID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CountUnlockedAchievements(ctx context.Context, participantID string) (int, error) {
	args := m.Called(ctx, participantID)
	return args.Int(0), args.Error(1)
}

type MockRanker struct {
	mock.Mock
}

func (m *MockRanker) GuildRank(ctx context.Context, guild string) (int, error) {
	args := m.Called(ctx, guild)
	return args.Int(0), args.Error(1)
}

func setup() (*MockRepository, *MockRanker, Service) {
	repo := &MockRepository{}
	ranker := &MockRanker{}
	return repo, ranker, NewService(repo, cache.NewMemoryCache(16, 0), ranker)
}

func TestGetParticipantStats_ComputesAndCaches(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	repo, ranker, svc := setup()
	repo.On("GetProfile", mock.Anything, "p1").Return(&domain.ParticipantProfile{
		ID: "p1", DisplayName: "Ana", Guild: "CCSICT", XP: 2250, Gold: 40, ActivityStreak: 3,
	}, nil).Once()
	repo.On("CountCompletedAttempts", mock.Anything, "p1").Return(7, nil).Once()
	repo.On("CountUnlockedAchievements", mock.Anything, "p1").Return(2, nil).Once()
	ranker.On("GuildRank", mock.Anything, "CCSICT").Return(3, nil).Once()

	// ACT
	first, err := svc.GetParticipantStats(ctx, "p1")
	require.NoError(t, err)
	second, err := svc.GetParticipantStats(ctx, "p1")
	require.NoError(t, err)

	// ASSERT
	assert.Equal(t, 3, first.Level)
	assert.Equal(t, 0.25, first.LevelProgress)
	assert.Equal(t, int64(750), first.XPToNextLevel)
	assert.Equal(t, 7, first.QuestsCompleted)
	assert.Equal(t, 2, first.AchievementsUnlocked)
	assert.Equal(t, 3, first.GuildRank)
	assert.Equal(t, "Ana", first.DisplayName)
	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
	ranker.AssertExpectations(t)
}

func TestGetParticipantStats_InvalidateRecomputes(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	repo, ranker, svc := setup()
	repo.On("GetProfile", mock.Anything, "p1").Return(&domain.ParticipantProfile{ID: "p1", Guild: "COE", Gold: 500}, nil).Once()
	repo.On("GetProfile", mock.Anything, "p1").Return(&domain.ParticipantProfile{ID: "p1", Guild: "COE", Gold: 200}, nil).Once()
	repo.On("CountCompletedAttempts", mock.Anything, "p1").Return(0, nil)
	repo.On("CountUnlockedAchievements", mock.Anything, "p1").Return(0, nil)
	ranker.On("GuildRank", mock.Anything, "COE").Return(1, nil)

	before, err := svc.GetParticipantStats(ctx, "p1")
	require.NoError(t, err)

	// ACT
	handler := NewEventHandler(svc)
	bus := event.NewMemoryBus()
	handler.Register(bus)
	require.NoError(t, bus.Publish(ctx, event.NewShopPurchaseEvent(domain.ShopPurchasePayload{ParticipantID: "p1", ItemID: "frame-bronze", Price: 300})))
	after, err := svc.GetParticipantStats(ctx, "p1")

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, int64(500), before.Gold)
	assert.Equal(t, int64(200), after.Gold)
	repo.AssertNumberOfCalls(t, "GetProfile", 2)
}

func TestGetParticipantStats_Errors(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(*MockRepository, *MockRanker)
		wantErr error
	}{
		{
			name: "unknown participant",
			arrange: func(repo *MockRepository, _ *MockRanker) {
				repo.On("GetProfile", mock.Anything, "p1").Return(nil, domain.ErrParticipantNotFound)
				repo.On("CountCompletedAttempts", mock.Anything, "p1").Return(0, nil)
				repo.On("CountUnlockedAchievements", mock.Anything, "p1").Return(0, nil)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "count fails",
			arrange: func(repo *MockRepository, _ *MockRanker) {
				repo.On("GetProfile", mock.Anything, "p1").Return(&domain.ParticipantProfile{ID: "p1"}, nil)
				repo.On("CountCompletedAttempts", mock.Anything, "p1").Return(0, errors.New("db down"))
				repo.On("CountUnlockedAchievements", mock.Anything, "p1").Return(0, nil)
			},
		},
		{
			name: "rank fails",
			arrange: func(repo *MockRepository, ranker *MockRanker) {
				repo.On("GetProfile", mock.Anything, "p1").Return(&domain.ParticipantProfile{ID: "p1", Guild: "CAS"}, nil)
				repo.On("CountCompletedAttempts", mock.Anything, "p1").Return(0, nil)
				repo.On("CountUnlockedAchievements", mock.Anything, "p1").Return(0, nil)
				ranker.On("GuildRank", mock.Anything, "CAS").Return(0, errors.New("cache down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			repo, ranker, svc := setup()
			tt.arrange(repo, ranker)

			// ACT
			stats, err := svc.GetParticipantStats(context.Background(), "p1")

			// ASSERT
			require.Error(t, err)
			assert.Nil(t, stats)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
