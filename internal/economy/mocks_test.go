package economy

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// MockRepository is a mock implementation of repository.Economy
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) BeginEconomyTx(ctx context.Context) (repository.EconomyTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.EconomyTx), args.Error(1)
}

// MockTx is a mock implementation of repository.EconomyTx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) InsertActivity(ctx context.Context, entry *domain.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockTx) InsertNotification(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockTx) DebitGold(ctx context.Context, participantID string, amount int64) (int64, error) {
	args := m.Called(ctx, participantID, amount)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	m.Called(ctx, evt)
}
