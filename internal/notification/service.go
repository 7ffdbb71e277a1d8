package notification

import (
	"context"
	"fmt"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// Service defines the interface for the notifications inbox
type Service interface {
	// List returns the newest notifications plus the total unread count.
	// A limit outside 1..MaxLimit falls back to DefaultLimit or MaxLimit.
	List(ctx context.Context, participantID string, limit int) (*domain.NotificationInbox, error)
	MarkRead(ctx context.Context, participantID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, participantID string) (int64, error)
}

type service struct {
	repo repository.Notification
}

// NewService creates a new notification service
func NewService(repo repository.Notification) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, participantID string, limit int) (*domain.NotificationInbox, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	items, err := s.repo.ListNotifications(ctx, participantID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListFailed, err)
	}
	unread, err := s.repo.CountUnreadNotifications(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCountFailed, err)
	}
	return &domain.NotificationInbox{Notifications: items, UnreadCount: unread}, nil
}

// MarkRead only touches notifications owned by participantID
func (s *service) MarkRead(ctx context.Context, participantID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNoIDs)
	}
	updated, err := s.repo.MarkNotificationsRead(ctx, participantID, ids)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgMarkReadFailed, err)
	}
	logger.FromContext(ctx).Debug(LogMsgMarkedRead, "participant_id", participantID, "count", updated)
	return updated, nil
}

func (s *service) MarkAllRead(ctx context.Context, participantID string) (int64, error) {
	updated, err := s.repo.MarkAllNotificationsRead(ctx, participantID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgMarkReadFailed, err)
	}
	logger.FromContext(ctx).Debug(LogMsgMarkedRead, "participant_id", participantID, "count", updated)
	return updated, nil
}
