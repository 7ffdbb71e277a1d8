package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.QuestCompleted, s.handleQuestCompleted)
	s.bus.Subscribe(event.AchievementUnlocked, s.handleAchievementUnlocked)
	s.bus.Subscribe(event.LeaderboardUpdated, s.handleLeaderboardUpdated)

	slog.Info("SSE subscriber registered for event types",
		"types", []string{
			EventTypeQuestCompleted,
			EventTypeAchievementUnlocked,
			EventTypeLeaderboardUpdated,
		})
}

func (s *Subscriber) handleQuestCompleted(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.QuestCompletedPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid quest completed event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeQuestCompleted, QuestCompletedPayload{
		ParticipantID: p.ParticipantID,
		QuestID:       p.QuestID,
		Guild:         p.Guild,
		XPAwarded:     p.XPAwarded + p.BonusXP,
		NewLevel:      p.NewLevel,
		LeveledUp:     p.LeveledUp,
	})

	slog.Debug(LogMsgEventBroadcast,
		"event_type", EventTypeQuestCompleted,
		"participant_id", p.ParticipantID,
		"quest_id", p.QuestID)
	return nil
}

func (s *Subscriber) handleAchievementUnlocked(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.AchievementUnlockedPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid achievement event payload", "error", err)
		return nil
	}

	s.hub.BroadcastTo(p.ParticipantID, EventTypeAchievementUnlocked, AchievementUnlockedPayload{
		ParticipantID:  p.ParticipantID,
		AchievementKey: p.AchievementKey,
		Name:           p.Name,
	})
	return nil
}

func (s *Subscriber) handleLeaderboardUpdated(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.LeaderboardUpdatedPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid leaderboard event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeLeaderboardUpdated, LeaderboardUpdatedPayload{Guild: p.Guild})
	return nil
}
