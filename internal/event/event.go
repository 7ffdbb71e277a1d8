package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a domain event published after a committed change
type Event struct {
	Version    string         `json:"version"` // Event schema version (e.g., "1.0")
	Type       Type           `json:"type"`
	Payload    interface{}    `json:"payload"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Event types
const (
	QuestAccepted       Type = domain.EventTypeQuestAccepted
	QuestCompleted      Type = domain.EventTypeQuestCompleted
	QuestSubmitted      Type = domain.EventTypeQuestSubmitted
	QuestRejected       Type = domain.EventTypeQuestRejected
	AchievementUnlocked Type = domain.EventTypeAchievementUnlocked
	ShopPurchase        Type = domain.EventTypeShopPurchase
	LeaderboardUpdated  Type = domain.EventTypeLeaderboardUpdated
)

// AllTypes lists every event type the service publishes
var AllTypes = []Type{
	QuestAccepted,
	QuestCompleted,
	QuestSubmitted,
	QuestRejected,
	AchievementUnlocked,
	ShopPurchase,
	LeaderboardUpdated,
}

// New builds an event with the current schema version
func New(t Type, payload interface{}) Event {
	return Event{
		Version:    EventSchemaVersion,
		Type:       t,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Type-safe event constructors

// NewQuestAcceptedEvent creates a quest accepted event
func NewQuestAcceptedEvent(p domain.QuestAttemptPayload) Event {
	return New(QuestAccepted, p)
}

// NewQuestCompletedEvent creates a quest completed event
func NewQuestCompletedEvent(p domain.QuestCompletedPayload) Event {
	return New(QuestCompleted, p)
}

// NewQuestSubmittedEvent creates an event for a submission awaiting review
func NewQuestSubmittedEvent(p domain.QuestAttemptPayload) Event {
	return New(QuestSubmitted, p)
}

// NewQuestRejectedEvent creates an event for a rejected submission
func NewQuestRejectedEvent(p domain.QuestAttemptPayload) Event {
	return New(QuestRejected, p)
}

// NewAchievementUnlockedEvent creates an achievement unlocked event
func NewAchievementUnlockedEvent(participantID string, a domain.Achievement) Event {
	return New(AchievementUnlocked, domain.AchievementUnlockedPayload{
		ParticipantID:  participantID,
		AchievementKey: a.Key,
		Name:           a.Name,
		BonusXP:        a.BonusXP,
	})
}

// NewShopPurchaseEvent creates a shop purchase event
func NewShopPurchaseEvent(p domain.ShopPurchasePayload) Event {
	return New(ShopPurchase, p)
}

// NewLeaderboardUpdatedEvent creates a leaderboard updated event
func NewLeaderboardUpdatedEvent(guild string, keys []string) Event {
	return New(LeaderboardUpdated, domain.LeaderboardUpdatedPayload{Guild: guild, Keys: keys})
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher is what services use to emit events after commit.
// Publishing never fails the caller.
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes a handler to every published event type
func SubscribeAll(bus Bus, handler Handler) {
	for _, t := range AllTypes {
		bus.Subscribe(t, handler)
	}
}
