package metrics

import (
	"context"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	event.SubscribeAll(bus, e.HandleEvent)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.QuestAccepted:
		QuestsAccepted.Inc()

	case event.QuestCompleted:
		p, err := event.DecodePayload[domain.QuestCompletedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			return nil
		}
		QuestsCompleted.Inc()
		XPAwarded.Add(float64(p.XPAwarded + p.BonusXP))
		GoldAwarded.Add(float64(p.GoldAwarded))

	case event.AchievementUnlocked:
		p, err := event.DecodePayload[domain.AchievementUnlockedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			return nil
		}
		AchievementsUnlocked.WithLabelValues(p.AchievementKey).Inc()

	case event.ShopPurchase:
		p, err := event.DecodePayload[domain.ShopPurchasePayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
			return nil
		}
		ShopPurchases.WithLabelValues(p.ItemID).Inc()
		GoldSpent.Add(float64(p.Price))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
