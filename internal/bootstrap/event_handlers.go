package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/CampusQuest_Go/internal/config"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/metrics"
	"github.com/osse101/CampusQuest_Go/internal/sse"
	"github.com/osse101/CampusQuest_Go/internal/stats"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus     event.Bus
	StatsService stats.Service
	Hub          *sse.Hub
	Config       *config.Config
}

// RegisterEventHandlers subscribes the metrics collector, the stats cache
// handler and the SSE fan-out to the bus. When Kafka brokers are configured it
// also registers the Kafka sink and returns it so shutdown can close it.
func RegisterEventHandlers(deps EventHandlerDependencies) (*event.KafkaSink, error) {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	stats.NewEventHandler(deps.StatsService).Register(deps.EventBus)
	slog.Info(LogMsgStatsHandlerRegistered)

	if deps.Hub != nil {
		sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
		slog.Info(LogMsgSSESubscriberRegistered)
	}

	if len(deps.Config.KafkaBrokers) == 0 {
		return nil, nil
	}

	producer, err := event.NewKafkaProducer(deps.Config.KafkaBrokers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateKafkaProducer, err)
	}
	sink := event.NewKafkaSink(producer, deps.Config.KafkaTopic)
	sink.Register(deps.EventBus)
	slog.Info(LogMsgKafkaSinkRegistered, "brokers", deps.Config.KafkaBrokers, "topic", deps.Config.KafkaTopic)

	return sink, nil
}
