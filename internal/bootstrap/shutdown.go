package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/CampusQuest_Go/internal/cache"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/repository"
	"github.com/osse101/CampusQuest_Go/internal/server"
	"github.com/osse101/CampusQuest_Go/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Everything except Server may be nil.
type ShutdownComponents struct {
	Server             *server.Server
	Hub                *sse.Hub
	KafkaSink          *event.KafkaSink
	ResilientPublisher *event.ResilientPublisher
	RedisCache         *cache.RedisCache
	Store              repository.Store
}

// GracefulShutdown stops the server first so no new requests arrive, then
// closes the SSE streams, flushes pending events and finally releases the
// cache and store connections. Errors are logged and shutdown continues.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if components.ResilientPublisher != nil {
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	// After the publisher so retried events still reach Kafka
	if components.KafkaSink != nil {
		if err := components.KafkaSink.Close(); err != nil {
			slog.Error(LogMsgKafkaSinkCloseFailed, "error", err)
		}
	}

	if components.RedisCache != nil {
		if err := components.RedisCache.Close(); err != nil {
			slog.Error(LogMsgCacheCloseFailed, "error", err)
		}
	}

	if components.Store != nil {
		components.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}
