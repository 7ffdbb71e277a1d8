package stats

import (
	"context"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// EventHandler keeps cached stats fresh for changes made outside the reward path
type EventHandler struct {
	service Service
}

// NewEventHandler creates a new stats event handler
func NewEventHandler(service Service) *EventHandler {
	return &EventHandler{
		service: service,
	}
}

// Register subscribes the handler to relevant events
func (h *EventHandler) Register(bus event.Bus) {
	bus.Subscribe(event.ShopPurchase, h.HandleShopPurchase)
}

// HandleShopPurchase drops the buyer's cached stats since their gold changed
func (h *EventHandler) HandleShopPurchase(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.ShopPurchasePayload](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "event_type", evt.Type, "error", err)
		return nil
	}
	h.service.InvalidateParticipant(ctx, p.ParticipantID)
	return nil
}
