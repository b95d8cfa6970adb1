package services

import (
	"context"

	"github.com/vistral/rentals-backend/internal/clients/redis"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

// Notifier delivers SSE messages to local clients and, when a Redis bus is
// configured, to clients connected to other instances. Delivery is
// best-effort; a failed publish never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, msg sse.SSEMessage)
}

type notifier struct {
	log *logger.Logger
	hub *sse.SSEHub
	bus redis.SSEBus
}

func NewNotifier(log *logger.Logger, hub *sse.SSEHub, bus redis.SSEBus) Notifier {
	return &notifier{
		log: log.With("service", "Notifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *notifier) Notify(ctx context.Context, msg sse.SSEMessage) {
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("SSE bus publish failed", "error", err, "channel", msg.Channel, "event", msg.Event)
		}
	}
}
