package app

import (
	"github.com/vistral/rentals-backend/internal/clients/places"
	"github.com/vistral/rentals-backend/internal/clients/redis"
	"github.com/vistral/rentals-backend/internal/platform/gcp"
	"github.com/vistral/rentals-backend/internal/platform/logger"
)

type Clients struct {
	Bucket gcp.BucketService
	SSEBus redis.SSEBus
	Places places.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, err
	}
	placesClient, err := places.NewClient(log)
	if err != nil {
		return Clients{}, err
	}
	// Redis is optional: single-instance deployments run the hub alone.
	bus, err := redis.NewSSEBus(log)
	if err != nil {
		log.Warn("Redis SSE bus unavailable, running hub-only", "error", err)
		bus = nil
	}
	return Clients{Bucket: bucket, SSEBus: bus, Places: placesClient}, nil
}
