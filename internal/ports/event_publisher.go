package ports

import (
	"context"

	"cargo-shipping-service/internal/domain"
)

// Port: publication of registered handling events to whatever drives the
// asynchronous cargo update. Registering an event and applying it to the
// cargo are decoupled steps; publication carries just enough for a consumer
// to pick the event back up by sequence number.
type HandlingEventPublisher interface {
	Publish(ctx context.Context, event *domain.HandlingEvent) error
}
