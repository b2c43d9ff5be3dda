package events

import (
	"context"

	"cargo-shipping-service/internal/domain"
)

// InProcessHandlingEventPublisher short-circuits the message bus for local
// runs and tests: publishing applies the event immediately. The
// registration/application decoupling stays intact at the interface level,
// only the transport is gone.
type InProcessHandlingEventPublisher struct {
	Apply ApplyFunc
}

func (p *InProcessHandlingEventPublisher) Publish(ctx context.Context, event *domain.HandlingEvent) error {
	return p.Apply(ctx, event.SequenceNumber)
}
