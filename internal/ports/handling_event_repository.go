package ports

import (
	"context"

	"cargo-shipping-service/internal/domain"
)

// Port: the append-only handling event log. Events are never updated or
// deleted once stored.
type HandlingEventRepository interface {
	// Append a handling event to the log.
	Store(ctx context.Context, event *domain.HandlingEvent) error
	// Find an event by sequence number. A missing event is not an error:
	// (nil, nil) is returned so asynchronous consumers can treat it as a
	// defined no-op.
	FindBySequenceNumber(ctx context.Context, sequenceNumber domain.EventSequenceNumber) (*domain.HandlingEvent, error)
	// Return the full handling history of the given cargo.
	LookupHandlingHistoryOfCargo(ctx context.Context, cargo *domain.Cargo) (domain.HandlingHistory, error)
}
