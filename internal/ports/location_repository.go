package ports

import (
	"context"
	"errors"

	"cargo-shipping-service/internal/domain"
)

// ErrUnknownLocation is returned when no location exists for an UnLocode.
var ErrUnknownLocation = errors.New("unknown location")

// Port: a boundary for looking up Location entities.
type LocationRepository interface {
	// Find the location with the given UnLocode, ErrUnknownLocation if absent.
	Find(ctx context.Context, unLocode domain.UnLocode) (*domain.Location, error)
	// Return all known locations.
	FindAll(ctx context.Context) ([]*domain.Location, error)
}
