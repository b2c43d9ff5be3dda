package ports

import (
	"context"
	"errors"

	"cargo-shipping-service/internal/domain"
)

// ErrUnknownCargo is returned when no cargo exists for a tracking id.
var ErrUnknownCargo = errors.New("unknown cargo")

// Port: a boundary for storing and retrieving Cargo aggregates. The store
// is the unit that serializes mutation per tracking id; the domain model
// assumes at most one concurrent writer per cargo.
type CargoRepository interface {
	// Find the cargo with the given tracking id, ErrUnknownCargo if absent.
	Find(ctx context.Context, trackingID domain.TrackingID) (*domain.Cargo, error)
	// Store a new or updated cargo.
	Store(ctx context.Context, cargo *domain.Cargo) error
	// Return all cargos.
	FindAll(ctx context.Context) ([]*domain.Cargo, error)
	// Return all cargos whose itinerary uses the given voyage.
	FindCargosOnVoyage(ctx context.Context, voyageNumber domain.VoyageNumber) ([]*domain.Cargo, error)
}

// Port: source of fresh tracking ids for newly booked cargo.
type TrackingIDGenerator interface {
	NextTrackingID(ctx context.Context) (domain.TrackingID, error)
}
