package ports

import (
	"context"
	"errors"

	"cargo-shipping-service/internal/domain"
)

// ErrUnknownVoyage is returned when no voyage exists for a voyage number.
var ErrUnknownVoyage = errors.New("unknown voyage")

// Port: a boundary for storing and retrieving Voyage entities.
type VoyageRepository interface {
	// Find the voyage with the given number, ErrUnknownVoyage if absent.
	Find(ctx context.Context, voyageNumber domain.VoyageNumber) (*domain.Voyage, error)
	// Store a new or rescheduled voyage.
	Store(ctx context.Context, voyage *domain.Voyage) error
}
