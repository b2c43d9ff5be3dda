package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/platform/obs"
	"cargo-shipping-service/internal/ports"
)

// VoyageService handles schedule changes and their fallout on routed
// cargos.
type VoyageService struct {
	Voyages   ports.VoyageRepository
	Locations ports.LocationRepository
	Cargos    ports.CargoRepository
}

// RescheduleDeparture moves a voyage's departure from the given location to
// a new time and re-derives the itinerary of every cargo riding that
// voyage. An itinerary the schedule change breaks is truncated at the
// break, which typically leaves the cargo misrouted until it is rerouted.
func (s *VoyageService) RescheduleDeparture(
	ctx context.Context,
	voyageNumber domain.VoyageNumber,
	unLocode domain.UnLocode,
	newDepartureTime time.Time,
) (err error) {
	defer obs.Time(ctx, "voyage.RescheduleDeparture")(&err)

	voyage, err := s.Voyages.Find(ctx, voyageNumber)
	if err != nil {
		return fmt.Errorf("reschedule departure: find voyage %s: %w", voyageNumber, err)
	}

	location, err := s.Locations.Find(ctx, unLocode)
	if err != nil {
		return fmt.Errorf("reschedule departure: resolve %s: %w", unLocode, err)
	}

	if err := voyage.DepartureRescheduled(location, newDepartureTime); err != nil {
		return fmt.Errorf("reschedule departure: %w", err)
	}

	if err := s.Voyages.Store(ctx, voyage); err != nil {
		return fmt.Errorf("reschedule departure: store voyage %s: %w", voyageNumber, err)
	}

	cargos, err := s.Cargos.FindCargosOnVoyage(ctx, voyageNumber)
	if err != nil {
		return fmt.Errorf("reschedule departure: find cargos on voyage %s: %w", voyageNumber, err)
	}

	for _, cargo := range cargos {
		updated := cargo.Itinerary.WithRescheduledVoyage(voyage)
		if updated.IsEmpty() {
			// The whole plan broke; leave the stale itinerary in place for
			// rerouting rather than stripping the cargo of its route.
			log.Printf("reschedule departure: voyage=%s cargo=%s itinerary unmaintainable, needs rerouting", voyageNumber, cargo.TrackingID)
			continue
		}
		if err := cargo.AssignToRoute(updated); err != nil {
			return fmt.Errorf("reschedule departure: reassign cargo %s: %w", cargo.TrackingID, err)
		}
		if err := s.Cargos.Store(ctx, cargo); err != nil {
			return fmt.Errorf("reschedule departure: store cargo %s: %w", cargo.TrackingID, err)
		}
	}

	return nil
}
