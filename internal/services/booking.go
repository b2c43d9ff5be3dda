package services

import (
	"context"
	"fmt"
	"time"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/platform/obs"
	"cargo-shipping-service/internal/ports"
)

// BookingService covers the booking side of the cargo lifecycle: creating
// cargos, proposing routes for them and attaching the chosen one.
type BookingService struct {
	Cargos      ports.CargoRepository
	Locations   ports.LocationRepository
	RouteFinder ports.RouteFinder
	TrackingIDs ports.TrackingIDGenerator
}

// BookNewCargo registers a new cargo for the given origin, destination and
// arrival deadline and returns its tracking id. The cargo starts out
// unrouted.
func (s *BookingService) BookNewCargo(
	ctx context.Context,
	originCode domain.UnLocode,
	destinationCode domain.UnLocode,
	arrivalDeadline time.Time,
) (_ domain.TrackingID, err error) {
	defer obs.Time(ctx, "booking.BookNewCargo")(&err)

	origin, err := s.Locations.Find(ctx, originCode)
	if err != nil {
		return "", fmt.Errorf("book new cargo: resolve origin %s: %w", originCode, err)
	}
	destination, err := s.Locations.Find(ctx, destinationCode)
	if err != nil {
		return "", fmt.Errorf("book new cargo: resolve destination %s: %w", destinationCode, err)
	}

	routeSpecification, err := domain.NewRouteSpecification(origin, destination, arrivalDeadline)
	if err != nil {
		return "", fmt.Errorf("book new cargo: %w", err)
	}

	trackingID, err := s.TrackingIDs.NextTrackingID(ctx)
	if err != nil {
		return "", fmt.Errorf("book new cargo: next tracking id: %w", err)
	}

	cargo, err := domain.NewCargo(trackingID, routeSpecification)
	if err != nil {
		return "", fmt.Errorf("book new cargo: %w", err)
	}

	if err := s.Cargos.Store(ctx, cargo); err != nil {
		return "", fmt.Errorf("book new cargo: store cargo %s: %w", trackingID, err)
	}

	return trackingID, nil
}

// RequestPossibleRoutes asks the routing oracle for itinerary candidates
// for the cargo. An unrouted cargo is routed from scratch; a cargo already
// underway is routed from its earliest rerouting location and each
// candidate is merged with the salvageable part of the current plan.
// Candidates that do not satisfy the cargo's route specification are
// discarded.
func (s *BookingService) RequestPossibleRoutes(ctx context.Context, trackingID domain.TrackingID) (_ []domain.Itinerary, err error) {
	defer obs.Time(ctx, "booking.RequestPossibleRoutes")(&err)

	cargo, err := s.Cargos.Find(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("request possible routes: find cargo %s: %w", trackingID, err)
	}

	specification := cargo.RouteSpecification
	if cargo.RoutingStatus() != domain.NotRouted {
		from := cargo.EarliestReroutingLocation()
		if from == nil {
			return nil, fmt.Errorf("request possible routes: cargo %s has no rerouting location", trackingID)
		}
		if !from.SameIdentityAs(specification.Destination) {
			remaining, err := domain.NewRouteSpecification(from, specification.Destination, specification.ArrivalDeadline)
			if err != nil {
				return nil, fmt.Errorf("request possible routes: remaining journey of cargo %s: %w", trackingID, err)
			}
			specification = remaining
		}
	}

	candidates, err := s.RouteFinder.FetchRoutesForSpecification(ctx, specification)
	if err != nil {
		return nil, fmt.Errorf("request possible routes: fetch routes for cargo %s: %w", trackingID, err)
	}

	routes := make([]domain.Itinerary, 0, len(candidates))
	for _, candidate := range candidates {
		merged, err := cargo.ItineraryMergedWith(candidate)
		if err != nil {
			// A candidate the current plan cannot be merged with is just
			// not a viable route.
			continue
		}
		if cargo.RouteSpecification.IsSatisfiedBy(merged) {
			routes = append(routes, merged)
		}
	}

	return routes, nil
}

// AssignToRoute attaches the chosen itinerary to the cargo.
func (s *BookingService) AssignToRoute(ctx context.Context, trackingID domain.TrackingID, itinerary domain.Itinerary) (err error) {
	defer obs.Time(ctx, "booking.AssignToRoute")(&err)

	cargo, err := s.Cargos.Find(ctx, trackingID)
	if err != nil {
		return fmt.Errorf("assign to route: find cargo %s: %w", trackingID, err)
	}

	if err := cargo.AssignToRoute(itinerary); err != nil {
		return fmt.Errorf("assign to route: %w", err)
	}

	if err := s.Cargos.Store(ctx, cargo); err != nil {
		return fmt.Errorf("assign to route: store cargo %s: %w", trackingID, err)
	}
	return nil
}

// ChangeDestination replaces the cargo's route specification with one
// pointing at a new destination. The itinerary is left untouched, so the
// cargo reads as misrouted until a new route is assigned.
func (s *BookingService) ChangeDestination(ctx context.Context, trackingID domain.TrackingID, destinationCode domain.UnLocode) (err error) {
	defer obs.Time(ctx, "booking.ChangeDestination")(&err)

	cargo, err := s.Cargos.Find(ctx, trackingID)
	if err != nil {
		return fmt.Errorf("change destination: find cargo %s: %w", trackingID, err)
	}

	destination, err := s.Locations.Find(ctx, destinationCode)
	if err != nil {
		return fmt.Errorf("change destination: resolve %s: %w", destinationCode, err)
	}

	specification, err := domain.NewRouteSpecification(cargo.RouteSpecification.Origin, destination, cargo.RouteSpecification.ArrivalDeadline)
	if err != nil {
		return fmt.Errorf("change destination of cargo %s: %w", trackingID, err)
	}

	if err := cargo.SpecifyNewRoute(specification); err != nil {
		return fmt.Errorf("change destination: %w", err)
	}

	if err := s.Cargos.Store(ctx, cargo); err != nil {
		return fmt.Errorf("change destination: store cargo %s: %w", trackingID, err)
	}
	return nil
}

// LoadCargo returns the cargo for a tracking id.
func (s *BookingService) LoadCargo(ctx context.Context, trackingID domain.TrackingID) (*domain.Cargo, error) {
	cargo, err := s.Cargos.Find(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("load cargo %s: %w", trackingID, err)
	}
	return cargo, nil
}

// ListCargos returns all booked cargos.
func (s *BookingService) ListCargos(ctx context.Context) ([]*domain.Cargo, error) {
	cargos, err := s.Cargos.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cargos: %w", err)
	}
	return cargos, nil
}
