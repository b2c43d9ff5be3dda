package ports

import (
	"context"

	"cargo-shipping-service/internal/domain"
)

// Port: the external routing oracle. Implementations propose itinerary
// candidates for a route specification; callers must validate each
// candidate against the specification and discard ones that fail.
type RouteFinder interface {
	FetchRoutesForSpecification(ctx context.Context, routeSpecification domain.RouteSpecification) ([]domain.Itinerary, error)
}
