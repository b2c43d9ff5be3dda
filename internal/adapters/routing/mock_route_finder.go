package routing

import (
	"context"

	"cargo-shipping-service/internal/domain"
)

// MockRouteFinder returns fixed candidates, for tests.
type MockRouteFinder struct {
	Candidates []domain.Itinerary
	Err        error

	LastSpecification domain.RouteSpecification
	Calls             int
}

func (m *MockRouteFinder) FetchRoutesForSpecification(ctx context.Context, routeSpecification domain.RouteSpecification) ([]domain.Itinerary, error) {
	m.LastSpecification = routeSpecification
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Candidates, nil
}
