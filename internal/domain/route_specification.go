package domain

import (
	"errors"
	"fmt"
	"time"
)

// RouteSpecification is the contract the customer booked: pick the cargo up
// at the origin and have it at the destination no later than the arrival
// deadline.
type RouteSpecification struct {
	Origin          *Location
	Destination     *Location
	ArrivalDeadline time.Time
}

func NewRouteSpecification(origin, destination *Location, arrivalDeadline time.Time) (RouteSpecification, error) {
	if origin == nil || destination == nil {
		return RouteSpecification{}, errors.New("new route specification: origin and destination are required")
	}
	if origin.SameIdentityAs(destination) {
		return RouteSpecification{}, fmt.Errorf("new route specification: origin and destination must differ, got %s twice", origin.UnLocode)
	}
	if arrivalDeadline.IsZero() {
		return RouteSpecification{}, errors.New("new route specification: arrival deadline is required")
	}
	return RouteSpecification{Origin: origin, Destination: destination, ArrivalDeadline: arrivalDeadline}, nil
}

// IsSatisfiedBy reports whether the itinerary fulfills this specification:
// it exists, starts at the origin, ends at the destination, and arrives
// before the deadline.
func (s RouteSpecification) IsSatisfiedBy(itinerary Itinerary) bool {
	return !itinerary.IsEmpty() &&
		s.Origin.SameIdentityAs(itinerary.FirstLoadLocation()) &&
		s.Destination.SameIdentityAs(itinerary.LastUnloadLocation()) &&
		itinerary.FinalArrivalTime().Before(s.ArrivalDeadline)
}

// Equal compares specifications by value.
func (s RouteSpecification) Equal(other RouteSpecification) bool {
	return s.Origin.SameIdentityAs(other.Origin) &&
		s.Destination.SameIdentityAs(other.Destination) &&
		s.ArrivalDeadline.Equal(other.ArrivalDeadline)
}
