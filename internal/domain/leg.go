package domain

import (
	"errors"
	"fmt"
	"time"
)

// Leg is one voyage segment of an itinerary: load aboard a voyage at one
// location, unload at a later one. Load and unload times are derived from
// the voyage schedule at construction.
type Leg struct {
	Voyage         *Voyage
	LoadLocation   *Location
	UnloadLocation *Location
	LoadTime       time.Time
	UnloadTime     time.Time
}

// DeriveLeg builds a leg from a voyage and two of its locations, deriving
// the times from the current schedule.
func DeriveLeg(voyage *Voyage, loadLocation, unloadLocation *Location) (Leg, error) {
	if voyage == nil {
		return Leg{}, errors.New("derive leg: voyage is required")
	}
	if loadLocation == nil || unloadLocation == nil {
		return Leg{}, fmt.Errorf("derive leg: load and unload locations are required for voyage %s", voyage.Number)
	}
	if loadLocation.SameIdentityAs(unloadLocation) {
		return Leg{}, fmt.Errorf("derive leg: load and unload must differ, got %s twice on voyage %s", loadLocation.UnLocode, voyage.Number)
	}

	loadTime, ok := voyage.DepartureTimeAt(loadLocation)
	if !ok {
		return Leg{}, fmt.Errorf("derive leg: voyage %s does not depart from %s", voyage.Number, loadLocation.UnLocode)
	}
	unloadTime, ok := voyage.ArrivalTimeAt(unloadLocation)
	if !ok {
		return Leg{}, fmt.Errorf("derive leg: voyage %s does not arrive at %s", voyage.Number, unloadLocation.UnLocode)
	}
	if !unloadTime.After(loadTime) {
		return Leg{}, fmt.Errorf(
			"derive leg: voyage %s unloads at %s before loading at %s",
			voyage.Number, unloadLocation.UnLocode, loadLocation.UnLocode,
		)
	}

	return Leg{
		Voyage:         voyage,
		LoadLocation:   loadLocation,
		UnloadLocation: unloadLocation,
		LoadTime:       loadTime,
		UnloadTime:     unloadTime,
	}, nil
}

// Equal compares legs by value: voyage identity, endpoint identities and
// derived times.
func (l Leg) Equal(other Leg) bool {
	return l.Voyage.SameIdentityAs(other.Voyage) &&
		l.LoadLocation.SameIdentityAs(other.LoadLocation) &&
		l.UnloadLocation.SameIdentityAs(other.UnloadLocation) &&
		l.LoadTime.Equal(other.LoadTime) &&
		l.UnloadTime.Equal(other.UnloadTime)
}

// passesThrough reports whether the location lies strictly inside this
// leg's voyage path: after the load location and before the unload
// location, endpoints excluded.
func (l Leg) passesThrough(location *Location) bool {
	inside := false
	for _, voyageLocation := range l.Voyage.Locations() {
		if voyageLocation.SameIdentityAs(l.LoadLocation) {
			inside = true
			continue
		}
		if voyageLocation.SameIdentityAs(l.UnloadLocation) {
			return false
		}
		if inside && voyageLocation.SameIdentityAs(location) {
			return true
		}
	}
	return false
}
