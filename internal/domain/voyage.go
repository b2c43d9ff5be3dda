package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// VoyageNumber uniquely identifies a voyage.
type VoyageNumber string

func NewVoyageNumber(number string) (VoyageNumber, error) {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return "", errors.New("new voyage number: must not be empty")
	}
	return VoyageNumber(trimmed), nil
}

// CarrierMovement is one vessel movement between two locations.
type CarrierMovement struct {
	DepartureLocation *Location
	ArrivalLocation   *Location
	DepartureTime     time.Time
	ArrivalTime       time.Time
}

func NewCarrierMovement(departure, arrival *Location, departureTime, arrivalTime time.Time) (CarrierMovement, error) {
	if departure == nil || arrival == nil {
		return CarrierMovement{}, errors.New("new carrier movement: departure and arrival locations are required")
	}
	if departure.SameIdentityAs(arrival) {
		return CarrierMovement{}, fmt.Errorf("new carrier movement: departure and arrival must differ, got %s twice", departure.UnLocode)
	}
	if !departureTime.Before(arrivalTime) {
		return CarrierMovement{}, fmt.Errorf(
			"new carrier movement %s -> %s: departure %s must precede arrival %s",
			departure.UnLocode, arrival.UnLocode, departureTime.Format(time.RFC3339), arrivalTime.Format(time.RFC3339),
		)
	}
	return CarrierMovement{
		DepartureLocation: departure,
		ArrivalLocation:   arrival,
		DepartureTime:     departureTime,
		ArrivalTime:       arrivalTime,
	}, nil
}

// Schedule is the ordered, non-empty chain of movements a voyage follows.
type Schedule struct {
	Movements []CarrierMovement
}

func NewSchedule(movements []CarrierMovement) (Schedule, error) {
	if len(movements) == 0 {
		return Schedule{}, errors.New("new schedule: must contain at least one carrier movement")
	}
	copied := make([]CarrierMovement, len(movements))
	copy(copied, movements)
	return Schedule{Movements: copied}, nil
}

// Voyage is a uniquely numbered series of carrier movements. It is the one
// entity in this model that is mutated in place: DepartureRescheduled swaps
// in a new schedule. Callers must serialize access per voyage.
type Voyage struct {
	Number   VoyageNumber
	Schedule Schedule
}

func NewVoyage(number VoyageNumber, schedule Schedule) (*Voyage, error) {
	if number == "" {
		return nil, errors.New("new voyage: voyage number must not be empty")
	}
	if len(schedule.Movements) == 0 {
		return nil, fmt.Errorf("new voyage %s: schedule must not be empty", number)
	}
	return &Voyage{Number: number, Schedule: schedule}, nil
}

// SameIdentityAs compares voyages by voyage number only.
func (v *Voyage) SameIdentityAs(other *Voyage) bool {
	if v == nil || other == nil {
		return false
	}
	return v.Number == other.Number
}

// Locations returns every location the voyage touches, in sailing order:
// the departure of each movement plus the final arrival.
func (v *Voyage) Locations() []*Location {
	locations := make([]*Location, 0, len(v.Schedule.Movements)+1)
	for _, m := range v.Schedule.Movements {
		locations = append(locations, m.DepartureLocation)
	}
	last := v.Schedule.Movements[len(v.Schedule.Movements)-1]
	return append(locations, last.ArrivalLocation)
}

// DepartureTimeAt returns the scheduled departure from the given location.
func (v *Voyage) DepartureTimeAt(location *Location) (time.Time, bool) {
	for _, m := range v.Schedule.Movements {
		if m.DepartureLocation.SameIdentityAs(location) {
			return m.DepartureTime, true
		}
	}
	return time.Time{}, false
}

// ArrivalTimeAt returns the scheduled arrival at the given location.
func (v *Voyage) ArrivalTimeAt(location *Location) (time.Time, bool) {
	for _, m := range v.Schedule.Movements {
		if m.ArrivalLocation.SameIdentityAs(location) {
			return m.ArrivalTime, true
		}
	}
	return time.Time{}, false
}

// ArrivalLocationWhenDepartedFrom returns the next scheduled arrival for
// cargo that boarded at the given location, or nil when the voyage does not
// depart from there.
func (v *Voyage) ArrivalLocationWhenDepartedFrom(location *Location) *Location {
	for _, m := range v.Schedule.Movements {
		if m.DepartureLocation.SameIdentityAs(location) {
			return m.ArrivalLocation
		}
	}
	return nil
}

// DepartureRescheduled moves the departure from the given location to a new
// time, shifting the affected movements' arrivals by the same delta so
// transit durations are preserved. This is the single in-place mutation the
// voyage model allows after construction.
func (v *Voyage) DepartureRescheduled(location *Location, newDepartureTime time.Time) error {
	if location == nil {
		return errors.New("reschedule departure: location is required")
	}

	movements := make([]CarrierMovement, len(v.Schedule.Movements))
	copy(movements, v.Schedule.Movements)

	rescheduled := false
	for i, m := range movements {
		if !m.DepartureLocation.SameIdentityAs(location) {
			continue
		}
		delta := newDepartureTime.Sub(m.DepartureTime)
		updated, err := NewCarrierMovement(m.DepartureLocation, m.ArrivalLocation, newDepartureTime, m.ArrivalTime.Add(delta))
		if err != nil {
			return fmt.Errorf("reschedule departure of voyage %s: %w", v.Number, err)
		}
		movements[i] = updated
		rescheduled = true
	}

	if !rescheduled {
		return fmt.Errorf("reschedule departure: voyage %s does not depart from %s", v.Number, location.UnLocode)
	}

	schedule, err := NewSchedule(movements)
	if err != nil {
		return fmt.Errorf("reschedule departure of voyage %s: %w", v.Number, err)
	}
	v.Schedule = schedule
	return nil
}
