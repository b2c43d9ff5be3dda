package domain

import (
	"errors"
	"fmt"
	"time"
)

// Itinerary is the planned, ordered sequence of voyage legs a cargo is
// routed on. The zero value is the "no itinerary yet" state of an unrouted
// cargo. Leg adjacency is not validated: an itinerary whose legs do not
// connect is representable and will simply never satisfy a route
// specification end to end.
type Itinerary struct {
	Legs []Leg
}

func NewItinerary(legs []Leg) (Itinerary, error) {
	if len(legs) == 0 {
		return Itinerary{}, errors.New("new itinerary: must contain at least one leg")
	}
	copied := make([]Leg, len(legs))
	copy(copied, legs)
	return Itinerary{Legs: copied}, nil
}

// IsEmpty reports whether this is the "no itinerary" zero value.
func (i Itinerary) IsEmpty() bool {
	return len(i.Legs) == 0
}

// FirstLoadLocation is where the journey starts, nil for an empty itinerary.
func (i Itinerary) FirstLoadLocation() *Location {
	if i.IsEmpty() {
		return nil
	}
	return i.Legs[0].LoadLocation
}

// LastUnloadLocation is where the journey ends, nil for an empty itinerary.
func (i Itinerary) LastUnloadLocation() *Location {
	if i.IsEmpty() {
		return nil
	}
	return i.Legs[len(i.Legs)-1].UnloadLocation
}

// FinalArrivalTime is the scheduled arrival at the last unload location.
func (i Itinerary) FinalArrivalTime() time.Time {
	if i.IsEmpty() {
		return time.Time{}
	}
	return i.Legs[len(i.Legs)-1].UnloadTime
}

// Locations returns every location along the itinerary in travel order: the
// load location of each leg plus the final unload location.
func (i Itinerary) Locations() []*Location {
	if i.IsEmpty() {
		return nil
	}
	locations := make([]*Location, 0, len(i.Legs)+1)
	for _, leg := range i.Legs {
		locations = append(locations, leg.LoadLocation)
	}
	return append(locations, i.LastUnloadLocation())
}

// IsExpectedActivity reports whether the activity fits the plan anywhere.
func (i Itinerary) IsExpectedActivity(activity HandlingActivity) bool {
	return i.MatchLeg(activity).Matched()
}

// MatchLeg finds the leg, if any, the activity belongs to:
//
//   - RECEIVE matches the load end of the first leg, at its load location.
//   - CLAIM matches the unload end of the last leg, at its unload location.
//   - LOAD matches the first leg on the activity's voyage loading at the
//     activity's location; UNLOAD the first leg unloading there.
//   - CUSTOMS never matches a leg directly.
func (i Itinerary) MatchLeg(activity HandlingActivity) LegActivityMatch {
	if i.IsEmpty() {
		return noMatch(activity)
	}

	switch activity.Type {
	case Receive:
		if i.FirstLoadLocation().SameIdentityAs(activity.Location) {
			return matchedAt(&i.Legs[0], 0, loadEnd, activity)
		}
	case Claim:
		if i.LastUnloadLocation().SameIdentityAs(activity.Location) {
			last := len(i.Legs) - 1
			return matchedAt(&i.Legs[last], last, unloadEnd, activity)
		}
	case Load:
		for idx := range i.Legs {
			leg := &i.Legs[idx]
			if leg.Voyage.SameIdentityAs(activity.Voyage) && leg.LoadLocation.SameIdentityAs(activity.Location) {
				return matchedAt(leg, idx, loadEnd, activity)
			}
		}
	case Unload:
		for idx := range i.Legs {
			leg := &i.Legs[idx]
			if leg.Voyage.SameIdentityAs(activity.Voyage) && leg.UnloadLocation.SameIdentityAs(activity.Location) {
				return matchedAt(leg, idx, unloadEnd, activity)
			}
		}
	}

	return noMatch(activity)
}

// ActivitySucceeding returns the activity the plan expects after the given
// one, or nil when the plan has run out or the previous activity does not
// resolve to a leg. A nil previous activity means the cargo has not been
// handled yet, so the first expected activity is RECEIVE at the start of
// the itinerary.
func (i Itinerary) ActivitySucceeding(previous *HandlingActivity) *HandlingActivity {
	if i.IsEmpty() {
		return nil
	}

	if previous == nil {
		activity, err := NewHandlingActivity(Receive, i.FirstLoadLocation(), nil)
		if err != nil {
			return nil
		}
		return &activity
	}

	match := i.MatchLeg(*previous)
	if !match.Matched() {
		return nil
	}

	// Successors are only derived after LOAD and UNLOAD.
	switch previous.Type {
	case Load:
		activity, err := NewHandlingActivity(Unload, match.Leg.UnloadLocation, match.Leg.Voyage)
		if err != nil {
			return nil
		}
		return &activity
	case Unload:
		next := match.legIndex + 1
		if next < len(i.Legs) {
			activity, err := NewHandlingActivity(Load, i.Legs[next].LoadLocation, i.Legs[next].Voyage)
			if err != nil {
				return nil
			}
			return &activity
		}
		activity, err := NewHandlingActivity(Claim, i.LastUnloadLocation(), nil)
		if err != nil {
			return nil
		}
		return &activity
	}

	return nil
}

// StrictlyPriorOf returns whichever of the two activities strictly precedes
// the other along the plan, or nil when they are tied or both unmatched.
func (i Itinerary) StrictlyPriorOf(a, b HandlingActivity) *HandlingActivity {
	matchA := i.MatchLeg(a)
	matchB := i.MatchLeg(b)

	switch cmp := matchA.Compare(matchB); {
	case cmp < 0:
		return &a
	case cmp > 0:
		return &b
	}
	return nil
}

// WithRescheduledVoyage rebuilds the itinerary after a voyage schedule
// change. Legs on the rescheduled voyage are re-derived with the updated
// times; whenever a leg's load time would now precede the previous leg's
// unload time the plan is no longer maintainable and is truncated at the
// break.
func (i Itinerary) WithRescheduledVoyage(voyage *Voyage) Itinerary {
	legs := make([]Leg, 0, len(i.Legs))
	for _, leg := range i.Legs {
		updated := leg
		if leg.Voyage.SameIdentityAs(voyage) {
			derived, err := DeriveLeg(voyage, leg.LoadLocation, leg.UnloadLocation)
			if err != nil {
				break
			}
			updated = derived
		}
		if len(legs) > 0 && updated.LoadTime.Before(legs[len(legs)-1].UnloadTime) {
			break
		}
		legs = append(legs, updated)
	}
	return Itinerary{Legs: legs}
}

// TruncatedAfter cuts the itinerary off at the given location. A leg
// unloading there is kept whole; a leg merely passing through it is
// replaced by a shorter leg ending there. Truncating at the very start of
// the journey leaves nothing. When the location is not on the plan at all
// the itinerary is returned unchanged.
func (i Itinerary) TruncatedAfter(location *Location) Itinerary {
	if i.IsEmpty() || location == nil {
		return i
	}
	if i.FirstLoadLocation().SameIdentityAs(location) {
		return Itinerary{}
	}

	legs := make([]Leg, 0, len(i.Legs))
	for _, leg := range i.Legs {
		if leg.UnloadLocation.SameIdentityAs(location) {
			legs = append(legs, leg)
			return Itinerary{Legs: legs}
		}
		if leg.passesThrough(location) {
			shortened, err := DeriveLeg(leg.Voyage, leg.LoadLocation, location)
			if err != nil {
				return Itinerary{Legs: append(legs, leg)}
			}
			legs = append(legs, shortened)
			return Itinerary{Legs: legs}
		}
		legs = append(legs, leg)
	}
	return Itinerary{Legs: legs}
}

// WithLeg returns a new itinerary with the leg appended.
func (i Itinerary) WithLeg(leg Leg) Itinerary {
	legs := make([]Leg, 0, len(i.Legs)+1)
	legs = append(legs, i.Legs...)
	legs = append(legs, leg)
	return Itinerary{Legs: legs}
}

// AppendBy returns a new itinerary continuing this one with all of other's
// legs.
func (i Itinerary) AppendBy(other Itinerary) Itinerary {
	legs := make([]Leg, 0, len(i.Legs)+len(other.Legs))
	legs = append(legs, i.Legs...)
	legs = append(legs, other.Legs...)
	return Itinerary{Legs: legs}
}

// Equal compares itineraries leg by leg.
func (i Itinerary) Equal(other Itinerary) bool {
	if len(i.Legs) != len(other.Legs) {
		return false
	}
	for idx := range i.Legs {
		if !i.Legs[idx].Equal(other.Legs[idx]) {
			return false
		}
	}
	return true
}

func (i Itinerary) String() string {
	if i.IsEmpty() {
		return "empty itinerary"
	}
	return fmt.Sprintf("itinerary %s -> %s (%d legs)", i.FirstLoadLocation().UnLocode, i.LastUnloadLocation().UnLocode, len(i.Legs))
}
