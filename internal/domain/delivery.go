package domain

import "time"

// TransportStatus describes where handling has taken the cargo physically.
type TransportStatus int

const (
	NotReceived TransportStatus = iota
	InPort
	OnboardCarrier
	Claimed
	UnknownTransportStatus
)

func (s TransportStatus) String() string {
	switch s {
	case NotReceived:
		return "NOT_RECEIVED"
	case InPort:
		return "IN_PORT"
	case OnboardCarrier:
		return "ONBOARD_CARRIER"
	case Claimed:
		return "CLAIMED"
	}
	return "UNKNOWN"
}

// Delivery is the derived snapshot of a cargo's handling so far. It is a
// value object, replaced wholesale each time a handling activity is
// accepted or the cargo is rerouted, never mutated. Everything it reports
// is computed from at most two facts: the most recent handling activity and
// the most recent physical (non-customs) one.
type Delivery struct {
	MostRecentHandlingActivity         *HandlingActivity
	MostRecentPhysicalHandlingActivity *HandlingActivity
	LastUpdatedOn                      time.Time
}

// BeforeHandling is the delivery state of a cargo nothing has happened to.
func BeforeHandling() Delivery {
	return Delivery{LastUpdatedOn: time.Now()}
}

// OnHandling derives the next delivery snapshot from a new activity. A
// physical activity advances both markers; customs inspection advances only
// the most recent activity, leaving the physical marker in place.
func (d Delivery) OnHandling(activity HandlingActivity) Delivery {
	if activity.Type.IsPhysical() {
		return Delivery{
			MostRecentHandlingActivity:         &activity,
			MostRecentPhysicalHandlingActivity: &activity,
			LastUpdatedOn:                      time.Now(),
		}
	}
	return Delivery{
		MostRecentHandlingActivity:         &activity,
		MostRecentPhysicalHandlingActivity: d.MostRecentPhysicalHandlingActivity,
		LastUpdatedOn:                      time.Now(),
	}
}

// OnRouting derives the snapshot taken when the cargo is assigned to a new
// route: the handling facts carry over, the timestamp advances.
func (d Delivery) OnRouting() Delivery {
	return Delivery{
		MostRecentHandlingActivity:         d.MostRecentHandlingActivity,
		MostRecentPhysicalHandlingActivity: d.MostRecentPhysicalHandlingActivity,
		LastUpdatedOn:                      time.Now(),
	}
}

// HasBeenHandled reports whether any activity has been recorded.
func (d Delivery) HasBeenHandled() bool {
	return d.MostRecentHandlingActivity != nil
}

// TransportStatus derives the cargo's physical whereabouts from the most
// recent activity.
func (d Delivery) TransportStatus() TransportStatus {
	if d.MostRecentHandlingActivity == nil {
		return NotReceived
	}
	switch d.MostRecentHandlingActivity.Type {
	case Load:
		return OnboardCarrier
	case Unload, Receive, Customs:
		return InPort
	case Claim:
		return Claimed
	}
	return UnknownTransportStatus
}

// LastKnownLocation is where the cargo was last handled, nil before any
// handling.
func (d Delivery) LastKnownLocation() *Location {
	if d.MostRecentHandlingActivity == nil {
		return nil
	}
	return d.MostRecentHandlingActivity.Location
}

// CurrentVoyage is the voyage the cargo is aboard, nil unless onboard a
// carrier.
func (d Delivery) CurrentVoyage() *Voyage {
	if d.TransportStatus() != OnboardCarrier {
		return nil
	}
	return d.MostRecentHandlingActivity.Voyage
}

// IsMisdirected reports whether the cargo has been physically handled in a
// way the itinerary does not expect. A cargo that has not been handled is
// never misdirected.
func (d Delivery) IsMisdirected(itinerary Itinerary) bool {
	if d.MostRecentPhysicalHandlingActivity == nil {
		return false
	}
	return !itinerary.IsExpectedActivity(*d.MostRecentPhysicalHandlingActivity)
}

// IsOnRoute reports whether the cargo is both correctly routed and not
// misdirected.
func (d Delivery) IsOnRoute(itinerary Itinerary, routeSpecification RouteSpecification) bool {
	return routeSpecification.IsSatisfiedBy(itinerary) && !d.IsMisdirected(itinerary)
}

// IsUnloadedIn reports whether the most recent handling was an unload at
// exactly this location.
func (d Delivery) IsUnloadedIn(location *Location) bool {
	return d.MostRecentHandlingActivity != nil &&
		d.MostRecentHandlingActivity.Type == Unload &&
		d.MostRecentHandlingActivity.Location.SameIdentityAs(location)
}

// Equal compares deliveries by their handling facts, ignoring the
// last-updated timestamp.
func (d Delivery) Equal(other Delivery) bool {
	return equalActivityPtr(d.MostRecentHandlingActivity, other.MostRecentHandlingActivity) &&
		equalActivityPtr(d.MostRecentPhysicalHandlingActivity, other.MostRecentPhysicalHandlingActivity)
}

func equalActivityPtr(a, b *HandlingActivity) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}
