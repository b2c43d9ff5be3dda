package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TrackingID identifies a cargo throughout its lifecycle.
type TrackingID string

func NewTrackingID(id string) (TrackingID, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", errors.New("new tracking id: must not be empty")
	}
	return TrackingID(trimmed), nil
}

// RoutingStatus describes how the itinerary relates to the route
// specification.
type RoutingStatus int

const (
	NotRouted RoutingStatus = iota
	Routed
	Misrouted
)

func (s RoutingStatus) String() string {
	switch s {
	case NotRouted:
		return "NOT_ROUTED"
	case Routed:
		return "ROUTED"
	case Misrouted:
		return "MISROUTED"
	}
	return "UNKNOWN"
}

// Cargo is the aggregate root of the model. It binds the customer's route
// specification, the planned itinerary and the derived delivery snapshot,
// and is the sole unit of consistency: itinerary, specification and
// delivery have no lifecycle outside it. Status queries are recomputed on
// demand from the current triple, never cached. Callers must serialize
// mutation per tracking id.
type Cargo struct {
	TrackingID         TrackingID
	RouteSpecification RouteSpecification
	Itinerary          Itinerary
	Delivery           Delivery
}

func NewCargo(trackingID TrackingID, routeSpecification RouteSpecification) (*Cargo, error) {
	if trackingID == "" {
		return nil, errors.New("new cargo: tracking id must not be empty")
	}
	if routeSpecification.Origin == nil || routeSpecification.Destination == nil {
		return nil, fmt.Errorf("new cargo %s: route specification is required", trackingID)
	}
	return &Cargo{
		TrackingID:         trackingID,
		RouteSpecification: routeSpecification,
		Delivery:           BeforeHandling(),
	}, nil
}

// SameIdentityAs compares cargos by tracking id only.
func (c *Cargo) SameIdentityAs(other *Cargo) bool {
	if c == nil || other == nil {
		return false
	}
	return c.TrackingID == other.TrackingID
}

// Handled applies a handling activity to the cargo. Activities that do not
// succeed the most recent physical handling along the itinerary are stale
// duplicates or out-of-order arrivals and are silently dropped, which makes
// Handled an idempotent, order-tolerant merge rather than a strict append.
func (c *Cargo) Handled(activity HandlingActivity) {
	if c.succeedsMostRecentActivity(activity) {
		c.Delivery = c.Delivery.OnHandling(activity)
	}
}

// succeedsMostRecentActivity decides whether the new activity moves the
// cargo forward along the plan. Anything is accepted until a physical
// handling exists to order against (customs inspections leave no physical
// marker); afterwards the activity is rejected only when the itinerary
// places it strictly before the most recent physical handling.
func (c *Cargo) succeedsMostRecentActivity(activity HandlingActivity) bool {
	if c.Delivery.MostRecentPhysicalHandlingActivity == nil {
		return true
	}
	prior := c.Itinerary.StrictlyPriorOf(*c.Delivery.MostRecentPhysicalHandlingActivity, activity)
	return prior == nil || !prior.Equal(activity)
}

// AssignToRoute attaches a new itinerary to the cargo. When the cargo was
// already routed the delivery snapshot is re-derived first so its handling
// facts are interpreted against the new plan.
func (c *Cargo) AssignToRoute(itinerary Itinerary) error {
	if itinerary.IsEmpty() {
		return fmt.Errorf("assign cargo %s to route: itinerary must not be empty", c.TrackingID)
	}
	if c.RoutingStatus() != NotRouted {
		c.Delivery = c.Delivery.OnRouting()
	}
	c.Itinerary = itinerary
	return nil
}

// SpecifyNewRoute replaces the route specification, leaving itinerary and
// delivery untouched. The cargo is misrouted until a satisfying itinerary
// is assigned.
func (c *Cargo) SpecifyNewRoute(routeSpecification RouteSpecification) error {
	if routeSpecification.Origin == nil || routeSpecification.Destination == nil {
		return fmt.Errorf("specify new route for cargo %s: route specification is required", c.TrackingID)
	}
	c.RouteSpecification = routeSpecification
	return nil
}

// RoutingStatus derives how the current itinerary relates to the
// specification.
func (c *Cargo) RoutingStatus() RoutingStatus {
	switch {
	case c.Itinerary.IsEmpty():
		return NotRouted
	case c.RouteSpecification.IsSatisfiedBy(c.Itinerary):
		return Routed
	}
	return Misrouted
}

// TransportStatus derives the cargo's physical whereabouts.
func (c *Cargo) TransportStatus() TransportStatus {
	return c.Delivery.TransportStatus()
}

// LastKnownLocation is where the cargo was last handled, nil before any
// handling.
func (c *Cargo) LastKnownLocation() *Location {
	return c.Delivery.LastKnownLocation()
}

// CurrentVoyage is the voyage the cargo is aboard, nil unless onboard.
func (c *Cargo) CurrentVoyage() *Voyage {
	return c.Delivery.CurrentVoyage()
}

// IsMisdirected reports whether the cargo was physically handled off plan.
func (c *Cargo) IsMisdirected() bool {
	return c.Delivery.IsMisdirected(c.Itinerary)
}

// CustomsClearancePoint is the first location on the itinerary inside the
// destination's customs zone, nil when unrouted, when the destination has
// no zone, or when the plan never enters it.
func (c *Cargo) CustomsClearancePoint() *Location {
	if c.RoutingStatus() == NotRouted {
		return nil
	}
	zone := c.RouteSpecification.Destination.Zone
	if zone == nil {
		return nil
	}
	return zone.EntryPoint(c.Itinerary.Locations())
}

// NextExpectedActivity is what should happen to the cargo next, nil when
// the cargo is off plan. A cargo sitting unloaded at the customs clearance
// point is expected to clear customs before moving on.
func (c *Cargo) NextExpectedActivity() *HandlingActivity {
	if !c.Delivery.IsOnRoute(c.Itinerary, c.RouteSpecification) {
		return nil
	}

	if clearancePoint := c.CustomsClearancePoint(); clearancePoint != nil && c.Delivery.IsUnloadedIn(clearancePoint) {
		activity, err := NewHandlingActivity(Customs, clearancePoint, nil)
		if err != nil {
			return nil
		}
		return &activity
	}

	return c.Itinerary.ActivitySucceeding(c.Delivery.MostRecentPhysicalHandlingActivity)
}

// IsReadyToClaim reports whether the cargo can be released to the customer.
// When customs clearance happens at the destination itself the cargo must
// have cleared customs there; otherwise arrival (unload) at the destination
// is enough.
func (c *Cargo) IsReadyToClaim() bool {
	destination := c.RouteSpecification.Destination

	if clearancePoint := c.CustomsClearancePoint(); clearancePoint != nil && clearancePoint.SameIdentityAs(destination) {
		if c.Delivery.MostRecentHandlingActivity == nil {
			return false
		}
		cleared, err := NewHandlingActivity(Customs, clearancePoint, nil)
		if err != nil {
			return false
		}
		return c.Delivery.MostRecentHandlingActivity.Equal(cleared)
	}

	return c.Delivery.IsUnloadedIn(destination)
}

// EarliestReroutingLocation is the first location from which a replacement
// route can realistically start. A misdirected cargo reroutes from where it
// is (or from the next arrival it is committed to while onboard); a cargo
// still on plan reroutes from the unload location of the leg it is
// currently executing. Before any physical handling the journey can still
// be replanned from the origin.
func (c *Cargo) EarliestReroutingLocation() *Location {
	if c.Delivery.MostRecentPhysicalHandlingActivity == nil {
		return c.RouteSpecification.Origin
	}

	if c.IsMisdirected() {
		if c.TransportStatus() == OnboardCarrier {
			return c.CurrentVoyage().ArrivalLocationWhenDepartedFrom(c.LastKnownLocation())
		}
		return c.LastKnownLocation()
	}

	match := c.Itinerary.MatchLeg(*c.Delivery.MostRecentPhysicalHandlingActivity)
	if !match.Matched() {
		return c.LastKnownLocation()
	}
	return match.Leg.UnloadLocation
}

// ItineraryMergedWith grafts a proposed continuation onto the part of the
// current plan that has already been acted on or committed to. An unrouted
// cargo simply takes the proposal wholesale. A misdirected cargo onboard a
// carrier must first ride it to its next arrival, so a leg to that arrival
// is synthesized before the continuation. Otherwise the old plan is
// truncated at the earliest rerouting location and the continuation is
// appended there.
func (c *Cargo) ItineraryMergedWith(other Itinerary) (Itinerary, error) {
	switch {
	case c.RoutingStatus() == NotRouted:
		return other, nil

	case c.IsMisdirected() && c.TransportStatus() == OnboardCarrier:
		lastKnown := c.LastKnownLocation()
		voyage := c.CurrentVoyage()
		arrival := voyage.ArrivalLocationWhenDepartedFrom(lastKnown)
		if arrival == nil {
			return Itinerary{}, fmt.Errorf(
				"merge itinerary for cargo %s: voyage %s has no arrival after %s",
				c.TrackingID, voyage.Number, lastKnown.UnLocode,
			)
		}
		currentLeg, err := DeriveLeg(voyage, lastKnown, arrival)
		if err != nil {
			return Itinerary{}, fmt.Errorf("merge itinerary for cargo %s: %w", c.TrackingID, err)
		}
		return c.Itinerary.TruncatedAfter(lastKnown).WithLeg(currentLeg).AppendBy(other), nil
	}

	return c.Itinerary.TruncatedAfter(c.EarliestReroutingLocation()).AppendBy(other), nil
}
