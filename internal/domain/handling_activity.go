package domain

import (
	"fmt"
)

// HandlingActivityType is the kind of thing that can happen to a cargo.
type HandlingActivityType int

const (
	Receive HandlingActivityType = iota
	Load
	Unload
	Customs
	Claim
)

func (t HandlingActivityType) String() string {
	switch t {
	case Receive:
		return "RECEIVE"
	case Load:
		return "LOAD"
	case Unload:
		return "UNLOAD"
	case Customs:
		return "CUSTOMS"
	case Claim:
		return "CLAIM"
	}
	return "INVALID"
}

// ParseHandlingActivityType maps the wire/storage name back to a type.
func ParseHandlingActivityType(name string) (HandlingActivityType, error) {
	switch name {
	case "RECEIVE":
		return Receive, nil
	case "LOAD":
		return Load, nil
	case "UNLOAD":
		return Unload, nil
	case "CUSTOMS":
		return Customs, nil
	case "CLAIM":
		return Claim, nil
	}
	return 0, fmt.Errorf("parse handling activity type: unknown type %q", name)
}

// IsVoyageRelated reports whether the type involves a carrier voyage.
func (t HandlingActivityType) IsVoyageRelated() bool {
	return t == Load || t == Unload
}

// IsPhysical reports whether the type moves the cargo itself. Everything
// except customs inspection is physical.
func (t HandlingActivityType) IsPhysical() bool {
	return t != Customs
}

func (t HandlingActivityType) valid() bool {
	return t >= Receive && t <= Claim
}

// HandlingActivity describes a single handling of a cargo, predicted or
// actual: what happened (or should happen), where, and aboard which voyage
// when the type is voyage-related. It is a value object and carries no
// reference to any particular cargo.
type HandlingActivity struct {
	Type     HandlingActivityType
	Location *Location
	Voyage   *Voyage
}

// NewHandlingActivity builds a validated activity. A voyage is required for
// LOAD and UNLOAD and forbidden for every other type.
func NewHandlingActivity(activityType HandlingActivityType, location *Location, voyage *Voyage) (HandlingActivity, error) {
	if !activityType.valid() {
		return HandlingActivity{}, fmt.Errorf("new handling activity: invalid type %d", activityType)
	}
	if location == nil {
		return HandlingActivity{}, fmt.Errorf("new handling activity: %s requires a location", activityType)
	}
	if activityType.IsVoyageRelated() && voyage == nil {
		return HandlingActivity{}, fmt.Errorf("new handling activity: %s at %s requires a voyage", activityType, location.UnLocode)
	}
	if !activityType.IsVoyageRelated() && voyage != nil {
		return HandlingActivity{}, fmt.Errorf("new handling activity: %s at %s must not reference a voyage", activityType, location.UnLocode)
	}
	return HandlingActivity{Type: activityType, Location: location, Voyage: voyage}, nil
}

// Equal compares activities by value: type, location identity and voyage
// identity.
func (a HandlingActivity) Equal(other HandlingActivity) bool {
	if a.Type != other.Type {
		return false
	}
	if !a.Location.SameIdentityAs(other.Location) {
		return false
	}
	if (a.Voyage == nil) != (other.Voyage == nil) {
		return false
	}
	return a.Voyage == nil || a.Voyage.SameIdentityAs(other.Voyage)
}

func (a HandlingActivity) String() string {
	if a.Voyage != nil {
		return fmt.Sprintf("%s in %s aboard %s", a.Type, a.Location.UnLocode, a.Voyage.Number)
	}
	return fmt.Sprintf("%s in %s", a.Type, a.Location.UnLocode)
}
