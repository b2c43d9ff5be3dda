package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// UnLocode is a United Nations location code: two country letters followed
// by three code characters (letters or digits 2-9). Codes are stored
// upper-cased so equality is case-insensitive.
type UnLocode string

var unLocodePattern = regexp.MustCompile(`^[A-Z]{2}[A-Z2-9]{3}$`)

func NewUnLocode(code string) (UnLocode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !unLocodePattern.MatchString(normalized) {
		return "", fmt.Errorf("new unlocode: %q is not a valid UN location code", code)
	}
	return UnLocode(normalized), nil
}

// CustomsZone groups locations that share a customs regime. Identity is the
// two-letter zone code; two zones with the same code are the same zone.
type CustomsZone struct {
	Code string
	Name string
}

func NewCustomsZone(code, name string) (*CustomsZone, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 2 {
		return nil, fmt.Errorf("new customs zone: code %q must be two letters", code)
	}
	return &CustomsZone{Code: normalized, Name: name}, nil
}

// Includes reports whether the location clears customs in this zone.
func (z *CustomsZone) Includes(l *Location) bool {
	return l != nil && l.Zone != nil && l.Zone.Code == z.Code
}

// EntryPoint returns the first location of the route that lies in this zone,
// or nil when the route never enters it.
func (z *CustomsZone) EntryPoint(route []*Location) *Location {
	for _, l := range route {
		if z.Includes(l) {
			return l
		}
	}
	return nil
}

// Location is a port, terminal or other place cargo is handled at.
// Identity is the UnLocode alone; name, time zone and customs zone are
// descriptive attributes.
type Location struct {
	UnLocode UnLocode
	Name     string
	TimeZone string
	Zone     *CustomsZone
}

func NewLocation(code UnLocode, name, timeZone string, zone *CustomsZone) (*Location, error) {
	if code == "" {
		return nil, fmt.Errorf("new location: unlocode must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("new location %s: name must not be empty", code)
	}
	return &Location{UnLocode: code, Name: name, TimeZone: timeZone, Zone: zone}, nil
}

// SameIdentityAs compares locations by UnLocode only.
func (l *Location) SameIdentityAs(other *Location) bool {
	if l == nil || other == nil {
		return false
	}
	return l.UnLocode == other.UnLocode
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.UnLocode)
}
