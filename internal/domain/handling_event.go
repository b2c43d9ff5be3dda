package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/atomic"
)

// EventSequenceNumber identifies a handling event. Numbers are drawn from a
// monotonic process-wide counter.
type EventSequenceNumber int64

var eventSequence atomic.Int64

// NextEventSequenceNumber draws the next event identity.
func NextEventSequenceNumber() EventSequenceNumber {
	return EventSequenceNumber(eventSequence.Inc())
}

// SyncEventSequence advances the counter to at least n, so identities keep
// climbing after previously registered events are loaded back in.
func SyncEventSequence(n EventSequenceNumber) {
	for {
		current := eventSequence.Load()
		if current >= int64(n) || eventSequence.CompareAndSwap(current, int64(n)) {
			return
		}
	}
}

// OperatorCode identifies the carrier operator reporting a voyage-related
// handling: exactly five letters.
type OperatorCode string

var operatorCodePattern = regexp.MustCompile(`^[A-Z]{5}$`)

func NewOperatorCode(code string) (OperatorCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !operatorCodePattern.MatchString(normalized) {
		return "", fmt.Errorf("new operator code: %q must be exactly five letters", code)
	}
	return OperatorCode(normalized), nil
}

// HandlingEvent is one entry of the append-only handling log: a handling
// activity that actually happened to a cargo, with the time it physically
// happened (completion) and the time the system learned of it
// (registration). Events are immutable once created and are never deleted.
type HandlingEvent struct {
	SequenceNumber   EventSequenceNumber
	Cargo            *Cargo
	Activity         HandlingActivity
	CompletionTime   time.Time
	RegistrationTime time.Time
	OperatorCode     OperatorCode
}

// NewHandlingEvent records a handling of the given cargo, drawing a fresh
// sequence number. An operator code is required exactly when the activity
// is voyage-related.
func NewHandlingEvent(cargo *Cargo, activity HandlingActivity, completionTime, registrationTime time.Time, operatorCode OperatorCode) (*HandlingEvent, error) {
	if cargo == nil {
		return nil, errors.New("new handling event: cargo is required")
	}
	if completionTime.IsZero() || registrationTime.IsZero() {
		return nil, fmt.Errorf("new handling event for cargo %s: completion and registration times are required", cargo.TrackingID)
	}
	if activity.Type.IsVoyageRelated() && operatorCode == "" {
		return nil, fmt.Errorf("new handling event for cargo %s: %s requires an operator code", cargo.TrackingID, activity.Type)
	}
	if !activity.Type.IsVoyageRelated() && operatorCode != "" {
		return nil, fmt.Errorf("new handling event for cargo %s: %s must not carry an operator code", cargo.TrackingID, activity.Type)
	}

	return &HandlingEvent{
		SequenceNumber:   NextEventSequenceNumber(),
		Cargo:            cargo,
		Activity:         activity,
		CompletionTime:   completionTime,
		RegistrationTime: registrationTime,
		OperatorCode:     operatorCode,
	}, nil
}

// SameIdentityAs compares events by sequence number only.
func (e *HandlingEvent) SameIdentityAs(other *HandlingEvent) bool {
	if e == nil || other == nil {
		return false
	}
	return e.SequenceNumber == other.SequenceNumber
}

// SameValueAs reports whether two events describe the same real-world
// handling: same cargo, same completion time, same activity. Registration
// time is deliberately ignored, so two registrations of one event are
// value-equal.
func (e *HandlingEvent) SameValueAs(other *HandlingEvent) bool {
	if e == nil || other == nil {
		return false
	}
	return e.Cargo.SameIdentityAs(other.Cargo) &&
		e.CompletionTime.Equal(other.CompletionTime) &&
		e.Activity.Equal(other.Activity)
}

func (e *HandlingEvent) String() string {
	return fmt.Sprintf("event #%d: cargo %s %s at %s", e.SequenceNumber, e.Cargo.TrackingID, e.Activity, e.CompletionTime.Format(time.RFC3339))
}
