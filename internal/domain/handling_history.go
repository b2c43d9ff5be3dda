package domain

import (
	"fmt"
	"sort"
)

// HandlingHistory is a read-only projection over the handling events of a
// single cargo. Construction fails if the events reference different
// cargos.
type HandlingHistory struct {
	events []*HandlingEvent
}

func NewHandlingHistory(events []*HandlingEvent) (HandlingHistory, error) {
	for _, e := range events {
		if e == nil {
			return HandlingHistory{}, fmt.Errorf("new handling history: nil event")
		}
		if !e.Cargo.SameIdentityAs(events[0].Cargo) {
			return HandlingHistory{}, fmt.Errorf(
				"new handling history: events reference different cargos (%s and %s)",
				events[0].Cargo.TrackingID, e.Cargo.TrackingID,
			)
		}
	}
	copied := make([]*HandlingEvent, len(events))
	copy(copied, events)
	return HandlingHistory{events: copied}, nil
}

// DistinctEventsByCompletionTime returns the events with value-duplicates
// removed, ordered by ascending completion time. Two registrations of the
// same real-world handling collapse into whichever was seen first.
func (h HandlingHistory) DistinctEventsByCompletionTime() []*HandlingEvent {
	distinct := make([]*HandlingEvent, 0, len(h.events))
	for _, e := range h.events {
		duplicate := false
		for _, seen := range distinct {
			if e.SameValueAs(seen) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			distinct = append(distinct, e)
		}
	}

	sort.SliceStable(distinct, func(i, j int) bool {
		if !distinct[i].CompletionTime.Equal(distinct[j].CompletionTime) {
			return distinct[i].CompletionTime.Before(distinct[j].CompletionTime)
		}
		return distinct[i].SequenceNumber < distinct[j].SequenceNumber
	})

	return distinct
}

// MostRecentlyCompletedEvent returns the last event by completion time, nil
// for an empty history.
func (h HandlingHistory) MostRecentlyCompletedEvent() *HandlingEvent {
	distinct := h.DistinctEventsByCompletionTime()
	if len(distinct) == 0 {
		return nil
	}
	return distinct[len(distinct)-1]
}

// MostRecentPhysicalHandling returns the last physical (non-customs) event
// by completion time, nil when the cargo has not been physically handled.
func (h HandlingHistory) MostRecentPhysicalHandling() *HandlingEvent {
	distinct := h.DistinctEventsByCompletionTime()
	for i := len(distinct) - 1; i >= 0; i-- {
		if distinct[i].Activity.Type.IsPhysical() {
			return distinct[i]
		}
	}
	return nil
}
