package domain

import (
	"testing"
)

func TestNewHandlingEventOperatorCodeRules(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage

	load := activity(Load, hongkong, pacific)
	if _, err := NewHandlingEvent(cargo, load, hoursAfter(1), hoursAfter(2), ""); err == nil {
		t.Error("LOAD without an operator code should be rejected")
	}
	if _, err := NewHandlingEvent(cargo, load, hoursAfter(1), hoursAfter(2), "ABCDE"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	receive := activity(Receive, hongkong, nil)
	if _, err := NewHandlingEvent(cargo, receive, hoursAfter(1), hoursAfter(2), "ABCDE"); err == nil {
		t.Error("RECEIVE with an operator code should be rejected")
	}
	if _, err := NewHandlingEvent(cargo, receive, hoursAfter(1), hoursAfter(2), ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewOperatorCode(t *testing.T) {
	code, err := NewOperatorCode(" abcde ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "ABCDE" {
		t.Errorf("operator code = %q, want normalized ABCDE", code)
	}

	for _, invalid := range []string{"", "ABCD", "ABCDEF", "AB1DE"} {
		if _, err := NewOperatorCode(invalid); err == nil {
			t.Errorf("operator code %q should be rejected", invalid)
		}
	}
}

func TestNewUnLocode(t *testing.T) {
	code, err := NewUnLocode("sesto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "SESTO" {
		t.Errorf("unlocode = %q, want normalized SESTO", code)
	}

	if _, err := NewUnLocode("US29A"); err != nil {
		t.Errorf("digits 2-9 are allowed after the country prefix: %v", err)
	}

	for _, invalid := range []string{"", "SE", "SESTOX", "S1STO", "SEST0", "SEST1"} {
		if _, err := NewUnLocode(invalid); err == nil {
			t.Errorf("unlocode %q should be rejected", invalid)
		}
	}
}

func TestEventSequenceNumbersClimb(t *testing.T) {
	first := NextEventSequenceNumber()
	second := NextEventSequenceNumber()
	if second <= first {
		t.Fatalf("sequence numbers must climb, got %d then %d", first, second)
	}

	SyncEventSequence(second + 100)
	if next := NextEventSequenceNumber(); next <= second+100 {
		t.Fatalf("after sync to %d the next number is %d", second+100, next)
	}

	// Syncing backwards never rewinds the counter.
	current := NextEventSequenceNumber()
	SyncEventSequence(1)
	if next := NextEventSequenceNumber(); next <= current {
		t.Fatalf("sync must not rewind, got %d after %d", next, current)
	}
}

func TestHandlingHistoryDistinctEventsByCompletionTime(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage

	receive, err := NewHandlingEvent(cargo, activity(Receive, hongkong, nil), hoursAfter(1), hoursAfter(1), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	load, err := NewHandlingEvent(cargo, activity(Load, hongkong, pacific), hoursAfter(2), hoursAfter(3), "ABCDE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The same load reported again later by another operator.
	loadAgain, err := NewHandlingEvent(cargo, activity(Load, hongkong, pacific), hoursAfter(2), hoursAfter(9), "FGHIJ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	customs, err := NewHandlingEvent(cargo, activity(Customs, stockholm, nil), hoursAfter(4), hoursAfter(5), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !load.SameValueAs(loadAgain) {
		t.Fatal("re-registered handling should be value-equal to the original")
	}
	if load.SameIdentityAs(loadAgain) {
		t.Fatal("re-registered handling is a distinct event identity")
	}

	history, err := NewHandlingHistory([]*HandlingEvent{load, customs, loadAgain, receive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	distinct := history.DistinctEventsByCompletionTime()
	if len(distinct) != 3 {
		t.Fatalf("distinct events = %d, want 3", len(distinct))
	}
	if !distinct[0].SameIdentityAs(receive) || !distinct[1].SameIdentityAs(load) || !distinct[2].SameIdentityAs(customs) {
		t.Errorf("distinct events out of order: %v, %v, %v", distinct[0], distinct[1], distinct[2])
	}

	if got := history.MostRecentlyCompletedEvent(); !got.SameIdentityAs(customs) {
		t.Errorf("most recently completed = %v, want the customs event", got)
	}
	if got := history.MostRecentPhysicalHandling(); !got.SameIdentityAs(load) {
		t.Errorf("most recent physical handling = %v, want the load event", got)
	}
}

func TestNewHandlingHistoryRejectsMixedCargos(t *testing.T) {
	cargo := bookAndRoute(t)
	other, err := NewCargo("OTHER1", testRouteSpecification(t, hongkong, stockholm))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := NewHandlingEvent(cargo, activity(Receive, hongkong, nil), hoursAfter(1), hoursAfter(1), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewHandlingEvent(other, activity(Receive, hongkong, nil), hoursAfter(2), hoursAfter(2), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewHandlingHistory([]*HandlingEvent{first, second}); err == nil {
		t.Fatal("history spanning two cargos should be rejected")
	}
}
