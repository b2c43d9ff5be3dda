package domain

import (
	"testing"
	"time"
)

func TestItineraryMatchesExpectedActivities(t *testing.T) {
	itinerary := hongkongToStockholm()
	pacific := itinerary.Legs[0].Voyage
	atlantic := itinerary.Legs[2].Voyage

	expected := []HandlingActivity{
		activity(Receive, hongkong, nil),
		activity(Load, hongkong, pacific),
		activity(Unload, newyork, pacific),
		activity(Unload, stockholm, atlantic),
		activity(Claim, stockholm, nil),
	}
	for _, a := range expected {
		if !itinerary.IsExpectedActivity(a) {
			t.Errorf("expected %s to fit the plan", a)
		}
	}

	unexpected := []HandlingActivity{
		activity(Receive, tokyo, nil),
		activity(Load, tokyo, pacific),
		activity(Unload, hamburg, atlantic),
		activity(Claim, hongkong, nil),
		activity(Customs, stockholm, nil),
	}
	for _, a := range unexpected {
		if itinerary.IsExpectedActivity(a) {
			t.Errorf("expected %s to be off plan", a)
		}
	}

	if empty := (Itinerary{}); empty.IsExpectedActivity(activity(Receive, hongkong, nil)) {
		t.Error("empty itinerary should expect nothing")
	}
}

func TestItineraryActivitySucceeding(t *testing.T) {
	itinerary := hongkongToStockholm()
	pacific := itinerary.Legs[0].Voyage
	overland := itinerary.Legs[1].Voyage
	atlantic := itinerary.Legs[2].Voyage

	first := itinerary.ActivitySucceeding(nil)
	if first == nil || !first.Equal(activity(Receive, hongkong, nil)) {
		t.Fatalf("first expected activity = %v, want RECEIVE at CNHKG", first)
	}

	received := activity(Receive, hongkong, nil)
	if next := itinerary.ActivitySucceeding(&received); next != nil {
		t.Errorf("after RECEIVE the plan derives no successor, got %v", next)
	}

	loaded := activity(Load, hongkong, pacific)
	next := itinerary.ActivitySucceeding(&loaded)
	if next == nil || !next.Equal(activity(Unload, newyork, pacific)) {
		t.Fatalf("after LOAD at CNHKG = %v, want UNLOAD at USNYC", next)
	}

	unloaded := activity(Unload, newyork, pacific)
	next = itinerary.ActivitySucceeding(&unloaded)
	if next == nil || !next.Equal(activity(Load, newyork, overland)) {
		t.Fatalf("after UNLOAD at USNYC = %v, want LOAD at USNYC onto V200", next)
	}

	lastUnload := activity(Unload, stockholm, atlantic)
	next = itinerary.ActivitySucceeding(&lastUnload)
	if next == nil || !next.Equal(activity(Claim, stockholm, nil)) {
		t.Fatalf("after final UNLOAD = %v, want CLAIM at SESTO", next)
	}

	offPlan := activity(Unload, hamburg, atlantic)
	if next := itinerary.ActivitySucceeding(&offPlan); next != nil {
		t.Errorf("off-plan activity should have no successor, got %v", next)
	}
}

func TestItineraryStrictlyPriorOf(t *testing.T) {
	itinerary := hongkongToStockholm()
	pacific := itinerary.Legs[0].Voyage
	overland := itinerary.Legs[1].Voyage

	load1 := activity(Load, hongkong, pacific)
	unload1 := activity(Unload, newyork, pacific)
	load2 := activity(Load, newyork, overland)
	receive := activity(Receive, hongkong, nil)

	if prior := itinerary.StrictlyPriorOf(load1, unload1); prior == nil || !prior.Equal(load1) {
		t.Errorf("LOAD should precede UNLOAD on the same leg, got %v", prior)
	}
	if prior := itinerary.StrictlyPriorOf(load2, unload1); prior == nil || !prior.Equal(unload1) {
		t.Errorf("leg 1 UNLOAD should precede leg 2 LOAD, got %v", prior)
	}
	if prior := itinerary.StrictlyPriorOf(receive, load1); prior == nil || !prior.Equal(receive) {
		t.Errorf("RECEIVE should precede the first LOAD, got %v", prior)
	}

	// An unmatched activity sorts after everything on the plan.
	offPlan := activity(Unload, hamburg, pacific)
	if prior := itinerary.StrictlyPriorOf(offPlan, load1); prior == nil || !prior.Equal(load1) {
		t.Errorf("matched activity should precede unmatched one, got %v", prior)
	}

	// Ties and double-unmatched cases have no strict order.
	if prior := itinerary.StrictlyPriorOf(load1, load1); prior != nil {
		t.Errorf("identical activities have no strict order, got %v", prior)
	}
	customs := activity(Customs, newyork, nil)
	if prior := itinerary.StrictlyPriorOf(offPlan, customs); prior != nil {
		t.Errorf("two unmatched activities have no strict order, got %v", prior)
	}
}

func TestItineraryTruncatedAfter(t *testing.T) {
	itinerary := hongkongToStockholm()

	truncated := itinerary.TruncatedAfter(newyork)
	if len(truncated.Legs) != 1 {
		t.Fatalf("truncated after USNYC: got %d legs, want 1", len(truncated.Legs))
	}
	if !truncated.Legs[0].Equal(itinerary.Legs[0]) {
		t.Errorf("truncated after USNYC should keep leg 1 whole")
	}

	if got := itinerary.TruncatedAfter(hongkong); !got.IsEmpty() {
		t.Errorf("truncating at the first load location should leave nothing, got %s", got)
	}

	if got := itinerary.TruncatedAfter(chicago); !got.Equal(itinerary) {
		t.Errorf("truncating at a location off the plan should change nothing, got %s", got)
	}
}

func TestItineraryTruncatedAfterMidVoyageStop(t *testing.T) {
	// Tokyo is a scheduled stop of V100 inside the Hongkong -> New York
	// leg, so truncation shortens that leg instead of dropping it.
	itinerary := hongkongToStockholm()
	pacific := itinerary.Legs[0].Voyage

	truncated := itinerary.TruncatedAfter(tokyo)
	if len(truncated.Legs) != 1 {
		t.Fatalf("truncated after JNTKO: got %d legs, want 1", len(truncated.Legs))
	}
	want := mustLeg(pacific, hongkong, tokyo)
	if !truncated.Legs[0].Equal(want) {
		t.Errorf("truncated leg = %+v, want shortened leg ending at JNTKO", truncated.Legs[0])
	}
}

func TestItineraryWithRescheduledVoyage(t *testing.T) {
	itinerary := hongkongToStockholm()
	overland := itinerary.Legs[1].Voyage

	// A small delay keeps the plan intact with updated times.
	if err := overland.DepartureRescheduled(newyork, hoursAfter(212)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated := itinerary.WithRescheduledVoyage(overland)
	if len(updated.Legs) != 3 {
		t.Fatalf("small delay: got %d legs, want 3", len(updated.Legs))
	}
	if !updated.Legs[1].LoadTime.Equal(hoursAfter(212)) {
		t.Errorf("leg 2 load time = %v, want %v", updated.Legs[1].LoadTime, hoursAfter(212))
	}
	if !updated.Legs[1].UnloadTime.Equal(hoursAfter(242)) {
		t.Errorf("leg 2 unload time = %v, want transit preserved at %v", updated.Legs[1].UnloadTime, hoursAfter(242))
	}

	// Delaying V200 past V300's departure from Dallas breaks the plan at
	// leg 3.
	itinerary = hongkongToStockholm()
	overland = itinerary.Legs[1].Voyage
	if err := overland.DepartureRescheduled(newyork, hoursAfter(230)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated = itinerary.WithRescheduledVoyage(overland)
	if len(updated.Legs) != 2 {
		t.Fatalf("late delay: got %d legs, want 2", len(updated.Legs))
	}

	// Moving V200's departure before V100's arrival at New York breaks the
	// plan at leg 2.
	itinerary = hongkongToStockholm()
	overland = itinerary.Legs[1].Voyage
	if err := overland.DepartureRescheduled(newyork, hoursAfter(190)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated = itinerary.WithRescheduledVoyage(overland)
	if len(updated.Legs) != 1 {
		t.Fatalf("early reschedule: got %d legs, want 1", len(updated.Legs))
	}
}

func TestItineraryEndpoints(t *testing.T) {
	itinerary := hongkongToStockholm()

	if got := itinerary.FirstLoadLocation(); !got.SameIdentityAs(hongkong) {
		t.Errorf("first load location = %s, want CNHKG", got)
	}
	if got := itinerary.LastUnloadLocation(); !got.SameIdentityAs(stockholm) {
		t.Errorf("last unload location = %s, want SESTO", got)
	}
	if got := itinerary.FinalArrivalTime(); !got.Equal(hoursAfter(430)) {
		t.Errorf("final arrival time = %v, want %v", got, hoursAfter(430))
	}

	locations := itinerary.Locations()
	wantCodes := []UnLocode{"CNHKG", "USNYC", "USDAL", "SESTO"}
	if len(locations) != len(wantCodes) {
		t.Fatalf("locations = %d entries, want %d", len(locations), len(wantCodes))
	}
	for i, want := range wantCodes {
		if locations[i].UnLocode != want {
			t.Errorf("locations[%d] = %s, want %s", i, locations[i].UnLocode, want)
		}
	}

	var empty Itinerary
	if !empty.IsEmpty() {
		t.Error("zero value should be empty")
	}
	if empty.FirstLoadLocation() != nil || empty.LastUnloadLocation() != nil {
		t.Error("empty itinerary has no endpoints")
	}
	if !empty.FinalArrivalTime().Equal(time.Time{}) {
		t.Error("empty itinerary has no arrival time")
	}
}
