package domain

import (
	"testing"
)

func testRouteSpecification(t *testing.T, origin, destination *Location) RouteSpecification {
	t.Helper()
	routeSpecification, err := NewRouteSpecification(origin, destination, hoursAfter(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return routeSpecification
}

func bookAndRoute(t *testing.T) *Cargo {
	t.Helper()
	cargo, err := NewCargo("ABC123", testRouteSpecification(t, hongkong, stockholm))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cargo.AssignToRoute(hongkongToStockholm()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cargo
}

func TestCargoRoutingStatus(t *testing.T) {
	cargo, err := NewCargo("ABC123", testRouteSpecification(t, hongkong, stockholm))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cargo.RoutingStatus(); got != NotRouted {
		t.Fatalf("routing status = %s, want NOT_ROUTED", got)
	}
	if cargo.CustomsClearancePoint() != nil {
		t.Error("unrouted cargo has no customs clearance point")
	}

	if err := cargo.AssignToRoute(hongkongToStockholm()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cargo.RoutingStatus(); got != Routed {
		t.Fatalf("routing status = %s, want ROUTED", got)
	}

	if err := cargo.SpecifyNewRoute(testRouteSpecification(t, hongkong, hamburg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cargo.RoutingStatus(); got != Misrouted {
		t.Fatalf("routing status = %s, want MISROUTED", got)
	}
}

func TestCargoHandledFullJourney(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage
	overland := cargo.Itinerary.Legs[1].Voyage
	atlantic := cargo.Itinerary.Legs[2].Voyage

	if got := cargo.TransportStatus(); got != NotReceived {
		t.Fatalf("transport status = %s, want NOT_RECEIVED", got)
	}
	if next := cargo.NextExpectedActivity(); next == nil || !next.Equal(activity(Receive, hongkong, nil)) {
		t.Fatalf("next expected = %v, want RECEIVE at CNHKG", next)
	}

	cargo.Handled(activity(Receive, hongkong, nil))
	if got := cargo.TransportStatus(); got != InPort {
		t.Fatalf("after RECEIVE: transport status = %s, want IN_PORT", got)
	}
	if got := cargo.LastKnownLocation(); !got.SameIdentityAs(hongkong) {
		t.Fatalf("after RECEIVE: last known location = %s, want CNHKG", got)
	}

	cargo.Handled(activity(Load, hongkong, pacific))
	if got := cargo.TransportStatus(); got != OnboardCarrier {
		t.Fatalf("after LOAD: transport status = %s, want ONBOARD_CARRIER", got)
	}
	if got := cargo.CurrentVoyage(); !got.SameIdentityAs(pacific) {
		t.Fatalf("after LOAD: current voyage = %v, want V100", got)
	}
	if next := cargo.NextExpectedActivity(); next == nil || !next.Equal(activity(Unload, newyork, pacific)) {
		t.Fatalf("next expected = %v, want UNLOAD at USNYC", next)
	}

	cargo.Handled(activity(Unload, newyork, pacific))
	cargo.Handled(activity(Load, newyork, overland))
	cargo.Handled(activity(Unload, dallas, overland))
	cargo.Handled(activity(Load, dallas, atlantic))
	cargo.Handled(activity(Unload, stockholm, atlantic))

	if cargo.IsMisdirected() {
		t.Fatal("cargo that followed the plan must not be misdirected")
	}

	// Stockholm is the itinerary's first location inside the EU zone, so
	// customs clearance happens at the destination itself and claiming
	// waits for it.
	if point := cargo.CustomsClearancePoint(); point == nil || !point.SameIdentityAs(stockholm) {
		t.Fatalf("customs clearance point = %v, want SESTO", point)
	}
	if cargo.IsReadyToClaim() {
		t.Fatal("cargo must clear customs at the destination before claiming")
	}
	if next := cargo.NextExpectedActivity(); next == nil || !next.Equal(activity(Customs, stockholm, nil)) {
		t.Fatalf("next expected = %v, want CUSTOMS at SESTO", next)
	}

	cargo.Handled(activity(Customs, stockholm, nil))
	if got := cargo.TransportStatus(); got != InPort {
		t.Fatalf("after CUSTOMS: transport status = %s, want IN_PORT", got)
	}
	if !cargo.IsReadyToClaim() {
		t.Fatal("customs-cleared cargo at the destination should be claimable")
	}

	cargo.Handled(activity(Claim, stockholm, nil))
	if got := cargo.TransportStatus(); got != Claimed {
		t.Fatalf("after CLAIM: transport status = %s, want CLAIMED", got)
	}
}

func TestCargoHandledIgnoresDuplicatesAndStragglers(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage

	cargo.Handled(activity(Receive, hongkong, nil))
	cargo.Handled(activity(Load, hongkong, pacific))
	cargo.Handled(activity(Unload, newyork, pacific))

	// A redelivered duplicate leaves the snapshot where it is.
	cargo.Handled(activity(Unload, newyork, pacific))
	if got := cargo.TransportStatus(); got != InPort {
		t.Fatalf("after duplicate UNLOAD: transport status = %s, want IN_PORT", got)
	}
	if got := cargo.LastKnownLocation(); !got.SameIdentityAs(newyork) {
		t.Fatalf("after duplicate UNLOAD: last known location = %s, want USNYC", got)
	}

	// A late-arriving earlier activity is dropped: the delivery keeps
	// reflecting the furthest point reached along the plan.
	cargo.Handled(activity(Load, hongkong, pacific))
	if got := cargo.TransportStatus(); got != InPort {
		t.Fatalf("after stale LOAD: transport status = %s, want IN_PORT", got)
	}
	if got := cargo.LastKnownLocation(); !got.SameIdentityAs(newyork) {
		t.Fatalf("after stale LOAD: last known location = %s, want USNYC", got)
	}
	if cargo.IsMisdirected() {
		t.Fatal("stale reports must not flag the cargo as misdirected")
	}
}

func TestCargoCustomsBeforePhysicalHandling(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage

	// An inspection report can overtake every physical report in transit.
	cargo.Handled(activity(Customs, stockholm, nil))

	if got := cargo.TransportStatus(); got != InPort {
		t.Fatalf("after customs-only handling: transport status = %s, want IN_PORT", got)
	}
	if cargo.IsMisdirected() {
		t.Fatal("customs-only handling must not flag the cargo as misdirected")
	}
	if got := cargo.EarliestReroutingLocation(); !got.SameIdentityAs(hongkong) {
		t.Fatalf("earliest rerouting location = %s, want CNHKG", got)
	}

	// Physical reports arriving afterwards still advance the cargo.
	cargo.Handled(activity(Receive, hongkong, nil))
	cargo.Handled(activity(Load, hongkong, pacific))
	if got := cargo.TransportStatus(); got != OnboardCarrier {
		t.Fatalf("after late physical reports: transport status = %s, want ONBOARD_CARRIER", got)
	}
	if got := cargo.LastKnownLocation(); !got.SameIdentityAs(hongkong) {
		t.Fatalf("after late physical reports: last known location = %s, want CNHKG", got)
	}
	if got := cargo.EarliestReroutingLocation(); !got.SameIdentityAs(newyork) {
		t.Fatalf("earliest rerouting location = %s, want USNYC", got)
	}
}

func TestCargoMisdirection(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage

	cargo.Handled(activity(Receive, hongkong, nil))
	cargo.Handled(activity(Load, hongkong, pacific))

	// Unloaded at a scheduled stop the plan rides through.
	cargo.Handled(activity(Unload, tokyo, pacific))
	if !cargo.IsMisdirected() {
		t.Fatal("unload at JNTKO is off plan, cargo should be misdirected")
	}
	if next := cargo.NextExpectedActivity(); next != nil {
		t.Fatalf("misdirected cargo has no next expected activity, got %v", next)
	}
	if got := cargo.EarliestReroutingLocation(); !got.SameIdentityAs(tokyo) {
		t.Fatalf("earliest rerouting location = %s, want JNTKO", got)
	}
}

func TestCargoReroutingAfterMisdirection(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage

	cargo.Handled(activity(Receive, hongkong, nil))
	cargo.Handled(activity(Load, hongkong, pacific))
	cargo.Handled(activity(Unload, tokyo, pacific))
	if !cargo.IsMisdirected() {
		t.Fatal("unload at JNTKO is off plan")
	}

	rescue := mustVoyage("V700",
		mustMovement(tokyo, hamburg, hoursAfter(60), hoursAfter(380)),
		mustMovement(hamburg, stockholm, hoursAfter(390), hoursAfter(420)),
	)
	merged, err := cargo.ItineraryMergedWith(mustItinerary(mustLeg(rescue, tokyo, stockholm)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cargo.AssignToRoute(merged); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cargo.IsMisdirected() {
		t.Error("rerouted cargo should no longer be misdirected")
	}
	if got := cargo.RoutingStatus(); got != Routed {
		t.Errorf("routing status = %s, want ROUTED", got)
	}
	if !cargo.Itinerary.FirstLoadLocation().SameIdentityAs(hongkong) {
		t.Errorf("merged plan starts at %s, want the original origin CNHKG", cargo.Itinerary.FirstLoadLocation())
	}
}

func TestCargoEarliestReroutingLocation(t *testing.T) {
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage

	if got := cargo.EarliestReroutingLocation(); !got.SameIdentityAs(hongkong) {
		t.Fatalf("before handling: earliest rerouting location = %s, want origin CNHKG", got)
	}

	cargo.Handled(activity(Receive, hongkong, nil))
	cargo.Handled(activity(Load, hongkong, pacific))
	cargo.Handled(activity(Unload, newyork, pacific))
	if got := cargo.EarliestReroutingLocation(); !got.SameIdentityAs(newyork) {
		t.Fatalf("on plan: earliest rerouting location = %s, want current leg unload USNYC", got)
	}

	// Onboard a voyage the plan does not use: the cargo is committed to
	// that voyage's next arrival.
	rogue := mustVoyage("V500", mustMovement(dallas, chicago, hoursAfter(250), hoursAfter(270)))
	stray := bookAndRoute(t)
	stray.Handled(activity(Load, dallas, rogue))
	if !stray.IsMisdirected() {
		t.Fatal("load onto V500 at USDAL is off plan")
	}
	if got := stray.EarliestReroutingLocation(); !got.SameIdentityAs(chicago) {
		t.Fatalf("misdirected onboard: earliest rerouting location = %s, want next arrival USCHI", got)
	}
}

func TestCargoItineraryMergedWith(t *testing.T) {
	continuation := mustItinerary(
		mustLeg(atlanticVoyage(), dallas, hamburg),
		mustLeg(balticVoyage(), hamburg, stockholm),
	)

	unrouted, err := NewCargo("XYZ987", testRouteSpecification(t, hongkong, stockholm))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	merged, err := unrouted.ItineraryMergedWith(continuation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !merged.Equal(continuation) {
		t.Errorf("unrouted cargo takes the proposal wholesale, got %s", merged)
	}

	// On plan in New York: keep the executed leg, continue from there.
	cargo := bookAndRoute(t)
	pacific := cargo.Itinerary.Legs[0].Voyage
	cargo.Handled(activity(Receive, hongkong, nil))
	cargo.Handled(activity(Load, hongkong, pacific))
	cargo.Handled(activity(Unload, newyork, pacific))

	fromNewYork := mustItinerary(mustLeg(overlandVoyage(), newyork, dallas))
	merged, err = cargo.ItineraryMergedWith(fromNewYork.AppendBy(continuation))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged.Legs) != 4 {
		t.Fatalf("merged itinerary has %d legs, want 4", len(merged.Legs))
	}
	if !merged.Legs[0].Equal(cargo.Itinerary.Legs[0]) {
		t.Error("merged itinerary must keep the executed first leg")
	}
	if !merged.LastUnloadLocation().SameIdentityAs(stockholm) {
		t.Errorf("merged itinerary ends at %s, want SESTO", merged.LastUnloadLocation())
	}

	// Misdirected onboard: a leg to the committed next arrival is
	// synthesized before the continuation.
	rogue := mustVoyage("V500", mustMovement(dallas, chicago, hoursAfter(250), hoursAfter(270)))
	rescue := mustVoyage("V600",
		mustMovement(chicago, hamburg, hoursAfter(280), hoursAfter(380)),
		mustMovement(hamburg, stockholm, hoursAfter(390), hoursAfter(420)),
	)
	stray := bookAndRoute(t)
	stray.Handled(activity(Load, dallas, rogue))
	fromChicago := mustItinerary(mustLeg(rescue, chicago, stockholm))
	merged, err = stray.ItineraryMergedWith(fromChicago)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := len(merged.Legs) - 1
	synthesized := merged.Legs[last-1]
	if !synthesized.LoadLocation.SameIdentityAs(dallas) || !synthesized.UnloadLocation.SameIdentityAs(chicago) {
		t.Errorf("synthesized leg = %+v, want USDAL -> USCHI on the current voyage", synthesized)
	}
	if !merged.Legs[last].Equal(fromChicago.Legs[0]) {
		t.Errorf("continuation should follow the synthesized leg")
	}
}

func TestCargoReadyToClaimAwayFromClearancePoint(t *testing.T) {
	// Routed via Hamburg the EU entry point is not the destination, so
	// arrival at Stockholm alone makes the cargo claimable.
	cargo, err := NewCargo("DEF456", testRouteSpecification(t, dallas, stockholm))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	atlantic := atlanticVoyage()
	baltic := balticVoyage()
	if err := cargo.AssignToRoute(mustItinerary(
		mustLeg(atlantic, dallas, hamburg),
		mustLeg(baltic, hamburg, stockholm),
	)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if point := cargo.CustomsClearancePoint(); point == nil || !point.SameIdentityAs(hamburg) {
		t.Fatalf("customs clearance point = %v, want DEHAM", point)
	}

	cargo.Handled(activity(Receive, dallas, nil))
	cargo.Handled(activity(Load, dallas, atlantic))
	cargo.Handled(activity(Unload, hamburg, atlantic))
	if next := cargo.NextExpectedActivity(); next == nil || !next.Equal(activity(Customs, hamburg, nil)) {
		t.Fatalf("next expected = %v, want CUSTOMS at DEHAM", next)
	}

	cargo.Handled(activity(Load, hamburg, baltic))
	cargo.Handled(activity(Unload, stockholm, baltic))
	if !cargo.IsReadyToClaim() {
		t.Fatal("cargo unloaded at the destination should be claimable")
	}
}

func TestCargoAssignToRoute(t *testing.T) {
	cargo, err := NewCargo("GHI789", testRouteSpecification(t, hongkong, stockholm))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cargo.AssignToRoute(Itinerary{}); err == nil {
		t.Fatal("assigning an empty itinerary should fail")
	}
	if err := cargo.AssignToRoute(hongkongToStockholm()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
