package domain

import (
	"fmt"
	"time"
)

// Shared test geography and schedules, loosely modeled on a Hongkong to
// Stockholm journey with a US overland connection.

var (
	euZone = mustZone("EU", "European Union")
	usZone = mustZone("US", "United States")

	hongkong  = mustLocation("CNHKG", "Hongkong", "Asia/Hong_Kong", nil)
	tokyo     = mustLocation("JNTKO", "Tokyo", "Asia/Tokyo", nil)
	newyork   = mustLocation("USNYC", "New York", "America/New_York", usZone)
	dallas    = mustLocation("USDAL", "Dallas", "America/Chicago", usZone)
	chicago   = mustLocation("USCHI", "Chicago", "America/Chicago", usZone)
	hamburg   = mustLocation("DEHAM", "Hamburg", "Europe/Berlin", euZone)
	stockholm = mustLocation("SESTO", "Stockholm", "Europe/Stockholm", euZone)
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func hoursAfter(h int) time.Time {
	return testTime.Add(time.Duration(h) * time.Hour)
}

func mustZone(code, name string) *CustomsZone {
	zone, err := NewCustomsZone(code, name)
	if err != nil {
		panic(err)
	}
	return zone
}

func mustLocation(code UnLocode, name, timeZone string, zone *CustomsZone) *Location {
	location, err := NewLocation(code, name, timeZone, zone)
	if err != nil {
		panic(err)
	}
	return location
}

func mustVoyage(number VoyageNumber, movements ...CarrierMovement) *Voyage {
	schedule, err := NewSchedule(movements)
	if err != nil {
		panic(err)
	}
	voyage, err := NewVoyage(number, schedule)
	if err != nil {
		panic(err)
	}
	return voyage
}

func mustMovement(from, to *Location, departure, arrival time.Time) CarrierMovement {
	movement, err := NewCarrierMovement(from, to, departure, arrival)
	if err != nil {
		panic(err)
	}
	return movement
}

// pacificVoyage sails Hongkong -> Tokyo -> New York.
func pacificVoyage() *Voyage {
	return mustVoyage("V100",
		mustMovement(hongkong, tokyo, hoursAfter(0), hoursAfter(48)),
		mustMovement(tokyo, newyork, hoursAfter(50), hoursAfter(200)),
	)
}

// overlandVoyage runs New York -> Dallas.
func overlandVoyage() *Voyage {
	return mustVoyage("V200",
		mustMovement(newyork, dallas, hoursAfter(210), hoursAfter(240)),
	)
}

// atlanticVoyage sails Dallas -> Hamburg -> Stockholm.
func atlanticVoyage() *Voyage {
	return mustVoyage("V300",
		mustMovement(dallas, hamburg, hoursAfter(250), hoursAfter(400)),
		mustMovement(hamburg, stockholm, hoursAfter(402), hoursAfter(430)),
	)
}

// balticVoyage sails Hamburg -> Stockholm, an alternative final hop.
func balticVoyage() *Voyage {
	return mustVoyage("V400",
		mustMovement(hamburg, stockholm, hoursAfter(410), hoursAfter(440)),
	)
}

func mustLeg(voyage *Voyage, load, unload *Location) Leg {
	leg, err := DeriveLeg(voyage, load, unload)
	if err != nil {
		panic(err)
	}
	return leg
}

func mustItinerary(legs ...Leg) Itinerary {
	itinerary, err := NewItinerary(legs)
	if err != nil {
		panic(err)
	}
	return itinerary
}

// hongkongToStockholm is the reference plan used by most cargo tests.
func hongkongToStockholm() Itinerary {
	return mustItinerary(
		mustLeg(pacificVoyage(), hongkong, newyork),
		mustLeg(overlandVoyage(), newyork, dallas),
		mustLeg(atlanticVoyage(), dallas, stockholm),
	)
}

func activity(activityType HandlingActivityType, location *Location, voyage *Voyage) HandlingActivity {
	a, err := NewHandlingActivity(activityType, location, voyage)
	if err != nil {
		panic(fmt.Sprintf("fixture activity %s at %s: %v", activityType, location, err))
	}
	return a
}
