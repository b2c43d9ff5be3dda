package services

import (
	"context"
	"fmt"
	"time"

	"cargo-shipping-service/internal/domain"
)

var (
	euZone = mustZone("EU", "European Union")
	usZone = mustZone("US", "United States")

	hongkong  = mustLocation("CNHKG", "Hongkong", "Asia/Hong_Kong", nil)
	newyork   = mustLocation("USNYC", "New York", "America/New_York", usZone)
	dallas    = mustLocation("USDAL", "Dallas", "America/Chicago", usZone)
	hamburg   = mustLocation("DEHAM", "Hamburg", "Europe/Berlin", euZone)
	stockholm = mustLocation("SESTO", "Stockholm", "Europe/Stockholm", euZone)
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func hoursAfter(h int) time.Time {
	return testTime.Add(time.Duration(h) * time.Hour)
}

func mustZone(code, name string) *domain.CustomsZone {
	zone, err := domain.NewCustomsZone(code, name)
	if err != nil {
		panic(err)
	}
	return zone
}

func mustLocation(code domain.UnLocode, name, timeZone string, zone *domain.CustomsZone) *domain.Location {
	location, err := domain.NewLocation(code, name, timeZone, zone)
	if err != nil {
		panic(err)
	}
	return location
}

func mustVoyage(number domain.VoyageNumber, movements ...domain.CarrierMovement) *domain.Voyage {
	schedule, err := domain.NewSchedule(movements)
	if err != nil {
		panic(err)
	}
	voyage, err := domain.NewVoyage(number, schedule)
	if err != nil {
		panic(err)
	}
	return voyage
}

func mustMovement(from, to *domain.Location, departure, arrival time.Time) domain.CarrierMovement {
	movement, err := domain.NewCarrierMovement(from, to, departure, arrival)
	if err != nil {
		panic(err)
	}
	return movement
}

// pacificVoyage sails Hongkong -> New York, overlandVoyage runs New York ->
// Dallas, atlanticVoyage sails Dallas -> Hamburg -> Stockholm.
func pacificVoyage() *domain.Voyage {
	return mustVoyage("V100", mustMovement(hongkong, newyork, hoursAfter(0), hoursAfter(200)))
}

func overlandVoyage() *domain.Voyage {
	return mustVoyage("V200", mustMovement(newyork, dallas, hoursAfter(210), hoursAfter(240)))
}

func atlanticVoyage() *domain.Voyage {
	return mustVoyage("V300",
		mustMovement(dallas, hamburg, hoursAfter(250), hoursAfter(400)),
		mustMovement(hamburg, stockholm, hoursAfter(402), hoursAfter(430)),
	)
}

func mustLeg(voyage *domain.Voyage, load, unload *domain.Location) domain.Leg {
	leg, err := domain.DeriveLeg(voyage, load, unload)
	if err != nil {
		panic(err)
	}
	return leg
}

func mustItinerary(legs ...domain.Leg) domain.Itinerary {
	itinerary, err := domain.NewItinerary(legs)
	if err != nil {
		panic(err)
	}
	return itinerary
}

func activity(activityType domain.HandlingActivityType, location *domain.Location, voyage *domain.Voyage) domain.HandlingActivity {
	a, err := domain.NewHandlingActivity(activityType, location, voyage)
	if err != nil {
		panic(err)
	}
	return a
}

// fixedTrackingIDs hands out predictable tracking ids.
type fixedTrackingIDs struct {
	next int
}

func (g *fixedTrackingIDs) NextTrackingID(ctx context.Context) (domain.TrackingID, error) {
	g.next++
	return domain.TrackingID(fmt.Sprintf("TID%03d", g.next)), nil
}
