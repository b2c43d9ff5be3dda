package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/platform/obs"
	"cargo-shipping-service/internal/ports"
)

// legRef is the wire (and cache) form of an itinerary leg: just the
// references, with times re-derived from the voyage schedule when the leg
// is rebuilt.
type legRef struct {
	VoyageNumber   string `json:"voyage_number"`
	LoadLocation   string `json:"load_location"`
	UnloadLocation string `json:"unload_location"`
}

type routeSpecificationRequest struct {
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	ArrivalDeadline time.Time `json:"arrival_deadline"`
}

type routesResponse struct {
	Routes []struct {
		Legs []legRef `json:"legs"`
	} `json:"routes"`
}

// PathfinderRouteFinder implements RouteFinder against an external
// pathfinder service. The pathfinder is an opaque oracle: it proposes
// routes as sequences of (voyage, load, unload) references, which are
// resolved and turned into derived legs here. Candidates referencing
// unknown voyages or locations, or whose legs cannot be derived, are
// dropped with a log line rather than failing the whole lookup.
//
// The finder is safe for concurrent use.
type PathfinderRouteFinder struct {
	session   *http.Client
	baseURL   string
	voyages   ports.VoyageRepository
	locations ports.LocationRepository
}

func NewPathfinderRouteFinder(baseURL string, voyages ports.VoyageRepository, locations ports.LocationRepository) (*PathfinderRouteFinder, error) {
	if baseURL == "" {
		return nil, errors.New("pathfinder base URL is empty")
	}

	return &PathfinderRouteFinder{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		voyages:   voyages,
		locations: locations,
	}, nil
}

func (f *PathfinderRouteFinder) FetchRoutesForSpecification(ctx context.Context, routeSpecification domain.RouteSpecification) (_ []domain.Itinerary, err error) {
	defer obs.Time(ctx, "routing.pathfinder.FetchRoutes")(&err)

	payload, err := json.Marshal(routeSpecificationRequest{
		Origin:          string(routeSpecification.Origin.UnLocode),
		Destination:     string(routeSpecification.Destination.UnLocode),
		ArrivalDeadline: routeSpecification.ArrivalDeadline,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch routes: marshal specification: %w", err)
	}

	resp, err := f.doWithRetry(ctx, func() (*http.Request, error) {
		return f.newRequest(ctx, http.MethodPost, f.baseURL+"/routes", bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("fetch routes: pathfinder request: %w", err)
	}
	defer resp.Body.Close()

	var body routesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fetch routes: decode pathfinder response: %w", err)
	}

	itineraries := make([]domain.Itinerary, 0, len(body.Routes))
	for _, route := range body.Routes {
		itinerary, err := buildItinerary(ctx, route.Legs, f.voyages, f.locations)
		if err != nil {
			log.Printf("fetch routes: dropping candidate: %v", err)
			continue
		}
		itineraries = append(itineraries, itinerary)
	}

	return itineraries, nil
}

// buildItinerary resolves the leg references of one candidate and derives
// the legs from the current voyage schedules.
func buildItinerary(ctx context.Context, refs []legRef, voyages ports.VoyageRepository, locations ports.LocationRepository) (domain.Itinerary, error) {
	legs := make([]domain.Leg, 0, len(refs))
	for _, ref := range refs {
		voyage, err := voyages.Find(ctx, domain.VoyageNumber(ref.VoyageNumber))
		if err != nil {
			return domain.Itinerary{}, fmt.Errorf("build itinerary: %w", err)
		}
		loadLocation, err := locations.Find(ctx, domain.UnLocode(ref.LoadLocation))
		if err != nil {
			return domain.Itinerary{}, fmt.Errorf("build itinerary: %w", err)
		}
		unloadLocation, err := locations.Find(ctx, domain.UnLocode(ref.UnloadLocation))
		if err != nil {
			return domain.Itinerary{}, fmt.Errorf("build itinerary: %w", err)
		}

		leg, err := domain.DeriveLeg(voyage, loadLocation, unloadLocation)
		if err != nil {
			return domain.Itinerary{}, fmt.Errorf("build itinerary: %w", err)
		}
		legs = append(legs, leg)
	}

	itinerary, err := domain.NewItinerary(legs)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("build itinerary: %w", err)
	}
	return itinerary, nil
}

func legRefsOf(itinerary domain.Itinerary) []legRef {
	refs := make([]legRef, 0, len(itinerary.Legs))
	for _, leg := range itinerary.Legs {
		refs = append(refs, legRef{
			VoyageNumber:   string(leg.Voyage.Number),
			LoadLocation:   string(leg.LoadLocation.UnLocode),
			UnloadLocation: string(leg.UnloadLocation.UnLocode),
		})
	}
	return refs
}
