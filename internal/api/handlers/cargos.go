package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"cargo-shipping-service/internal/api/dto"
	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
	"cargo-shipping-service/internal/services"
)

type CargoHandler struct {
	Booking   *services.BookingService
	Tracking  *services.TrackingService
	Voyages   ports.VoyageRepository
	Locations ports.LocationRepository
}

// Collection serves the /cargos endpoint: booking a new cargo and listing
// the booked ones.
func (h *CargoHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.book(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Item serves the /cargos/{id} endpoint family. The sub-resource, if any,
// selects the operation: routes, itinerary or destination.
func (h *CargoHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/cargos/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if parts[0] == "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	trackingID := domain.TrackingID(parts[0])

	switch {
	case len(parts) == 1:
		h.track(w, r, trackingID)
	case len(parts) == 2 && parts[1] == "routes":
		h.routes(w, r, trackingID)
	case len(parts) == 2 && parts[1] == "itinerary":
		h.assignItinerary(w, r, trackingID)
	case len(parts) == 2 && parts[1] == "destination":
		h.changeDestination(w, r, trackingID)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (h *CargoHandler) book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookCargoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	origin, err := domain.NewUnLocode(req.Origin)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid origin")
		return
	}
	destination, err := domain.NewUnLocode(req.Destination)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid destination")
		return
	}
	if req.ArrivalDeadline.IsZero() {
		writeError(w, r, http.StatusBadRequest, "arrival_deadline is required")
		return
	}

	trackingID, err := h.Booking.BookNewCargo(r.Context(), origin, destination, req.ArrivalDeadline)
	if err != nil {
		if errors.Is(err, ports.ErrUnknownLocation) {
			writeError(w, r, http.StatusBadRequest, "unknown location")
			return
		}
		log.Printf("book cargo failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.BookCargoResponse{TrackingID: string(trackingID)})
}

func (h *CargoHandler) list(w http.ResponseWriter, r *http.Request) {
	cargos, err := h.Booking.ListCargos(r.Context())
	if err != nil {
		log.Printf("list cargos failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCargosResponse{Cargos: make([]dto.CargoSummaryResponse, 0, len(cargos))}
	for _, c := range cargos {
		res.Cargos = append(res.Cargos, dto.CargoSummaryResponse{
			TrackingID:      string(c.TrackingID),
			Origin:          string(c.RouteSpecification.Origin.UnLocode),
			Destination:     string(c.RouteSpecification.Destination.UnLocode),
			ArrivalDeadline: c.RouteSpecification.ArrivalDeadline,
			RoutingStatus:   c.RoutingStatus().String(),
			TransportStatus: c.TransportStatus().String(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *CargoHandler) track(w http.ResponseWriter, r *http.Request, trackingID domain.TrackingID) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, err := h.Tracking.TrackCargo(r.Context(), trackingID)
	if err != nil {
		if errors.Is(err, ports.ErrUnknownCargo) {
			writeError(w, r, http.StatusNotFound, "unknown cargo")
			return
		}
		log.Printf("track cargo failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, trackingResponse(view))
}

func (h *CargoHandler) routes(w http.ResponseWriter, r *http.Request, trackingID domain.TrackingID) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	itineraries, err := h.Booking.RequestPossibleRoutes(r.Context(), trackingID)
	if err != nil {
		if errors.Is(err, ports.ErrUnknownCargo) {
			writeError(w, r, http.StatusNotFound, "unknown cargo")
			return
		}
		log.Printf("request possible routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(itineraries))}
	for _, it := range itineraries {
		res.Routes = append(res.Routes, routeResponse(it))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *CargoHandler) assignItinerary(w http.ResponseWriter, r *http.Request, trackingID domain.TrackingID) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.AssignRouteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Legs) == 0 {
		writeError(w, r, http.StatusBadRequest, "legs must not be empty")
		return
	}

	legs := make([]domain.Leg, 0, len(req.Legs))
	for _, l := range req.Legs {
		voyage, err := h.Voyages.Find(r.Context(), domain.VoyageNumber(l.VoyageNumber))
		if err != nil {
			if errors.Is(err, ports.ErrUnknownVoyage) {
				writeError(w, r, http.StatusBadRequest, "unknown voyage "+l.VoyageNumber)
				return
			}
			log.Printf("assign itinerary failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}

		load, err := h.findLocation(r.Context(), l.LoadLocation)
		if err != nil {
			h.locationError(w, r, l.LoadLocation, err)
			return
		}
		unload, err := h.findLocation(r.Context(), l.UnloadLocation)
		if err != nil {
			h.locationError(w, r, l.UnloadLocation, err)
			return
		}

		leg, err := domain.DeriveLeg(voyage, load, unload)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid leg: "+err.Error())
			return
		}
		legs = append(legs, leg)
	}

	itinerary, err := domain.NewItinerary(legs)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid itinerary: "+err.Error())
		return
	}

	if err := h.Booking.AssignToRoute(r.Context(), trackingID, itinerary); err != nil {
		if errors.Is(err, ports.ErrUnknownCargo) {
			writeError(w, r, http.StatusNotFound, "unknown cargo")
			return
		}
		log.Printf("assign itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CargoHandler) changeDestination(w http.ResponseWriter, r *http.Request, trackingID domain.TrackingID) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ChangeDestinationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	destination, err := domain.NewUnLocode(req.Destination)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid destination")
		return
	}

	if err := h.Booking.ChangeDestination(r.Context(), trackingID, destination); err != nil {
		switch {
		case errors.Is(err, ports.ErrUnknownCargo):
			writeError(w, r, http.StatusNotFound, "unknown cargo")
		case errors.Is(err, ports.ErrUnknownLocation):
			writeError(w, r, http.StatusBadRequest, "unknown location")
		default:
			log.Printf("change destination failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CargoHandler) findLocation(ctx context.Context, code string) (*domain.Location, error) {
	unLocode, err := domain.NewUnLocode(code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", code, ports.ErrUnknownLocation)
	}
	return h.Locations.Find(ctx, unLocode)
}

func (h *CargoHandler) locationError(w http.ResponseWriter, r *http.Request, code string, err error) {
	if errors.Is(err, ports.ErrUnknownLocation) {
		writeError(w, r, http.StatusBadRequest, "unknown location "+code)
		return
	}
	log.Printf("assign itinerary failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func trackingResponse(view *services.CargoTrackingView) dto.TrackCargoResponse {
	cargo := view.Cargo

	res := dto.TrackCargoResponse{
		TrackingID:      string(cargo.TrackingID),
		TransportStatus: cargo.TransportStatus().String(),
		RoutingStatus:   cargo.RoutingStatus().String(),
		Misdirected:     cargo.IsMisdirected(),
		ReadyToClaim:    cargo.IsReadyToClaim(),
		Events:          make([]dto.HandlingEventResponse, 0, len(view.History)),
	}

	if loc := cargo.LastKnownLocation(); loc != nil {
		res.LastKnownLocation = string(loc.UnLocode)
	}
	if voyage := cargo.CurrentVoyage(); voyage != nil {
		res.CurrentVoyage = string(voyage.Number)
	}
	if !cargo.Itinerary.IsEmpty() {
		eta := cargo.Itinerary.FinalArrivalTime()
		res.EstimatedArrivalTime = &eta
	}
	if next := cargo.NextExpectedActivity(); next != nil {
		res.NextExpectedActivity = next.String()
	}

	for _, e := range view.History {
		event := dto.HandlingEventResponse{
			SequenceNumber: int64(e.SequenceNumber),
			ActivityType:   e.Activity.Type.String(),
			Location:       string(e.Activity.Location.UnLocode),
			CompletionTime: e.CompletionTime,
			Expected:       cargo.Itinerary.IsExpectedActivity(e.Activity),
		}
		if e.Activity.Voyage != nil {
			event.VoyageNumber = string(e.Activity.Voyage.Number)
		}
		res.Events = append(res.Events, event)
	}

	return res
}

func routeResponse(itinerary domain.Itinerary) dto.RouteResponse {
	legs := make([]dto.LegResponse, 0, len(itinerary.Legs))
	for _, l := range itinerary.Legs {
		legs = append(legs, dto.LegResponse{
			VoyageNumber:   string(l.Voyage.Number),
			LoadLocation:   string(l.LoadLocation.UnLocode),
			UnloadLocation: string(l.UnloadLocation.UnLocode),
			LoadTime:       l.LoadTime,
			UnloadTime:     l.UnloadTime,
		})
	}
	return dto.RouteResponse{Legs: legs}
}
