package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"cargo-shipping-service/internal/api/dto"
	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
	"cargo-shipping-service/internal/services"
)

type VoyageHandler struct {
	Voyages *services.VoyageService
}

// Item serves the /voyages/{number} endpoint family; only the reschedule
// sub-resource exists today.
func (h *VoyageHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/voyages/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	if len(parts) != 2 || parts[0] == "" || parts[1] != "reschedule" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	h.reschedule(w, r, domain.VoyageNumber(parts[0]))
}

func (h *VoyageHandler) reschedule(w http.ResponseWriter, r *http.Request, voyageNumber domain.VoyageNumber) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RescheduleDepartureRequest
	if !decodeBody(w, r, &req) {
		return
	}

	unLocode, err := domain.NewUnLocode(req.Location)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid location")
		return
	}
	if req.DepartureTime.IsZero() {
		writeError(w, r, http.StatusBadRequest, "departure_time is required")
		return
	}

	if err := h.Voyages.RescheduleDeparture(r.Context(), voyageNumber, unLocode, req.DepartureTime); err != nil {
		switch {
		case errors.Is(err, ports.ErrUnknownVoyage):
			writeError(w, r, http.StatusNotFound, "unknown voyage")
		case errors.Is(err, ports.ErrUnknownLocation):
			writeError(w, r, http.StatusBadRequest, "unknown location")
		default:
			log.Printf("reschedule departure failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
