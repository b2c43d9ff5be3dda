package handlers

import (
	"errors"
	"log"
	"net/http"

	"cargo-shipping-service/internal/api/dto"
	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/services"
)

type HandlingReportHandler struct {
	Handling *services.HandlingService
}

// Report accepts a handling report from a port operator and registers it as
// a handling event. Registration is synchronous; the cargo update it
// triggers happens asynchronously.
func (h *HandlingReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.HandlingReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	activityType, err := domain.ParseHandlingActivityType(req.ActivityType)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid activity_type")
		return
	}
	unLocode, err := domain.NewUnLocode(req.Location)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid location")
		return
	}
	if req.CompletionTime.IsZero() {
		writeError(w, r, http.StatusBadRequest, "completion_time is required")
		return
	}

	var operatorCode domain.OperatorCode
	if req.OperatorCode != "" {
		operatorCode, err = domain.NewOperatorCode(req.OperatorCode)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid operator_code")
			return
		}
	}

	event, err := h.Handling.RegisterHandlingEvent(
		r.Context(),
		req.CompletionTime,
		domain.TrackingID(req.TrackingID),
		domain.VoyageNumber(req.VoyageNumber),
		unLocode,
		activityType,
		operatorCode,
	)
	if err != nil {
		var cannotCreate *services.CannotCreateHandlingEventError
		if errors.As(err, &cannotCreate) {
			writeError(w, r, http.StatusBadRequest, cannotCreate.Error())
			return
		}
		log.Printf("register handling event failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.HandlingReportResponse{
		SequenceNumber: int64(event.SequenceNumber),
	})
}
