package api

import (
	"net/http"

	"cargo-shipping-service/internal/api/handlers"
	"cargo-shipping-service/internal/ports"
	"cargo-shipping-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	booking *services.BookingService,
	tracking *services.TrackingService,
	handling *services.HandlingService,
	voyageService *services.VoyageService,
	voyages ports.VoyageRepository,
	locations ports.LocationRepository,
	db handlers.Pinger,
) http.Handler {
	mux := http.NewServeMux()

	cargoHandler := &handlers.CargoHandler{
		Booking:   booking,
		Tracking:  tracking,
		Voyages:   voyages,
		Locations: locations,
	}
	reportHandler := &handlers.HandlingReportHandler{Handling: handling}
	voyageHandler := &handlers.VoyageHandler{Voyages: voyageService}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/ready", handlers.Ready(db))
	mux.HandleFunc("/cargos", cargoHandler.Collection)
	mux.HandleFunc("/cargos/", cargoHandler.Item)
	mux.HandleFunc("/handling-reports", reportHandler.Report)
	mux.HandleFunc("/voyages/", voyageHandler.Item)

	return loggingMiddleware(mux)
}
