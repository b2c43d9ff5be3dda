package dto

import "time"

type BookCargoRequest struct {
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	ArrivalDeadline time.Time `json:"arrival_deadline"`
}

type BookCargoResponse struct {
	TrackingID string `json:"tracking_id"`
}

type ChangeDestinationRequest struct {
	Destination string `json:"destination"`
}

type LegResponse struct {
	VoyageNumber   string    `json:"voyage_number"`
	LoadLocation   string    `json:"load_location"`
	UnloadLocation string    `json:"unload_location"`
	LoadTime       time.Time `json:"load_time"`
	UnloadTime     time.Time `json:"unload_time"`
}

type RouteResponse struct {
	Legs []LegResponse `json:"legs"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type LegRequest struct {
	VoyageNumber   string `json:"voyage_number"`
	LoadLocation   string `json:"load_location"`
	UnloadLocation string `json:"unload_location"`
}

type AssignRouteRequest struct {
	Legs []LegRequest `json:"legs"`
}

type CargoSummaryResponse struct {
	TrackingID      string    `json:"tracking_id"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	ArrivalDeadline time.Time `json:"arrival_deadline"`
	RoutingStatus   string    `json:"routing_status"`
	TransportStatus string    `json:"transport_status"`
}

type ListCargosResponse struct {
	Cargos []CargoSummaryResponse `json:"cargos"`
}
