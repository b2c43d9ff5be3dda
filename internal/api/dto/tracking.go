package dto

import "time"

type HandlingEventResponse struct {
	SequenceNumber int64     `json:"sequence_number"`
	ActivityType   string    `json:"activity_type"`
	Location       string    `json:"location"`
	VoyageNumber   string    `json:"voyage_number,omitempty"`
	CompletionTime time.Time `json:"completion_time"`
	Expected       bool      `json:"expected"`
}

type TrackCargoResponse struct {
	TrackingID           string                  `json:"tracking_id"`
	TransportStatus      string                  `json:"transport_status"`
	RoutingStatus        string                  `json:"routing_status"`
	LastKnownLocation    string                  `json:"last_known_location,omitempty"`
	CurrentVoyage        string                  `json:"current_voyage,omitempty"`
	Misdirected          bool                    `json:"misdirected"`
	ReadyToClaim         bool                    `json:"ready_to_claim"`
	EstimatedArrivalTime *time.Time              `json:"estimated_arrival_time,omitempty"`
	NextExpectedActivity string                  `json:"next_expected_activity,omitempty"`
	Events               []HandlingEventResponse `json:"events"`
}
