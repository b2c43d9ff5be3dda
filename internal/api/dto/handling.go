package dto

import "time"

type HandlingReportRequest struct {
	TrackingID     string    `json:"tracking_id"`
	ActivityType   string    `json:"activity_type"`
	Location       string    `json:"location"`
	VoyageNumber   string    `json:"voyage_number,omitempty"`
	OperatorCode   string    `json:"operator_code,omitempty"`
	CompletionTime time.Time `json:"completion_time"`
}

type HandlingReportResponse struct {
	SequenceNumber int64 `json:"sequence_number"`
}

type RescheduleDepartureRequest struct {
	Location      string    `json:"location"`
	DepartureTime time.Time `json:"departure_time"`
}
