package services

import (
	"context"
	"fmt"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
)

// CargoTrackingView is the read model the tracking endpoint serves: the
// cargo's derived statuses plus its deduplicated handling log.
type CargoTrackingView struct {
	Cargo   *domain.Cargo
	History []*domain.HandlingEvent
}

// TrackingService assembles the tracking view of a cargo.
type TrackingService struct {
	Cargos ports.CargoRepository
	Events ports.HandlingEventRepository
}

// TrackCargo loads a cargo together with its distinct handling events in
// completion order.
func (s *TrackingService) TrackCargo(ctx context.Context, trackingID domain.TrackingID) (*CargoTrackingView, error) {
	cargo, err := s.Cargos.Find(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("track cargo: find %s: %w", trackingID, err)
	}

	history, err := s.Events.LookupHandlingHistoryOfCargo(ctx, cargo)
	if err != nil {
		return nil, fmt.Errorf("track cargo: handling history of %s: %w", trackingID, err)
	}

	return &CargoTrackingView{
		Cargo:   cargo,
		History: history.DistinctEventsByCompletionTime(),
	}, nil
}
