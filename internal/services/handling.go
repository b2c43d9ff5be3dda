package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/platform/obs"
	"cargo-shipping-service/internal/ports"
)

// CannotCreateHandlingEventError wraps a failure to turn a handling report
// into a real handling event. The attempt is unrecoverable as reported;
// callers are expected to log it and move on to the next report, not abort
// a batch.
type CannotCreateHandlingEventError struct {
	TrackingID domain.TrackingID
	Err        error
}

func (e *CannotCreateHandlingEventError) Error() string {
	return fmt.Sprintf("cannot create handling event for cargo %s: %v", e.TrackingID, e.Err)
}

func (e *CannotCreateHandlingEventError) Unwrap() error {
	return e.Err
}

// HandlingEventFactory builds validated handling events from raw report
// attributes, resolving the cargo, voyage and location references.
type HandlingEventFactory struct {
	Cargos    ports.CargoRepository
	Voyages   ports.VoyageRepository
	Locations ports.LocationRepository
}

// CreateHandlingEvent resolves the references in a handling report and
// constructs the event. Reference-resolution failures surface as
// ErrUnknownCargo / ErrUnknownVoyage / ErrUnknownLocation; every failure is
// wrapped in a CannotCreateHandlingEventError.
func (f *HandlingEventFactory) CreateHandlingEvent(
	ctx context.Context,
	registrationTime time.Time,
	completionTime time.Time,
	trackingID domain.TrackingID,
	voyageNumber domain.VoyageNumber,
	unLocode domain.UnLocode,
	activityType domain.HandlingActivityType,
	operatorCode domain.OperatorCode,
) (*domain.HandlingEvent, error) {
	cargo, err := f.Cargos.Find(ctx, trackingID)
	if err != nil {
		return nil, &CannotCreateHandlingEventError{TrackingID: trackingID, Err: err}
	}

	var voyage *domain.Voyage
	if voyageNumber != "" {
		voyage, err = f.Voyages.Find(ctx, voyageNumber)
		if err != nil {
			return nil, &CannotCreateHandlingEventError{TrackingID: trackingID, Err: fmt.Errorf("voyage %s: %w", voyageNumber, err)}
		}
	}

	location, err := f.Locations.Find(ctx, unLocode)
	if err != nil {
		return nil, &CannotCreateHandlingEventError{TrackingID: trackingID, Err: fmt.Errorf("location %s: %w", unLocode, err)}
	}

	activity, err := domain.NewHandlingActivity(activityType, location, voyage)
	if err != nil {
		return nil, &CannotCreateHandlingEventError{TrackingID: trackingID, Err: err}
	}

	event, err := domain.NewHandlingEvent(cargo, activity, completionTime, registrationTime, operatorCode)
	if err != nil {
		return nil, &CannotCreateHandlingEventError{TrackingID: trackingID, Err: err}
	}
	return event, nil
}

// HandlingService registers handling events and applies them to cargos.
// Registration appends to the event log and publishes the sequence number;
// application happens independently (typically via the message consumer),
// so events may arrive at the cargo out of order or more than once. The
// aggregate tolerates both.
type HandlingService struct {
	Factory   *HandlingEventFactory
	Events    ports.HandlingEventRepository
	Cargos    ports.CargoRepository
	Publisher ports.HandlingEventPublisher
}

// RegisterHandlingEvent validates and stores a handling report as an event,
// then publishes it for asynchronous cargo update.
func (s *HandlingService) RegisterHandlingEvent(
	ctx context.Context,
	completionTime time.Time,
	trackingID domain.TrackingID,
	voyageNumber domain.VoyageNumber,
	unLocode domain.UnLocode,
	activityType domain.HandlingActivityType,
	operatorCode domain.OperatorCode,
) (_ *domain.HandlingEvent, err error) {
	defer obs.Time(ctx, "handling.RegisterHandlingEvent")(&err)

	event, err := s.Factory.CreateHandlingEvent(ctx, time.Now(), completionTime, trackingID, voyageNumber, unLocode, activityType, operatorCode)
	if err != nil {
		return nil, fmt.Errorf("register handling event: %w", err)
	}

	if err := s.Events.Store(ctx, event); err != nil {
		return nil, fmt.Errorf("register handling event: store event #%d: %w", event.SequenceNumber, err)
	}

	if err := s.Publisher.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("register handling event: publish event #%d: %w", event.SequenceNumber, err)
	}

	return event, nil
}

// ApplyHandlingEvent is the consumer side of the decoupled update: look the
// event up by sequence number and apply its activity to the cargo. A
// missing event is a defined no-op, not an error, and a stale or duplicate
// activity is silently dropped by the aggregate, so redelivery is always
// safe.
func (s *HandlingService) ApplyHandlingEvent(ctx context.Context, sequenceNumber domain.EventSequenceNumber) (err error) {
	defer obs.Time(ctx, "handling.ApplyHandlingEvent")(&err)

	event, err := s.Events.FindBySequenceNumber(ctx, sequenceNumber)
	if err != nil {
		return fmt.Errorf("apply handling event: find event #%d: %w", sequenceNumber, err)
	}
	if event == nil {
		log.Printf("apply handling event: no event for sequence_number=%d, skipping", sequenceNumber)
		return nil
	}

	cargo := event.Cargo
	cargo.Handled(event.Activity)

	if err := s.Cargos.Store(ctx, cargo); err != nil {
		return fmt.Errorf("apply handling event: store cargo %s: %w", cargo.TrackingID, err)
	}
	return nil
}
