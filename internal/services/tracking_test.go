package services

import (
	"context"
	"errors"
	"testing"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
)

func TestTrackingServiceTrackCargo(t *testing.T) {
	handlingSvc, _, cargo := newHandlingFixture(t)
	ctx := context.Background()

	svc := &TrackingService{Cargos: handlingSvc.Cargos, Events: handlingSvc.Events}

	receive, err := handlingSvc.RegisterHandlingEvent(ctx, hoursAfter(1), "ABC123", "", "CNHKG", domain.Receive, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	load, err := handlingSvc.RegisterHandlingEvent(ctx, hoursAfter(2), "ABC123", "V100", "CNHKG", domain.Load, "ABCDE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The same load reported twice collapses in the tracking view.
	if _, err := handlingSvc.RegisterHandlingEvent(ctx, hoursAfter(2), "ABC123", "V100", "CNHKG", domain.Load, "FGHIJ"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := svc.TrackCargo(ctx, "ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Cargo.SameIdentityAs(cargo) {
		t.Errorf("view cargo = %s, want ABC123", view.Cargo.TrackingID)
	}
	if len(view.History) != 2 {
		t.Fatalf("history = %d events, want duplicates collapsed to 2", len(view.History))
	}
	if !view.History[0].SameIdentityAs(receive) || !view.History[1].SameIdentityAs(load) {
		t.Errorf("history out of order: %v, %v", view.History[0], view.History[1])
	}

	if _, err := svc.TrackCargo(ctx, "NOSUCH"); !errors.Is(err, ports.ErrUnknownCargo) {
		t.Errorf("unknown cargo: err = %v, want ErrUnknownCargo", err)
	}
}
