package repositories

import (
	"context"
	"fmt"
	"sync"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
)

// In-memory repository implementations, used by tests and local runs that
// do not need a database.

type InMemCargoRepository struct {
	mu     sync.RWMutex
	cargos map[domain.TrackingID]*domain.Cargo
}

func NewInMemCargoRepository() *InMemCargoRepository {
	return &InMemCargoRepository{cargos: make(map[domain.TrackingID]*domain.Cargo)}
}

func (r *InMemCargoRepository) Find(ctx context.Context, trackingID domain.TrackingID) (*domain.Cargo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cargo, ok := r.cargos[trackingID]
	if !ok {
		return nil, fmt.Errorf("find cargo %s: %w", trackingID, ports.ErrUnknownCargo)
	}
	return cargo, nil
}

func (r *InMemCargoRepository) Store(ctx context.Context, cargo *domain.Cargo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cargos[cargo.TrackingID] = cargo
	return nil
}

func (r *InMemCargoRepository) FindAll(ctx context.Context) ([]*domain.Cargo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.Cargo, 0, len(r.cargos))
	for _, cargo := range r.cargos {
		all = append(all, cargo)
	}
	return all, nil
}

func (r *InMemCargoRepository) FindCargosOnVoyage(ctx context.Context, voyageNumber domain.VoyageNumber) ([]*domain.Cargo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var onVoyage []*domain.Cargo
	for _, cargo := range r.cargos {
		for _, leg := range cargo.Itinerary.Legs {
			if leg.Voyage.Number == voyageNumber {
				onVoyage = append(onVoyage, cargo)
				break
			}
		}
	}
	return onVoyage, nil
}

type InMemLocationRepository struct {
	mu        sync.RWMutex
	locations map[domain.UnLocode]*domain.Location
}

func NewInMemLocationRepository(locations ...*domain.Location) *InMemLocationRepository {
	repo := &InMemLocationRepository{locations: make(map[domain.UnLocode]*domain.Location)}
	for _, l := range locations {
		repo.locations[l.UnLocode] = l
	}
	return repo
}

func (r *InMemLocationRepository) Find(ctx context.Context, unLocode domain.UnLocode) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	location, ok := r.locations[unLocode]
	if !ok {
		return nil, fmt.Errorf("find location %s: %w", unLocode, ports.ErrUnknownLocation)
	}
	return location, nil
}

func (r *InMemLocationRepository) FindAll(ctx context.Context) ([]*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.Location, 0, len(r.locations))
	for _, location := range r.locations {
		all = append(all, location)
	}
	return all, nil
}

type InMemVoyageRepository struct {
	mu      sync.RWMutex
	voyages map[domain.VoyageNumber]*domain.Voyage
}

func NewInMemVoyageRepository(voyages ...*domain.Voyage) *InMemVoyageRepository {
	repo := &InMemVoyageRepository{voyages: make(map[domain.VoyageNumber]*domain.Voyage)}
	for _, v := range voyages {
		repo.voyages[v.Number] = v
	}
	return repo
}

func (r *InMemVoyageRepository) Find(ctx context.Context, voyageNumber domain.VoyageNumber) (*domain.Voyage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	voyage, ok := r.voyages[voyageNumber]
	if !ok {
		return nil, fmt.Errorf("find voyage %s: %w", voyageNumber, ports.ErrUnknownVoyage)
	}
	return voyage, nil
}

func (r *InMemVoyageRepository) Store(ctx context.Context, voyage *domain.Voyage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voyages[voyage.Number] = voyage
	return nil
}

type InMemHandlingEventRepository struct {
	mu     sync.RWMutex
	events []*domain.HandlingEvent
}

func NewInMemHandlingEventRepository() *InMemHandlingEventRepository {
	return &InMemHandlingEventRepository{}
}

func (r *InMemHandlingEventRepository) Store(ctx context.Context, event *domain.HandlingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *InMemHandlingEventRepository) FindBySequenceNumber(ctx context.Context, sequenceNumber domain.EventSequenceNumber) (*domain.HandlingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, event := range r.events {
		if event.SequenceNumber == sequenceNumber {
			return event, nil
		}
	}
	return nil, nil
}

func (r *InMemHandlingEventRepository) LookupHandlingHistoryOfCargo(ctx context.Context, cargo *domain.Cargo) (domain.HandlingHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ofCargo []*domain.HandlingEvent
	for _, event := range r.events {
		if event.Cargo.SameIdentityAs(cargo) {
			ofCargo = append(ofCargo, event)
		}
	}
	return domain.NewHandlingHistory(ofCargo)
}
