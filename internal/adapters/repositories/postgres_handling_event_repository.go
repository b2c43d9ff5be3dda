package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
)

// Postgres-backed implementation of the HandlingEventRepository port. The
// handling_events table is strictly append-only: rows are inserted once and
// never updated or deleted.
type PostgresHandlingEventRepository struct {
	DB        *sql.DB
	Cargos    ports.CargoRepository
	Locations ports.LocationRepository
	Voyages   ports.VoyageRepository
}

func NewPostgresHandlingEventRepository(db *sql.DB, cargos ports.CargoRepository, locations ports.LocationRepository, voyages ports.VoyageRepository) *PostgresHandlingEventRepository {
	return &PostgresHandlingEventRepository{DB: db, Cargos: cargos, Locations: locations, Voyages: voyages}
}

// SyncSequence advances the domain's event sequence counter past the
// highest stored sequence number, so identities drawn after a restart do
// not collide with persisted events. Call once at startup.
func (r *PostgresHandlingEventRepository) SyncSequence(ctx context.Context) error {
	if r.DB == nil {
		return errors.New("handling event repository: DB is nil")
	}

	var max sql.NullInt64
	if err := r.DB.QueryRowContext(ctx, `SELECT MAX(sequence_number) FROM handling_events;`).Scan(&max); err != nil {
		return fmt.Errorf("sync event sequence: %w", err)
	}
	if max.Valid {
		domain.SyncEventSequence(domain.EventSequenceNumber(max.Int64))
	}
	return nil
}

func (r *PostgresHandlingEventRepository) Store(ctx context.Context, event *domain.HandlingEvent) error {
	if r.DB == nil {
		return errors.New("handling event repository: DB is nil")
	}
	if event == nil {
		return errors.New("store handling event: event is nil")
	}

	var voyageNumber sql.NullString
	if event.Activity.Voyage != nil {
		voyageNumber = sql.NullString{String: string(event.Activity.Voyage.Number), Valid: true}
	}

	if _, err := r.DB.ExecContext(ctx, `
	INSERT INTO handling_events
		(sequence_number, tracking_id, activity_type, location, voyage_number, operator_code, completion_time, registration_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`,
		int64(event.SequenceNumber),
		string(event.Cargo.TrackingID),
		event.Activity.Type.String(),
		string(event.Activity.Location.UnLocode),
		voyageNumber,
		string(event.OperatorCode),
		event.CompletionTime,
		event.RegistrationTime,
	); err != nil {
		return fmt.Errorf("store handling event #%d: %w", event.SequenceNumber, err)
	}
	return nil
}

func (r *PostgresHandlingEventRepository) FindBySequenceNumber(ctx context.Context, sequenceNumber domain.EventSequenceNumber) (*domain.HandlingEvent, error) {
	if r.DB == nil {
		return nil, errors.New("handling event repository: DB is nil")
	}

	row := r.DB.QueryRowContext(ctx, `
	SELECT sequence_number, tracking_id, activity_type, location, voyage_number, operator_code, completion_time, registration_time
	FROM handling_events
	WHERE sequence_number = $1;
	`, int64(sequenceNumber))

	event, err := r.scanEvent(ctx, row, nil)
	if errors.Is(err, sql.ErrNoRows) {
		// A missing event is a defined no-op for async consumers.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find handling event #%d: %w", sequenceNumber, err)
	}
	return event, nil
}

func (r *PostgresHandlingEventRepository) LookupHandlingHistoryOfCargo(ctx context.Context, cargo *domain.Cargo) (domain.HandlingHistory, error) {
	if r.DB == nil {
		return domain.HandlingHistory{}, errors.New("handling event repository: DB is nil")
	}
	if cargo == nil {
		return domain.HandlingHistory{}, errors.New("lookup handling history: cargo is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT sequence_number, tracking_id, activity_type, location, voyage_number, operator_code, completion_time, registration_time
	FROM handling_events
	WHERE tracking_id = $1
	ORDER BY sequence_number;
	`, string(cargo.TrackingID))
	if err != nil {
		return domain.HandlingHistory{}, fmt.Errorf("lookup handling history of %s: query handling_events: %w", cargo.TrackingID, err)
	}
	defer rows.Close()

	events := make([]*domain.HandlingEvent, 0, 16)
	for rows.Next() {
		event, err := r.scanEvent(ctx, rows, cargo)
		if err != nil {
			return domain.HandlingHistory{}, fmt.Errorf("lookup handling history of %s: %w", cargo.TrackingID, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return domain.HandlingHistory{}, fmt.Errorf("lookup handling history of %s: row iteration: %w", cargo.TrackingID, err)
	}

	history, err := domain.NewHandlingHistory(events)
	if err != nil {
		return domain.HandlingHistory{}, fmt.Errorf("lookup handling history of %s: %w", cargo.TrackingID, err)
	}
	return history, nil
}

// scanEvent rebuilds one event row. When the caller already holds the
// cargo aggregate it is reused instead of being loaded again.
func (r *PostgresHandlingEventRepository) scanEvent(ctx context.Context, row rowScanner, cargo *domain.Cargo) (*domain.HandlingEvent, error) {
	var (
		sequenceNumber                         int64
		trackingID, activityType, locationCode string
		voyageNumber                           sql.NullString
		operatorCode                           string
		completionTime, registrationTime       time.Time
	)
	if err := row.Scan(&sequenceNumber, &trackingID, &activityType, &locationCode, &voyageNumber, &operatorCode, &completionTime, &registrationTime); err != nil {
		return nil, err
	}

	if cargo == nil {
		found, err := r.Cargos.Find(ctx, domain.TrackingID(trackingID))
		if err != nil {
			return nil, err
		}
		cargo = found
	}

	parsedType, err := domain.ParseHandlingActivityType(activityType)
	if err != nil {
		return nil, err
	}
	location, err := r.Locations.Find(ctx, domain.UnLocode(locationCode))
	if err != nil {
		return nil, err
	}

	var voyage *domain.Voyage
	if voyageNumber.Valid && voyageNumber.String != "" {
		voyage, err = r.Voyages.Find(ctx, domain.VoyageNumber(voyageNumber.String))
		if err != nil {
			return nil, err
		}
	}

	return &domain.HandlingEvent{
		SequenceNumber:   domain.EventSequenceNumber(sequenceNumber),
		Cargo:            cargo,
		Activity:         domain.HandlingActivity{Type: parsedType, Location: location, Voyage: voyage},
		CompletionTime:   completionTime,
		RegistrationTime: registrationTime,
		OperatorCode:     domain.OperatorCode(operatorCode),
	}, nil
}
