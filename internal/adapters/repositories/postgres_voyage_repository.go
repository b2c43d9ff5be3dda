package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
)

// Postgres-backed implementation of the VoyageRepository port. Locations
// referenced by carrier movements are resolved through the location
// repository so customs zone data stays attached.
type PostgresVoyageRepository struct {
	DB        *sql.DB
	Locations ports.LocationRepository
}

func NewPostgresVoyageRepository(db *sql.DB, locations ports.LocationRepository) *PostgresVoyageRepository {
	return &PostgresVoyageRepository{DB: db, Locations: locations}
}

func (r *PostgresVoyageRepository) Find(ctx context.Context, voyageNumber domain.VoyageNumber) (*domain.Voyage, error) {
	if r.DB == nil {
		return nil, errors.New("voyage repository: DB is nil")
	}

	query := `
	SELECT departure_location, arrival_location, departure_time, arrival_time
	FROM carrier_movements
	WHERE voyage_number = $1
	ORDER BY movement_index;
	`
	rows, err := r.DB.QueryContext(ctx, query, string(voyageNumber))
	if err != nil {
		return nil, fmt.Errorf("find voyage %s: query carrier_movements: %w", voyageNumber, err)
	}
	defer rows.Close()

	movements := make([]domain.CarrierMovement, 0, 8)
	for rows.Next() {
		var (
			departureCode, arrivalCode string
			departureTime, arrivalTime sql.NullTime
		)
		if err := rows.Scan(&departureCode, &arrivalCode, &departureTime, &arrivalTime); err != nil {
			return nil, fmt.Errorf("find voyage %s: scan movement: %w", voyageNumber, err)
		}

		departure, err := r.Locations.Find(ctx, domain.UnLocode(departureCode))
		if err != nil {
			return nil, fmt.Errorf("find voyage %s: %w", voyageNumber, err)
		}
		arrival, err := r.Locations.Find(ctx, domain.UnLocode(arrivalCode))
		if err != nil {
			return nil, fmt.Errorf("find voyage %s: %w", voyageNumber, err)
		}

		movements = append(movements, domain.CarrierMovement{
			DepartureLocation: departure,
			ArrivalLocation:   arrival,
			DepartureTime:     departureTime.Time,
			ArrivalTime:       arrivalTime.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find voyage %s: row iteration: %w", voyageNumber, err)
	}

	if len(movements) == 0 {
		return nil, fmt.Errorf("find voyage %s: %w", voyageNumber, ports.ErrUnknownVoyage)
	}

	return &domain.Voyage{
		Number:   voyageNumber,
		Schedule: domain.Schedule{Movements: movements},
	}, nil
}

// Store persists the voyage's current schedule. Rescheduling replaces the
// movement rows wholesale.
func (r *PostgresVoyageRepository) Store(ctx context.Context, voyage *domain.Voyage) error {
	if r.DB == nil {
		return errors.New("voyage repository: DB is nil")
	}
	if voyage == nil {
		return errors.New("store voyage: voyage is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store voyage %s: begin tx: %w", voyage.Number, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO voyages (voyage_number) VALUES ($1)
	ON CONFLICT (voyage_number) DO NOTHING;
	`, string(voyage.Number)); err != nil {
		return fmt.Errorf("store voyage %s: insert voyage row: %w", voyage.Number, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM carrier_movements WHERE voyage_number = $1;`, string(voyage.Number)); err != nil {
		return fmt.Errorf("store voyage %s: clear movements: %w", voyage.Number, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO carrier_movements
		(voyage_number, movement_index, departure_location, arrival_location, departure_time, arrival_time)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("store voyage %s: prepare movement insert: %w", voyage.Number, err)
	}
	defer stmt.Close()

	for i, m := range voyage.Schedule.Movements {
		if _, err := stmt.ExecContext(ctx,
			string(voyage.Number), i,
			string(m.DepartureLocation.UnLocode), string(m.ArrivalLocation.UnLocode),
			m.DepartureTime, m.ArrivalTime,
		); err != nil {
			return fmt.Errorf("store voyage %s: insert movement #%d: %w", voyage.Number, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store voyage %s: commit tx: %w", voyage.Number, err)
	}
	return nil
}
