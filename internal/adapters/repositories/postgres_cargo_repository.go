package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/platform/obs"
	"cargo-shipping-service/internal/ports"
)

// Postgres-backed implementation of the CargoRepository port. A cargo row
// carries the route specification and the two delivery activity markers;
// itinerary legs live in their own table keyed by (tracking_id, leg_index).
type PostgresCargoRepository struct {
	DB        *sql.DB
	Locations ports.LocationRepository
	Voyages   ports.VoyageRepository
}

func NewPostgresCargoRepository(db *sql.DB, locations ports.LocationRepository, voyages ports.VoyageRepository) *PostgresCargoRepository {
	return &PostgresCargoRepository{DB: db, Locations: locations, Voyages: voyages}
}

func (r *PostgresCargoRepository) Find(ctx context.Context, trackingID domain.TrackingID) (_ *domain.Cargo, err error) {
	defer obs.Time(ctx, "cargo.repository.Find")(&err)

	if r.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	query := `
	SELECT tracking_id, origin, destination, arrival_deadline,
		last_activity_type, last_activity_location, last_activity_voyage,
		last_physical_activity_type, last_physical_activity_location, last_physical_activity_voyage,
		delivery_updated_on
	FROM cargos
	WHERE tracking_id = $1;
	`
	cargo, err := r.scanCargo(ctx, r.DB.QueryRowContext(ctx, query, string(trackingID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find cargo %s: %w", trackingID, ports.ErrUnknownCargo)
	}
	if err != nil {
		return nil, fmt.Errorf("find cargo %s: %w", trackingID, err)
	}
	return cargo, nil
}

func (r *PostgresCargoRepository) FindAll(ctx context.Context) (_ []*domain.Cargo, err error) {
	defer obs.Time(ctx, "cargo.repository.FindAll")(&err)

	if r.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT tracking_id FROM cargos ORDER BY tracking_id;`)
	if err != nil {
		return nil, fmt.Errorf("list cargos: query cargos table: %w", err)
	}
	defer rows.Close()

	ids := make([]domain.TrackingID, 0, 64)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list cargos: scan row: %w", err)
		}
		ids = append(ids, domain.TrackingID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cargos: row iteration: %w", err)
	}

	cargos := make([]*domain.Cargo, 0, len(ids))
	for _, id := range ids {
		cargo, err := r.Find(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list cargos: %w", err)
		}
		cargos = append(cargos, cargo)
	}
	return cargos, nil
}

func (r *PostgresCargoRepository) FindCargosOnVoyage(ctx context.Context, voyageNumber domain.VoyageNumber) (_ []*domain.Cargo, err error) {
	defer obs.Time(ctx, "cargo.repository.FindCargosOnVoyage")(&err)

	if r.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT DISTINCT tracking_id
	FROM itinerary_legs
	WHERE voyage_number = $1
	ORDER BY tracking_id;
	`, string(voyageNumber))
	if err != nil {
		return nil, fmt.Errorf("find cargos on voyage %s: query itinerary_legs: %w", voyageNumber, err)
	}
	defer rows.Close()

	ids := make([]domain.TrackingID, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("find cargos on voyage %s: scan row: %w", voyageNumber, err)
		}
		ids = append(ids, domain.TrackingID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find cargos on voyage %s: row iteration: %w", voyageNumber, err)
	}

	cargos := make([]*domain.Cargo, 0, len(ids))
	for _, id := range ids {
		cargo, err := r.Find(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find cargos on voyage %s: %w", voyageNumber, err)
		}
		cargos = append(cargos, cargo)
	}
	return cargos, nil
}

// Store upserts the cargo row and rewrites its itinerary legs in one
// transaction.
func (r *PostgresCargoRepository) Store(ctx context.Context, cargo *domain.Cargo) (err error) {
	defer obs.Time(ctx, "cargo.repository.Store")(&err)

	if r.DB == nil {
		return errors.New("cargo repository: DB is nil")
	}
	if cargo == nil {
		return errors.New("store cargo: cargo is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store cargo %s: begin tx: %w", cargo.TrackingID, err)
	}
	defer func() { _ = tx.Rollback() }()

	lastType, lastLocation, lastVoyage := activityColumns(cargo.Delivery.MostRecentHandlingActivity)
	physType, physLocation, physVoyage := activityColumns(cargo.Delivery.MostRecentPhysicalHandlingActivity)

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO cargos
		(tracking_id, origin, destination, arrival_deadline,
		 last_activity_type, last_activity_location, last_activity_voyage,
		 last_physical_activity_type, last_physical_activity_location, last_physical_activity_voyage,
		 delivery_updated_on)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (tracking_id) DO UPDATE
	SET origin = EXCLUDED.origin,
		destination = EXCLUDED.destination,
		arrival_deadline = EXCLUDED.arrival_deadline,
		last_activity_type = EXCLUDED.last_activity_type,
		last_activity_location = EXCLUDED.last_activity_location,
		last_activity_voyage = EXCLUDED.last_activity_voyage,
		last_physical_activity_type = EXCLUDED.last_physical_activity_type,
		last_physical_activity_location = EXCLUDED.last_physical_activity_location,
		last_physical_activity_voyage = EXCLUDED.last_physical_activity_voyage,
		delivery_updated_on = EXCLUDED.delivery_updated_on;
	`,
		string(cargo.TrackingID),
		string(cargo.RouteSpecification.Origin.UnLocode),
		string(cargo.RouteSpecification.Destination.UnLocode),
		cargo.RouteSpecification.ArrivalDeadline,
		lastType, lastLocation, lastVoyage,
		physType, physLocation, physVoyage,
		cargo.Delivery.LastUpdatedOn,
	); err != nil {
		return fmt.Errorf("store cargo %s: upsert cargo row: %w", cargo.TrackingID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM itinerary_legs WHERE tracking_id = $1;`, string(cargo.TrackingID)); err != nil {
		return fmt.Errorf("store cargo %s: clear legs: %w", cargo.TrackingID, err)
	}

	if !cargo.Itinerary.IsEmpty() {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO itinerary_legs
			(tracking_id, leg_index, voyage_number, load_location, unload_location, load_time, unload_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
		`)
		if err != nil {
			return fmt.Errorf("store cargo %s: prepare leg insert: %w", cargo.TrackingID, err)
		}
		defer stmt.Close()

		for i, leg := range cargo.Itinerary.Legs {
			if _, err := stmt.ExecContext(ctx,
				string(cargo.TrackingID), i,
				string(leg.Voyage.Number),
				string(leg.LoadLocation.UnLocode), string(leg.UnloadLocation.UnLocode),
				leg.LoadTime, leg.UnloadTime,
			); err != nil {
				return fmt.Errorf("store cargo %s: insert leg #%d: %w", cargo.TrackingID, i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store cargo %s: commit tx: %w", cargo.TrackingID, err)
	}
	return nil
}

func (r *PostgresCargoRepository) scanCargo(ctx context.Context, row rowScanner) (*domain.Cargo, error) {
	var (
		id, originCode, destinationCode string
		arrivalDeadline                 time.Time
		lastType, lastLocation          sql.NullString
		lastVoyage                      sql.NullString
		physType, physLocation          sql.NullString
		physVoyage                      sql.NullString
		deliveryUpdatedOn               time.Time
	)
	if err := row.Scan(
		&id, &originCode, &destinationCode, &arrivalDeadline,
		&lastType, &lastLocation, &lastVoyage,
		&physType, &physLocation, &physVoyage,
		&deliveryUpdatedOn,
	); err != nil {
		return nil, err
	}

	origin, err := r.Locations.Find(ctx, domain.UnLocode(originCode))
	if err != nil {
		return nil, fmt.Errorf("resolve origin: %w", err)
	}
	destination, err := r.Locations.Find(ctx, domain.UnLocode(destinationCode))
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	itinerary, err := r.loadItinerary(ctx, domain.TrackingID(id))
	if err != nil {
		return nil, err
	}

	lastActivity, err := r.loadActivity(ctx, lastType, lastLocation, lastVoyage)
	if err != nil {
		return nil, fmt.Errorf("rebuild last activity: %w", err)
	}
	physicalActivity, err := r.loadActivity(ctx, physType, physLocation, physVoyage)
	if err != nil {
		return nil, fmt.Errorf("rebuild last physical activity: %w", err)
	}

	return &domain.Cargo{
		TrackingID: domain.TrackingID(id),
		RouteSpecification: domain.RouteSpecification{
			Origin:          origin,
			Destination:     destination,
			ArrivalDeadline: arrivalDeadline,
		},
		Itinerary: itinerary,
		Delivery: domain.Delivery{
			MostRecentHandlingActivity:         lastActivity,
			MostRecentPhysicalHandlingActivity: physicalActivity,
			LastUpdatedOn:                      deliveryUpdatedOn,
		},
	}, nil
}

// loadItinerary rebuilds the legs from their stored endpoints and times.
// Times are taken from the rows, not re-derived, so a leg survives exactly
// as it was assigned even if the voyage was rescheduled afterwards.
func (r *PostgresCargoRepository) loadItinerary(ctx context.Context, trackingID domain.TrackingID) (domain.Itinerary, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT voyage_number, load_location, unload_location, load_time, unload_time
	FROM itinerary_legs
	WHERE tracking_id = $1
	ORDER BY leg_index;
	`, string(trackingID))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("load itinerary: query itinerary_legs: %w", err)
	}
	defer rows.Close()

	legs := make([]domain.Leg, 0, 4)
	for rows.Next() {
		var (
			voyageNumber, loadCode, unloadCode string
			loadTime, unloadTime               time.Time
		)
		if err := rows.Scan(&voyageNumber, &loadCode, &unloadCode, &loadTime, &unloadTime); err != nil {
			return domain.Itinerary{}, fmt.Errorf("load itinerary: scan leg: %w", err)
		}

		voyage, err := r.Voyages.Find(ctx, domain.VoyageNumber(voyageNumber))
		if err != nil {
			return domain.Itinerary{}, fmt.Errorf("load itinerary: %w", err)
		}
		loadLocation, err := r.Locations.Find(ctx, domain.UnLocode(loadCode))
		if err != nil {
			return domain.Itinerary{}, fmt.Errorf("load itinerary: %w", err)
		}
		unloadLocation, err := r.Locations.Find(ctx, domain.UnLocode(unloadCode))
		if err != nil {
			return domain.Itinerary{}, fmt.Errorf("load itinerary: %w", err)
		}

		legs = append(legs, domain.Leg{
			Voyage:         voyage,
			LoadLocation:   loadLocation,
			UnloadLocation: unloadLocation,
			LoadTime:       loadTime,
			UnloadTime:     unloadTime,
		})
	}
	if err := rows.Err(); err != nil {
		return domain.Itinerary{}, fmt.Errorf("load itinerary: row iteration: %w", err)
	}

	return domain.Itinerary{Legs: legs}, nil
}

func (r *PostgresCargoRepository) loadActivity(ctx context.Context, activityType, locationCode, voyageNumber sql.NullString) (*domain.HandlingActivity, error) {
	if !activityType.Valid || activityType.String == "" {
		return nil, nil
	}

	parsedType, err := domain.ParseHandlingActivityType(activityType.String)
	if err != nil {
		return nil, err
	}

	location, err := r.Locations.Find(ctx, domain.UnLocode(locationCode.String))
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

	return &domain.HandlingActivity{Type: parsedType, Location: location, Voyage: voyage}, nil
}

func activityColumns(activity *domain.HandlingActivity) (activityType, location, voyage sql.NullString) {
	if activity == nil {
		return sql.NullString{}, sql.NullString{}, sql.NullString{}
	}
	activityType = sql.NullString{String: activity.Type.String(), Valid: true}
	location = sql.NullString{String: string(activity.Location.UnLocode), Valid: true}
	if activity.Voyage != nil {
		voyage = sql.NullString{String: string(activity.Voyage.Number), Valid: true}
	}
	return activityType, location, voyage
}
