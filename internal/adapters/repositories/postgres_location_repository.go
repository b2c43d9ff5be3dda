package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/ports"
)

// Postgres-backed implementation of the LocationRepository port.
type PostgresLocationRepository struct{ DB *sql.DB }

func NewPostgresLocationRepository(db *sql.DB) *PostgresLocationRepository {
	return &PostgresLocationRepository{DB: db}
}

func (r *PostgresLocationRepository) Find(ctx context.Context, unLocode domain.UnLocode) (*domain.Location, error) {
	if r.DB == nil {
		return nil, errors.New("location repository: DB is nil")
	}

	query := `
	SELECT unlocode, name, time_zone, customs_zone_code, customs_zone_name
	FROM locations
	WHERE unlocode = $1;
	`
	location, err := scanLocation(r.DB.QueryRowContext(ctx, query, string(unLocode)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find location %s: %w", unLocode, ports.ErrUnknownLocation)
	}
	if err != nil {
		return nil, fmt.Errorf("find location %s: %w", unLocode, err)
	}
	return location, nil
}

func (r *PostgresLocationRepository) FindAll(ctx context.Context) ([]*domain.Location, error) {
	if r.DB == nil {
		return nil, errors.New("location repository: DB is nil")
	}

	query := `
	SELECT unlocode, name, time_zone, customs_zone_code, customs_zone_name
	FROM locations
	ORDER BY unlocode;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0, 64)
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("list locations: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*domain.Location, error) {
	var (
		code, name, timeZone string
		zoneCode, zoneName   sql.NullString
	)
	if err := row.Scan(&code, &name, &timeZone, &zoneCode, &zoneName); err != nil {
		return nil, err
	}

	var zone *domain.CustomsZone
	if zoneCode.Valid && zoneCode.String != "" {
		zone = &domain.CustomsZone{Code: zoneCode.String, Name: zoneName.String}
	}

	return &domain.Location{
		UnLocode: domain.UnLocode(code),
		Name:     name,
		TimeZone: timeZone,
		Zone:     zone,
	}, nil
}
