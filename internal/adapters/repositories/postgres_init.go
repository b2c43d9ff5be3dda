package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		unlocode TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		time_zone TEXT NOT NULL DEFAULT '',
		customs_zone_code TEXT,
		customs_zone_name TEXT
	);
	`

	createVoyagesQuery := `
	CREATE TABLE IF NOT EXISTS voyages (
		voyage_number TEXT PRIMARY KEY
	);
	`

	createCarrierMovementsQuery := `
	CREATE TABLE IF NOT EXISTS carrier_movements (
		voyage_number TEXT NOT NULL REFERENCES voyages(voyage_number),
		movement_index INTEGER NOT NULL,
		departure_location TEXT NOT NULL REFERENCES locations(unlocode),
		arrival_location TEXT NOT NULL REFERENCES locations(unlocode),
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (voyage_number, movement_index)
	);
	`

	createCargosQuery := `
	CREATE TABLE IF NOT EXISTS cargos (
		tracking_id TEXT PRIMARY KEY,
		origin TEXT NOT NULL REFERENCES locations(unlocode),
		destination TEXT NOT NULL REFERENCES locations(unlocode),
		arrival_deadline TIMESTAMPTZ NOT NULL,
		last_activity_type TEXT,
		last_activity_location TEXT,
		last_activity_voyage TEXT,
		last_physical_activity_type TEXT,
		last_physical_activity_location TEXT,
		last_physical_activity_voyage TEXT,
		delivery_updated_on TIMESTAMPTZ NOT NULL
	);
	`

	createItineraryLegsQuery := `
	CREATE TABLE IF NOT EXISTS itinerary_legs (
		tracking_id TEXT NOT NULL REFERENCES cargos(tracking_id),
		leg_index INTEGER NOT NULL,
		voyage_number TEXT NOT NULL REFERENCES voyages(voyage_number),
		load_location TEXT NOT NULL REFERENCES locations(unlocode),
		unload_location TEXT NOT NULL REFERENCES locations(unlocode),
		load_time TIMESTAMPTZ NOT NULL,
		unload_time TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tracking_id, leg_index)
	);
	`

	createHandlingEventsQuery := `
	CREATE TABLE IF NOT EXISTS handling_events (
		sequence_number BIGINT PRIMARY KEY,
		tracking_id TEXT NOT NULL REFERENCES cargos(tracking_id),
		activity_type TEXT NOT NULL,
		location TEXT NOT NULL REFERENCES locations(unlocode),
		voyage_number TEXT,
		operator_code TEXT NOT NULL DEFAULT '',
		completion_time TIMESTAMPTZ NOT NULL,
		registration_time TIMESTAMPTZ NOT NULL
	);
	`

	createLegVoyageIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_itinerary_legs_voyage
	ON itinerary_legs(voyage_number);
	`

	createEventCargoIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_handling_events_tracking_id
	ON handling_events(tracking_id);
	`

	statements := []string{
		createLocationsQuery,
		createVoyagesQuery,
		createCarrierMovementsQuery,
		createCargosQuery,
		createItineraryLegsQuery,
		createHandlingEventsQuery,
		createLegVoyageIndexQuery,
		createEventCargoIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	UnLocode        string `json:"unlocode"`
	Name            string `json:"name"`
	TimeZone        string `json:"time_zone"`
	CustomsZoneCode string `json:"customs_zone_code"`
	CustomsZoneName string `json:"customs_zone_name"`
}

// Populate the locations table from a JSON file.
func SeedLocationsFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed locations: read %q: %w", jsonPath, err)
	}

	var data []LocationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed locations: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO locations (unlocode, name, time_zone, customs_zone_code, customs_zone_name)
	VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
	ON CONFLICT (unlocode) DO UPDATE
	SET name = EXCLUDED.name,
		time_zone = EXCLUDED.time_zone,
		customs_zone_code = EXCLUDED.customs_zone_code,
		customs_zone_name = EXCLUDED.customs_zone_name;
	`)
	if err != nil {
		return fmt.Errorf("seed locations: prepare: %w", err)
	}
	defer stmt.Close()

	for i, item := range data {
		code := strings.ToUpper(strings.TrimSpace(item.UnLocode))
		if code == "" {
			return fmt.Errorf("seed locations: empty unlocode at index %d", i)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed locations: empty name for %s", code)
		}
		if _, err := stmt.Exec(code, item.Name, item.TimeZone, strings.ToUpper(item.CustomsZoneCode), item.CustomsZoneName); err != nil {
			return fmt.Errorf("seed locations: insert %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed locations: commit tx: %w", err)
	}
	return nil
}

type MovementSeed struct {
	DepartureLocation string    `json:"departure_location"`
	ArrivalLocation   string    `json:"arrival_location"`
	DepartureTime     time.Time `json:"departure_time"`
	ArrivalTime       time.Time `json:"arrival_time"`
}

type VoyageSeed struct {
	VoyageNumber string         `json:"voyage_number"`
	Movements    []MovementSeed `json:"movements"`
}

// Populate the voyages and carrier_movements tables from a JSON file.
func SeedVoyagesFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed voyages: read %q: %w", jsonPath, err)
	}

	var data []VoyageSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed voyages: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed voyages: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, v := range data {
		number := strings.TrimSpace(v.VoyageNumber)
		if number == "" {
			return fmt.Errorf("seed voyages: empty voyage number at index %d", i)
		}
		if len(v.Movements) == 0 {
			return fmt.Errorf("seed voyages: voyage %s has no movements", number)
		}

		if _, err := tx.Exec(`
		INSERT INTO voyages (voyage_number) VALUES ($1)
		ON CONFLICT (voyage_number) DO NOTHING;
		`, number); err != nil {
			return fmt.Errorf("seed voyages: insert voyage %s: %w", number, err)
		}

		if _, err := tx.Exec(`DELETE FROM carrier_movements WHERE voyage_number = $1;`, number); err != nil {
			return fmt.Errorf("seed voyages: clear movements of %s: %w", number, err)
		}

		for mi, m := range v.Movements {
			if _, err := tx.Exec(`
			INSERT INTO carrier_movements
				(voyage_number, movement_index, departure_location, arrival_location, departure_time, arrival_time)
			VALUES ($1, $2, $3, $4, $5, $6);
			`, number, mi, strings.ToUpper(m.DepartureLocation), strings.ToUpper(m.ArrivalLocation), m.DepartureTime, m.ArrivalTime); err != nil {
				return fmt.Errorf("seed voyages: insert movement #%d of %s: %w", mi+1, number, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed voyages: commit tx: %w", err)
	}
	return nil
}
