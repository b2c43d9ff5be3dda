package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"cargo-shipping-service/internal/adapters/repositories"
	"cargo-shipping-service/internal/config"
	"cargo-shipping-service/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	database, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	locationSeed := config.Get("LOCATION_SEED_PATH", "data/seeds/locations.json")
	voyageSeed := config.Get("VOYAGE_SEED_PATH", "data/seeds/voyages.json")
	if err := initAndSeed(database, locationSeed, voyageSeed); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(database *sql.DB, locationSeed, voyageSeed string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(database); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding locations...")
	if err := repositories.SeedLocationsFromJSON(database, locationSeed); err != nil {
		log.Fatalf("location seeding failed: %v", err)
	}

	log.Println("Seeding voyages...")
	if err := repositories.SeedVoyagesFromJSON(database, voyageSeed); err != nil {
		log.Fatalf("voyage seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
