package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"cargo-shipping-service/internal/adapters/events"
	"cargo-shipping-service/internal/adapters/idgen"
	"cargo-shipping-service/internal/adapters/repositories"
	"cargo-shipping-service/internal/adapters/routing"
	"cargo-shipping-service/internal/api"
	"cargo-shipping-service/internal/config"
	"cargo-shipping-service/internal/platform/db"
	"cargo-shipping-service/internal/ports"
	"cargo-shipping-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Kafka, Redis, the pathfinder)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}
	routingURL := os.Getenv("ROUTING_SERVICE_URL")
	if strings.TrimSpace(routingURL) == "" {
		log.Fatal("ROUTING_SERVICE_URL is required")
	}
	port := config.Get("PORT", "8080")

	database, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	locations := repositories.NewPostgresLocationRepository(database)
	voyages := repositories.NewPostgresVoyageRepository(database, locations)
	cargos := repositories.NewPostgresCargoRepository(database, locations, voyages)
	eventRepo := repositories.NewPostgresHandlingEventRepository(database, cargos, locations, voyages)

	// The event sequence counter continues from whatever was issued before
	// the last restart.
	if err := eventRepo.SyncSequence(context.Background()); err != nil {
		log.Fatal(err)
	}

	routeFinder, err := buildRouteFinder(routingURL, voyages, locations)
	if err != nil {
		log.Fatal(err)
	}

	booking := &services.BookingService{
		Cargos:      cargos,
		Locations:   locations,
		RouteFinder: routeFinder,
		TrackingIDs: idgen.UUIDTrackingIDGenerator{},
	}
	tracking := &services.TrackingService{Cargos: cargos, Events: eventRepo}
	voyageService := &services.VoyageService{Voyages: voyages, Locations: locations, Cargos: cargos}

	handling := &services.HandlingService{
		Factory: &services.HandlingEventFactory{
			Cargos:    cargos,
			Voyages:   voyages,
			Locations: locations,
		},
		Events: eventRepo,
		Cargos: cargos,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Handling events flow back into cargo updates either through Kafka or,
	// without brokers configured, synchronously in process.
	consumerDone := make(chan struct{})
	if brokers := os.Getenv("KAFKA_BROKERS"); strings.TrimSpace(brokers) != "" {
		topic := config.Get("KAFKA_HANDLING_TOPIC", "cargo.handling-events")
		groupID := config.Get("KAFKA_GROUP_ID", "cargo-shipping-service")

		publisher, err := events.NewKafkaHandlingEventPublisher(strings.Split(brokers, ","), topic)
		if err != nil {
			log.Fatal(err)
		}
		defer publisher.Close()
		handling.Publisher = publisher

		consumer, err := events.NewKafkaHandlingEventConsumer(strings.Split(brokers, ","), topic, groupID, handling.ApplyHandlingEvent)
		if err != nil {
			log.Fatal(err)
		}
		defer consumer.Close()

		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil {
				log.Printf("handling event consumer stopped: %v", err)
			}
		}()
	} else {
		log.Println("KAFKA_BROKERS not set, applying handling events in process")
		handling.Publisher = &events.InProcessHandlingEventPublisher{Apply: handling.ApplyHandlingEvent}
		close(consumerDone)
	}

	router := api.NewRouter(booking, tracking, handling, voyageService, voyages, locations, database)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	<-consumerDone
}

// buildRouteFinder wraps the pathfinder client in a Redis cache when
// REDIS_ADDR is configured.
func buildRouteFinder(routingURL string, voyages ports.VoyageRepository, locations ports.LocationRepository) (ports.RouteFinder, error) {
	finder, err := routing.NewPathfinderRouteFinder(routingURL, voyages, locations)
	if err != nil {
		return nil, err
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if strings.TrimSpace(redisAddr) == "" {
		return finder, nil
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	ttl := 15 * time.Minute
	if v := os.Getenv("ROUTE_CACHE_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid ROUTE_CACHE_TTL %q, using default: %v", v, err)
		} else {
			ttl = parsed
		}
	}

	return routing.NewRedisRouteCache(client, finder, ttl, voyages, locations), nil
}
