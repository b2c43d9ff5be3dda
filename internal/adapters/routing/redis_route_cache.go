package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"cargo-shipping-service/internal/domain"
	"cargo-shipping-service/internal/platform/obs"
	"cargo-shipping-service/internal/ports"
)

// RedisRouteCache caches route candidates per route specification in front
// of a slower RouteFinder (typically the pathfinder HTTP adapter). Entries
// hold leg references only; legs are re-derived from the current voyage
// schedules on a hit, so a reschedule between lookups is reflected.
//
// The cache degrades to a pass-through on redis errors: routing must keep
// working when the cache is down.
type RedisRouteCache struct {
	Client    *redis.Client
	Inner     ports.RouteFinder
	TTL       time.Duration
	Voyages   ports.VoyageRepository
	Locations ports.LocationRepository
}

func NewRedisRouteCache(client *redis.Client, inner ports.RouteFinder, ttl time.Duration, voyages ports.VoyageRepository, locations ports.LocationRepository) *RedisRouteCache {
	return &RedisRouteCache{Client: client, Inner: inner, TTL: ttl, Voyages: voyages, Locations: locations}
}

func cacheKey(routeSpecification domain.RouteSpecification) string {
	return fmt.Sprintf(
		"routes:%s|%s|%d",
		routeSpecification.Origin.UnLocode,
		routeSpecification.Destination.UnLocode,
		routeSpecification.ArrivalDeadline.Unix(),
	)
}

func (c *RedisRouteCache) FetchRoutesForSpecification(ctx context.Context, routeSpecification domain.RouteSpecification) (_ []domain.Itinerary, err error) {
	defer obs.Time(ctx, "routing.cache.FetchRoutes")(&err)

	key := cacheKey(routeSpecification)

	cached, err := c.Client.Get(ctx, key).Result()
	switch {
	case err == nil:
		itineraries, rebuildErr := c.rebuild(ctx, cached)
		if rebuildErr == nil {
			return itineraries, nil
		}
		log.Printf("route cache: rebuild of key=%s failed, refetching: %v", key, rebuildErr)
	case err != redis.Nil:
		log.Printf("route cache: get key=%s failed, falling through: %v", key, err)
	}

	itineraries, err := c.Inner.FetchRoutesForSpecification(ctx, routeSpecification)
	if err != nil {
		return nil, err
	}

	refs := make([][]legRef, 0, len(itineraries))
	for _, itinerary := range itineraries {
		refs = append(refs, legRefsOf(itinerary))
	}

	payload, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("route cache: marshal candidates for key=%s: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, payload, c.TTL).Err(); err != nil {
		log.Printf("route cache: set key=%s failed: %v", key, err)
	}

	return itineraries, nil
}

func (c *RedisRouteCache) rebuild(ctx context.Context, cached string) ([]domain.Itinerary, error) {
	var refs [][]legRef
	if err := json.Unmarshal([]byte(cached), &refs); err != nil {
		return nil, fmt.Errorf("unmarshal cached routes: %w", err)
	}

	itineraries := make([]domain.Itinerary, 0, len(refs))
	for _, candidate := range refs {
		itinerary, err := buildItinerary(ctx, candidate, c.Voyages, c.Locations)
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries, itinerary)
	}
	return itineraries, nil
}
