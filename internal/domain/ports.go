package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound marks a missing row on direct lookups.
	ErrNotFound = errors.New("not found")

	// ErrConnection marks a store connection that stayed dead after the
	// manager's single reconnect attempt. Callers surface it as a failed
	// aggregation; it is not retried below that layer.
	ErrConnection = errors.New("store connection unavailable")

	// ErrRateLimited marks model-backend quota exhaustion after the retry
	// policy gave up.
	ErrRateLimited = errors.New("model backend rate limited")

	// ErrBadDescriptor marks a tool input with fewer than 3 pipe-delimited
	// fields. Its rendering is instructional text, never a stack trace.
	ErrBadDescriptor = errors.New("invalid query descriptor")
)

// BadDescriptorHint is the user/model-facing rendering of ErrBadDescriptor.
const BadDescriptorHint = "Invalid format. Use: from_city|to_city|budget_level|interests"

type TravelRepository interface {
	// Read paths
	FindFlights(ctx context.Context, origin, destination string, limit int) ([]FlightOffer, error)
	FindHotels(ctx context.Context, city string, minStars int, maxPrice float64, limit int) ([]HotelOffer, error)
	FindPlaces(ctx context.Context, city string, minRating float64, limit int) ([]PlaceOfInterest, error)
	RouteCounts(ctx context.Context) ([]RouteCount, error)

	// Write paths
	UpsertFlight(ctx context.Context, f FlightOffer) error
	UpsertHotel(ctx context.Context, h HotelOffer) error
	UpsertPlace(ctx context.Context, p PlaceOfInterest) error
	SaveTrip(ctx context.Context, t TripRecord) error
}

// ModelClient is the request/response surface of the language-model backend.
// Generate blocks for one full model round trip; rate limiting is reported
// via ErrRateLimited so the orchestrator's retry policy can act on it.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
