package domain

import "time"

// FlightOffer is one row of flight inventory. Read-only to this core;
// rows are produced by the out-of-band loader.
type FlightOffer struct {
	ID        string
	Airline   string
	FromCity  string
	ToCity    string
	Departure time.Time
	Arrival   time.Time
	Price     float64
}

type HotelOffer struct {
	ID            string
	Name          string
	City          string
	Stars         int // 1..5
	PricePerNight float64
	Amenities     []string // canonical in-memory form, normalized at the repo boundary
}

type PlaceOfInterest struct {
	ID     string
	Name   string
	City   string
	Type   string
	Rating float64 // 0.0..5.0
}

// Budget tiers understood by the aggregation policy. Anything else
// falls back to TierModerate.
const (
	TierBudget   = "budget"
	TierModerate = "moderate"
	TierLuxury   = "luxury"
)

// Multiplier maps a budget tier to its price multiplier.
func Multiplier(tier string) float64 {
	switch tier {
	case TierBudget:
		return 0.7
	case TierLuxury:
		return 1.5
	default:
		return 1.0
	}
}

// TripQueryDescriptor is the parsed form of the pipe-delimited tool input
// "origin|destination|budgetTier|interests". Cities are title-cased and the
// tier is lowercased before any lookup.
type TripQueryDescriptor struct {
	Origin      string
	Destination string
	BudgetTier  string
	Interests   string
}

// RouteOption is one Route Advisor suggestion: a served (from, to) pair and
// how many flights cover it.
type RouteOption struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// RouteCount is one entry of the store's route index.
type RouteCount struct {
	From  string
	To    string
	Count int
}

// TripRecord is the persisted trip_history row written after a successful
// planning run.
type TripRecord struct {
	UserID          string
	SourceCity      string
	DestinationCity string
	StartDate       time.Time
	EndDate         time.Time
	DurationDays    int
	TotalBudget     *float64
	ItineraryJSON   []byte // serialized AggregationReport
	AgentResponse   string
}
