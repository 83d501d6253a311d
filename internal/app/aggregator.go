package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"travel_planner/internal/domain"
)

// Fetch limits and thresholds of one aggregation call. All three fetches run
// sequentially; the report needs every section before formatting.
const (
	flightFetchLimit = 5
	hotelFetchLimit  = 5
	placeFetchLimit  = 15

	hotelMinStars  = 3
	placeMinRating = 3.5

	hotelBaseCeiling = 5000.0
	foodPerDayBase   = 1500.0
	transportPerDay  = 800.0

	displayFlights     = 3
	displayHotels      = 3
	displayAmenities   = 5
	displayCategories  = 5
	displayPerCategory = 3
)

// Aggregator turns a compact pipe-delimited descriptor into one merged,
// budget-annotated travel-data report.
type Aggregator struct {
	repo domain.TravelRepository
	log  zerolog.Logger
}

func NewAggregator(repo domain.TravelRepository, log zerolog.Logger) *Aggregator {
	return &Aggregator{repo: repo, log: log}
}

var cityCaser = cases.Title(language.English)

// ParseDescriptor splits "origin|destination|budgetTier[|interests]" and
// normalizes it: cities are trimmed and title-cased, the tier is trimmed and
// lowercased, interests default to "". Fewer than 3 fields is
// domain.ErrBadDescriptor.
func ParseDescriptor(query string) (domain.TripQueryDescriptor, error) {
	parts := strings.Split(query, "|")
	if len(parts) < 3 {
		return domain.TripQueryDescriptor{}, domain.ErrBadDescriptor
	}
	d := domain.TripQueryDescriptor{
		Origin:      cityCaser.String(strings.TrimSpace(parts[0])),
		Destination: cityCaser.String(strings.TrimSpace(parts[1])),
		BudgetTier:  strings.ToLower(strings.TrimSpace(parts[2])),
	}
	if len(parts) > 3 {
		d.Interests = strings.TrimSpace(strings.Join(parts[3:], ","))
	}
	return d, nil
}

// Aggregate runs one full aggregation: parse, budget policy, three
// sequential fetches, merge. Empty results are a valid business state and
// degrade to "not found" sections; only a malformed descriptor or a dead
// store connection fails the call.
func (a *Aggregator) Aggregate(ctx context.Context, query string) (*domain.AggregationReport, error) {
	desc, err := ParseDescriptor(query)
	if err != nil {
		return nil, err
	}

	mult := domain.Multiplier(desc.BudgetTier)
	ceiling := hotelBaseCeiling * mult

	flights, err := a.repo.FindFlights(ctx, desc.Origin, desc.Destination, flightFetchLimit)
	if err != nil {
		return nil, err
	}
	hotels, err := a.repo.FindHotels(ctx, desc.Destination, hotelMinStars, ceiling, hotelFetchLimit)
	if err != nil {
		return nil, err
	}
	places, err := a.repo.FindPlaces(ctx, desc.Destination, placeMinRating, placeFetchLimit)
	if err != nil {
		return nil, err
	}

	rep := &domain.AggregationReport{
		Query:       desc,
		Flights:     head(flights, displayFlights),
		Hotels:      truncateAmenities(head(hotels, displayHotels)),
		Attractions: groupPlaces(places),
		Estimate:    estimate(desc.BudgetTier, mult, flights, hotels),
	}
	a.log.Debug().
		Str("origin", desc.Origin).
		Str("destination", desc.Destination).
		Int("flights", len(flights)).
		Int("hotels", len(hotels)).
		Int("places", len(places)).
		Msg("aggregation complete")
	return rep, nil
}

func head[T any](in []T, n int) []T {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func truncateAmenities(hs []domain.HotelOffer) []domain.HotelOffer {
	for i := range hs {
		hs[i].Amenities = head(hs[i].Amenities, displayAmenities)
	}
	return hs
}

// groupPlaces buckets by category preserving first-seen category order (the
// fetch is rating-sorted, so hot categories come first), then caps at 5
// categories of 3 places.
func groupPlaces(places []domain.PlaceOfInterest) []domain.AttractionGroup {
	var order []string
	byType := map[string][]domain.PlaceOfInterest{}
	for _, p := range places {
		t := p.Type
		if t == "" {
			t = "general"
		}
		if _, seen := byType[t]; !seen {
			order = append(order, t)
		}
		byType[t] = append(byType[t], p)
	}

	var out []domain.AttractionGroup
	for _, t := range head(order, displayCategories) {
		out = append(out, domain.AttractionGroup{Type: t, Places: head(byType[t], displayPerCategory)})
	}
	return out
}

// estimate averages up to the first 2 fetched flights and hotels. Omitted
// entirely when either side has no inventory.
func estimate(tier string, mult float64, flights []domain.FlightOffer, hotels []domain.HotelOffer) *domain.BudgetEstimate {
	if len(flights) == 0 || len(hotels) == 0 {
		return nil
	}
	var flightSum float64
	fn := min(2, len(flights))
	for _, f := range flights[:fn] {
		flightSum += f.Price
	}
	var hotelSum float64
	hn := min(2, len(hotels))
	for _, h := range hotels[:hn] {
		hotelSum += h.PricePerNight
	}
	return &domain.BudgetEstimate{
		Tier:            tier,
		Multiplier:      mult,
		RoundTripFlight: flightSum / float64(fn) * 2,
		HotelPerNight:   hotelSum / float64(hn),
		FoodPerDay:      foodPerDayBase * mult,
		TransportPerDay: transportPerDay * mult,
	}
}

// AsTool exposes the aggregator as the agent's single callable. Invoke never
// raises: every failure mode becomes observation text for the model.
func (a *Aggregator) AsTool() Tool {
	return Tool{
		Name: "search_all_travel_data",
		Description: "Get ALL travel data: flights, hotels, and places in ONE call. " +
			"Input format: \"from_city|to_city|budget_level|interests\". " +
			"Example: \"Mumbai|Goa|moderate|beaches,food\". " +
			"Returns available flights with prices and times, hotels with ratings and amenities, " +
			"tourist attractions by category, and budget estimates. " +
			"USE THIS TOOL ONLY ONCE, then create your complete plan.",
		Invoke: func(ctx context.Context, input string) string {
			rep, err := a.Aggregate(ctx, input)
			switch {
			case err == nil:
				return rep.Format()
			case errors.Is(err, domain.ErrBadDescriptor):
				return domain.BadDescriptorHint
			case errors.Is(err, domain.ErrConnection):
				a.log.Error().Err(err).Msg("aggregation failed, store unavailable")
				return "Travel data is temporarily unavailable. Please answer with general advice and suggest the user retries shortly."
			default:
				a.log.Error().Err(err).Msg("aggregation failed")
				return fmt.Sprintf("Error searching travel data: %v. Please try again or contact support.", err)
			}
		},
	}
}
