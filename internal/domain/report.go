package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AttractionGroup is one category of places in a report, at most 3 items.
type AttractionGroup struct {
	Type   string
	Places []PlaceOfInterest
}

// BudgetEstimate is derived per aggregation call and never persisted on its
// own. Flight cost is round trip; hotel, food and transport are per night/day.
type BudgetEstimate struct {
	Tier            string
	Multiplier      float64
	RoundTripFlight float64
	HotelPerNight   float64
	FoodPerDay      float64
	TransportPerDay float64
}

// AggregationReport is the merged travel-data payload for one planning
// request: up to 3 flights, up to 3 hotels (amenities truncated to 5),
// attractions grouped by category (5 groups of 3), and an optional budget
// estimate. Built fresh per request, never cached.
type AggregationReport struct {
	Query       TripQueryDescriptor
	Flights     []FlightOffer
	Hotels      []HotelOffer
	Attractions []AttractionGroup
	Estimate    *BudgetEstimate
}

// inr applies western digit grouping (₹4,500), not the Indian lakh style.
var inr = message.NewPrinter(language.English)

// Format renders the report in the fixed section order FLIGHTS, HOTELS,
// TOP ATTRACTIONS, BUDGET ESTIMATE, Interests. Absent inventory is stated
// explicitly instead of skipping the section.
func (r *AggregationReport) Format() string {
	var b []string
	from, to := r.Query.Origin, r.Query.Destination

	if len(r.Flights) > 0 {
		b = append(b, fmt.Sprintf("FLIGHTS (%s → %s):", from, to))
		for i, f := range r.Flights {
			b = append(b, inr.Sprintf("%d. %s - ₹%.0f", i+1, f.Airline, f.Price))
			b = append(b, fmt.Sprintf("   Departure: %s | Arrival: %s",
				f.Departure.Format("2006-01-02 15:04:05"),
				f.Arrival.Format("2006-01-02 15:04:05")))
		}
		b = append(b, "")
	} else {
		b = append(b, fmt.Sprintf("No direct flights found for %s → %s\n", from, to))
	}

	if len(r.Hotels) > 0 {
		b = append(b, fmt.Sprintf("HOTELS in %s:", to))
		for i, h := range r.Hotels {
			b = append(b, inr.Sprintf("%d. %s - ₹%.2f/night | ⭐%d", i+1, h.Name, h.PricePerNight, h.Stars))
			amen, _ := json.Marshal(h.Amenities)
			b = append(b, "   Amenities: "+string(amen))
		}
		b = append(b, "")
	} else {
		b = append(b, fmt.Sprintf("No hotels found in %s\n", to))
	}

	if len(r.Attractions) > 0 {
		b = append(b, fmt.Sprintf("TOP ATTRACTIONS in %s:\n", to))
		for _, g := range r.Attractions {
			b = append(b, g.Type+":")
			for _, p := range g.Places {
				b = append(b, fmt.Sprintf("  • %s - ⭐%.2f/5", p.Name, p.Rating))
			}
			b = append(b, "")
		}
	} else {
		b = append(b, fmt.Sprintf("No attractions found in %s\n", to))
	}

	if e := r.Estimate; e != nil {
		b = append(b, fmt.Sprintf("BUDGET ESTIMATE (%s):", titleTier(e.Tier)))
		b = append(b, inr.Sprintf("Round-trip Flights: ₹%.0f", e.RoundTripFlight))
		b = append(b, inr.Sprintf("Hotel per night: ₹%.0f", e.HotelPerNight))
		b = append(b, inr.Sprintf("Food per day: ₹%.0f", e.FoodPerDay))
		b = append(b, inr.Sprintf("Transport per day: ₹%.0f", e.TransportPerDay))
	}

	b = append(b, "\nInterests: "+r.Query.Interests)
	return strings.Join(b, "\n")
}

func titleTier(t string) string {
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}
