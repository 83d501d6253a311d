package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"travel_planner/internal/domain"
)

// Repo is the query layer over the session connection. Read operations never
// surface row-level failures: a broken query is logged and collapses to an
// empty result set, which callers treat as "no inventory". Only a dead
// connection (domain.ErrConnection) propagates.
type Repo struct {
	conn *Conn
	log  zerolog.Logger
}

func New(conn *Conn, log zerolog.Logger) *Repo { return &Repo{conn: conn, log: log} }

func (r *Repo) FindFlights(ctx context.Context, origin, destination string, limit int) ([]domain.FlightOffer, error) {
	var out []domain.FlightOffer
	err := r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, findFlightsSQL, origin, destination, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var f domain.FlightOffer
			if err := rows.Scan(&f.ID, &f.Airline, &f.FromCity, &f.ToCity, &f.Departure, &f.Arrival, &f.Price); err != nil {
				return err
			}
			out = append(out, f)
		}
		return rows.Err()
	})
	return out, r.degrade(err, "find_flights")
}

func (r *Repo) FindHotels(ctx context.Context, city string, minStars int, maxPrice float64, limit int) ([]domain.HotelOffer, error) {
	q := findHotelsSQL
	args := []any{city, minStars}
	if maxPrice > 0 {
		q += "\n  AND price_per_night <= ?"
		args = append(args, maxPrice)
	}
	q += findHotelsOrderSQL
	args = append(args, limit)

	var out []domain.HotelOffer
	err := r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var h domain.HotelOffer
			var amenities sql.NullString
			if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Stars, &h.PricePerNight, &amenities); err != nil {
				return err
			}
			h.Amenities = parseAmenities(amenities.String)
			out = append(out, h)
		}
		return rows.Err()
	})
	return out, r.degrade(err, "find_hotels")
}

func (r *Repo) FindPlaces(ctx context.Context, city string, minRating float64, limit int) ([]domain.PlaceOfInterest, error) {
	var out []domain.PlaceOfInterest
	err := r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, findPlacesSQL, city, minRating, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p domain.PlaceOfInterest
			var ptype sql.NullString
			if err := rows.Scan(&p.ID, &p.Name, &p.City, &ptype, &p.Rating); err != nil {
				return err
			}
			p.Type = ptype.String
			if p.Type == "" {
				p.Type = "general"
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	return out, r.degrade(err, "find_places")
}

func (r *Repo) RouteCounts(ctx context.Context) ([]domain.RouteCount, error) {
	var out []domain.RouteCount
	err := r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, routeCountsSQL)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rc domain.RouteCount
			if err := rows.Scan(&rc.From, &rc.To, &rc.Count); err != nil {
				return err
			}
			out = append(out, rc)
		}
		return rows.Err()
	})
	return out, r.degrade(err, "route_counts")
}

// degrade implements the query-error policy: connection failures pass
// through, anything else is logged and swallowed so the caller sees an
// empty, valid result set.
func (r *Repo) degrade(err error, op string) error {
	if err == nil || errors.Is(err, domain.ErrConnection) {
		return err
	}
	r.log.Warn().Err(err).Str("op", op).Msg("query failed, returning empty result")
	return nil
}

// parseAmenities normalizes both stored amenity forms to []string: a JSON
// array (canonical) or a legacy comma-delimited string.
func parseAmenities(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out
		}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ---- write paths (loader and trip persistence) ----

func (r *Repo) UpsertFlight(ctx context.Context, f domain.FlightOffer) error {
	return r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, upsertFlightSQL,
			f.ID, f.Airline, f.FromCity, f.ToCity, f.Departure, f.Arrival, f.Price)
		return err
	})
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.HotelOffer) error {
	amen, _ := json.Marshal(h.Amenities)
	return r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, upsertHotelSQL,
			h.ID, h.Name, h.City, h.Stars, h.PricePerNight, string(amen))
		return err
	})
}

func (r *Repo) UpsertPlace(ctx context.Context, p domain.PlaceOfInterest) error {
	return r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, upsertPlaceSQL,
			p.ID, p.Name, p.City, p.Type, p.Rating)
		return err
	})
}

func (r *Repo) SaveTrip(ctx context.Context, t domain.TripRecord) error {
	var budget any
	if t.TotalBudget != nil {
		budget = *t.TotalBudget
	}
	return r.conn.Acquire(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertTripSQL,
			t.UserID, t.SourceCity, t.DestinationCity,
			t.StartDate, t.EndDate, t.DurationDays,
			budget, string(t.ItineraryJSON), t.AgentResponse)
		return err
	})
}
