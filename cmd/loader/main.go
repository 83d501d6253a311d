package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
	"travel_planner/internal/shared"
	mysqlstore "travel_planner/internal/storage/mysql"
)

// inventory is the loader's input file shape: plain arrays of offers, as
// produced by whatever system exports the travel inventory.
type inventory struct {
	Flights []flightRow `json:"flights"`
	Hotels  []hotelRow  `json:"hotels"`
	Places  []placeRow  `json:"places"`
}

type flightRow struct {
	ID        string    `json:"flight_id"`
	Airline   string    `json:"airline"`
	FromCity  string    `json:"from_city"`
	ToCity    string    `json:"to_city"`
	Departure time.Time `json:"departure_time"`
	Arrival   time.Time `json:"arrival_time"`
	Price     float64   `json:"price"`
}

type hotelRow struct {
	ID            string   `json:"hotel_id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Stars         int      `json:"stars"`
	PricePerNight float64  `json:"price_per_night"`
	Amenities     []string `json:"amenities"`
}

type placeRow struct {
	ID     string  `json:"place_id"`
	Name   string  `json:"name"`
	City   string  `json:"city"`
	Type   string  `json:"type"`
	Rating float64 `json:"rating"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	file := flag.String("file", "inventory.json", "path to the inventory JSON file")
	flag.Parse()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Str("file", *file).Int("workers", cfg.LoaderWorkers).Msg("loader starting")

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("read inventory file failed")
	}
	var inv inventory
	if err := json.Unmarshal(raw, &inv); err != nil {
		log.Fatal().Err(err).Msg("parse inventory file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlstore.New(mysqlstore.NewConn(db, log.Logger), log.Logger)

	sem := semaphore.NewWeighted(int64(cfg.LoaderWorkers))
	var wg sync.WaitGroup
	run := func(kind, id string, fn func(context.Context) error) {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			if err := fn(ctx); err != nil {
				log.Warn().Str("kind", kind).Str("id", id).Err(err).Msg("upsert failed")
				return
			}
			log.Info().Str("kind", kind).Str("id", id).Msg("upsert ok")
		}()
	}

	for _, f := range inv.Flights {
		offer := domain.FlightOffer{
			ID: f.ID, Airline: f.Airline, FromCity: f.FromCity, ToCity: f.ToCity,
			Departure: f.Departure, Arrival: f.Arrival, Price: f.Price,
		}
		run("flight", offer.ID, func(ctx context.Context) error { return repo.UpsertFlight(ctx, offer) })
	}
	for _, h := range inv.Hotels {
		offer := domain.HotelOffer{
			ID: h.ID, Name: h.Name, City: h.City, Stars: h.Stars,
			PricePerNight: h.PricePerNight, Amenities: h.Amenities,
		}
		run("hotel", offer.ID, func(ctx context.Context) error { return repo.UpsertHotel(ctx, offer) })
	}
	for _, p := range inv.Places {
		place := domain.PlaceOfInterest{
			ID: p.ID, Name: p.Name, City: p.City, Type: p.Type, Rating: p.Rating,
		}
		run("place", place.ID, func(ctx context.Context) error { return repo.UpsertPlace(ctx, place) })
	}

	wg.Wait()
	log.Info().
		Int("flights", len(inv.Flights)).
		Int("hotels", len(inv.Hotels)).
		Int("places", len(inv.Places)).
		Msg("load completed")
}
