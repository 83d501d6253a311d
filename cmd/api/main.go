package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "travel_planner/internal/adapters/http_server"
	"travel_planner/internal/adapters/llm"
	"travel_planner/internal/adapters/observability"
	redisad "travel_planner/internal/adapters/redis"
	"travel_planner/internal/app"
	"travel_planner/internal/shared"
	mysqlstore "travel_planner/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	conn := mysqlstore.NewConn(db, log.Logger)
	repo := mysqlstore.New(conn, log.Logger)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	model, err := llm.NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.ModelRPS, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize model backend")
	}

	agg := app.NewAggregator(repo, log.Logger)
	advisor := app.NewRouteAdvisor(repo, cache, cfg.RouteCacheTTL, log.Logger)
	orch := app.NewOrchestrator(model, agg.AsTool(),
		app.RetryPolicy{
			MaxAttempts: cfg.RetryAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		},
		cfg.MaxIterations, cfg.TimeBudget, log.Logger)

	// http: request timeout must outlive the orchestrator's own budget
	srv := server.New(cfg.TimeBudget + cfg.TimeBudget/2)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Planner:  orch,
		Advisor:  advisor,
		Trips:    repo,
		Sessions: server.NewSessionRegistry(),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
