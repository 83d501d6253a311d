package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	GeminiKey   string
	GeminiModel string
	ModelRPS    int

	// Orchestrator bounds. Iteration/time budgets cap the think/act loop;
	// retry knobs govern rate-limit backoff around the model call.
	MaxIterations  int
	TimeBudget     time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	RouteCacheTTL time.Duration
	LoaderWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/travel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		GeminiKey:   env("GEMINI_API_KEY", ""),
		GeminiModel: env("GEMINI_MODEL", "gemini-flash-latest"),
		ModelRPS:    atoi("MODEL_RPS", 2),

		MaxIterations:  atoi("AGENT_MAX_ITERATIONS", 5),
		TimeBudget:     time.Duration(atoi("AGENT_TIME_BUDGET_SECONDS", 90)) * time.Second,
		RetryAttempts:  atoi("AGENT_RETRY_ATTEMPTS", 2),
		RetryBaseDelay: time.Duration(atoi("AGENT_RETRY_BASE_SECONDS", 30)) * time.Second,
		RetryMaxDelay:  time.Duration(atoi("AGENT_RETRY_MAX_SECONDS", 120)) * time.Second,

		RouteCacheTTL: time.Duration(atoi("ROUTE_CACHE_TTL_SECONDS", 900)) * time.Second,
		LoaderWorkers: atoi("LOADER_WORKERS", 8),
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
