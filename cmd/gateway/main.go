package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/finkit/pkg/breaker"
	"github.com/dmitrymomot/finkit/pkg/config"
	"github.com/dmitrymomot/finkit/pkg/httpserver"
	"github.com/dmitrymomot/finkit/pkg/logger"
	"github.com/dmitrymomot/finkit/pkg/pg"
	"github.com/dmitrymomot/finkit/pkg/provider"
	"github.com/dmitrymomot/finkit/pkg/redis"
	"github.com/dmitrymomot/finkit/pkg/webhook"
)

type appConfig struct {
	Logger  logger.Config
	HTTP    httpserver.Config
	PG      pg.Config
	Redis   redis.Config
	Breaker breaker.Config

	PlaidWebhookSecret     string `env:"PLAID_WEBHOOK_SECRET,required"`
	KrakenWebhookSecret    string `env:"KRAKEN_WEBHOOK_SECRET,required"`
	EtherscanWebhookSecret string `env:"ETHERSCAN_WEBHOOK_SECRET,required"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("gateway exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewFromConfig(cfg.Logger, slog.String("service", "gateway"))
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	metrics := provider.NewMetrics(prometheus.DefaultRegisterer)
	cb := breaker.New(breaker.NewPGStore(pool), cfg.Breaker,
		breaker.WithLogger(log),
		breaker.WithStateChangeHook(metrics.StateChangeHook()),
	)
	seen := webhook.NewRedisIdempotencyStore(redisClient)
	endpoints := map[string]webhook.Endpoint{
		provider.Plaid: {
			Processor: webhook.NewProcessor(provider.Plaid, cfg.PlaidWebhookSecret,
				webhook.WithIdempotencyStore(seen),
				webhook.WithProcessorLogger(log),
			),
			Handle: logDelivery(log, provider.Plaid),
		},
		provider.Kraken: {
			Processor: webhook.NewProcessor(provider.Kraken, cfg.KrakenWebhookSecret,
				webhook.WithIdempotencyStore(seen),
				webhook.WithProcessorLogger(log),
			),
			Handle: logDelivery(log, provider.Kraken),
		},
		provider.Etherscan: {
			Processor: webhook.NewProcessor(provider.Etherscan, cfg.EtherscanWebhookSecret,
				webhook.WithIdempotencyStore(seen),
				webhook.WithProcessorLogger(log),
			),
			Handle: logDelivery(log, provider.Etherscan),
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/webhooks", webhook.Router(endpoints))
	r.Get("/providers/{provider}/health", providerHealth(cb))
	r.Post("/providers/{provider}/reset", providerReset(cb, log))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// providerHealth reports the effective circuit state for a partition, e.g.
// GET /providers/plaid/health?region=EU.
func providerHealth(cb *breaker.CircuitBreaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "provider")
		region := r.URL.Query().Get("region")

		snap, err := cb.State(r.Context(), name, region)
		if err != nil {
			http.Error(w, "health store unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// providerReset closes the circuit and zeroes the health counters for a
// partition. Operator action for confirmed provider recoveries.
func providerReset(cb *breaker.CircuitBreaker, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "provider")
		region := r.URL.Query().Get("region")

		if err := cb.Reset(r.Context(), name, region); err != nil {
			log.ErrorContext(r.Context(), "provider reset failed",
				"provider", name, "region", region, logger.Error(err))
			http.Error(w, "health store unavailable", http.StatusServiceUnavailable)
			return
		}

		log.InfoContext(r.Context(), "provider circuit reset", "provider", name, "region", region)
		w.WriteHeader(http.StatusNoContent)
	}
}

// logDelivery acknowledges verified deliveries and leaves ingestion to the
// downstream sync pipeline.
func logDelivery(log *slog.Logger, name string) webhook.HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		log.InfoContext(ctx, "webhook delivery accepted",
			"provider", name,
			"bytes", len(payload),
		)
		return nil
	}
}
