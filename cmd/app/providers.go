package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/rates"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/receipt"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/transit"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/config"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/llm/gemini"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/photostore"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/rates/exchangerate"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/tripstore"
)

func provideTransitConfig(cfg *config.Config) transit.Config {
	return transit.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		BaseDelay:   cfg.Transit.BaseDelay,
		StaggerStep: cfg.Transit.StaggerStep,
		QueueSize:   cfg.Transit.QueueSize,
	}
}

func provideReceiptConfig(cfg *config.Config) receipt.Config {
	return receipt.Config{
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		MaxImageBytes: cfg.Receipt.MaxImageBytes,
	}
}

func provideRatesConfig(cfg *config.Config) rates.Config {
	return rates.Config{DefaultRate: cfg.Rates.DefaultRate}
}

func provideRateClient(cfg *config.Config) rates.RateClient {
	return exchangerate.NewClient(cfg.Rates.APIBaseURL)
}

// provideRouteClient returns nil when no API key is configured; the
// scheduler then marks every pair errored until a key arrives.
func provideRouteClient(cfg *config.Config, logger *slog.Logger) transit.RouteClient {
	client := buildGeminiClient(cfg, logger)
	if client == nil {
		return nil
	}
	return client
}

func provideVisionClient(cfg *config.Config, logger *slog.Logger) receipt.VisionClient {
	client := buildGeminiClient(cfg, logger)
	if client == nil {
		return nil
	}
	return client
}

func buildGeminiClient(cfg *config.Config, logger *slog.Logger) *gemini.Client {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("gemini api key not set, transit and receipt features degraded")
		return nil
	}
	client, err := gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		return nil
	}
	return client
}

func provideTripStore(cfg *config.Config, logger *slog.Logger) trip.Store {
	fallback := tripstore.NewMemoryStore()
	switch cfg.Store.Backend {
	case "memory":
		logger.Info("trip memory store enabled")
		return fallback
	case "badger":
		store, err := tripstore.OpenBadgerStore(cfg.Store.Badger.Path)
		if err != nil {
			logger.Error("failed to open badger store, using memory store", "error", err, "path", cfg.Store.Badger.Path)
			return fallback
		}
		logger.Info("trip badger store enabled", "path", cfg.Store.Badger.Path)
		return store
	case "valkey":
		opt, err := buildValkeyOptions(cfg.Store.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, using memory store", "error", err)
			return fallback
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, using memory store", "error", err)
			return fallback
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, using memory store", "error", err)
			return fallback
		}
		logger.Info("trip valkey store enabled", "addr", cfg.Store.Valkey.Addr)
		return tripstore.NewValkeyStore(client)
	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(cfg.Store.Postgres.DSN)
		if err != nil {
			logger.Error("invalid postgres dsn, using memory store", "error", err)
			return fallback
		}
		if cfg.Store.Postgres.MaxConns > 0 {
			poolConfig.MaxConns = cfg.Store.Postgres.MaxConns
		}
		if cfg.Store.Postgres.MinConns > 0 {
			poolConfig.MinConns = cfg.Store.Postgres.MinConns
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			logger.Error("failed to initialize postgres pool, using memory store", "error", err)
			return fallback
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("postgres ping failed, using memory store", "error", err)
			pool.Close()
			return fallback
		}
		store, err := tripstore.NewPostgresStore(ctx, pool)
		if err != nil {
			logger.Error("failed to prepare postgres store, using memory store", "error", err)
			pool.Close()
			return fallback
		}
		logger.Info("trip postgres store enabled")
		return store
	}
	return fallback
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func providePhotoStorage(cfg *config.Config, logger *slog.Logger) trip.PhotoStorage {
	if !cfg.Photos.Enabled {
		logger.Info("photo storage disabled, using memory storage")
		return photostore.NewMemoryStorage()
	}
	storage, err := photostore.NewS3Storage(cfg.Photos.Endpoint, cfg.Photos.AccessKey, cfg.Photos.SecretKey, cfg.Photos.Bucket, cfg.Photos.Region, logger)
	if err != nil {
		logger.Error("failed to create s3 photo storage, using memory storage", "error", err)
		return photostore.NewMemoryStorage()
	}
	logger.Info("s3 photo storage enabled", "bucket", cfg.Photos.Bucket)
	return storage
}
