package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/kundali"
	"github.com/soulsync/soulsync/internal/infra/astrology"
	"github.com/soulsync/soulsync/internal/infra/astrorepo"
	"github.com/soulsync/soulsync/internal/infra/chartstore"
	"github.com/soulsync/soulsync/internal/infra/config"
	"github.com/soulsync/soulsync/internal/infra/horoscope/astrotalk"
	"github.com/soulsync/soulsync/internal/infra/horoscopestore"
	"github.com/soulsync/soulsync/internal/infra/llm"
	"github.com/soulsync/soulsync/internal/infra/places/astrochat"
)

func provideHoroscopeConfig(cfg *config.Config) horoscope.Config {
	return horoscope.Config{CacheTTL: cfg.Horoscope.CacheTTL}
}

func provideKundaliConfig(cfg *config.Config) kundali.Config {
	return kundali.Config{
		FetchTimeout:     cfg.Astrology.FetchTimeout,
		InterpretTimeout: cfg.LLM.Timeout,
		DefaultTimezone:  cfg.Astrology.DefaultTimezone,
	}
}

func provideAstrologyClient(cfg *config.Config, logger *slog.Logger) *astrology.Client {
	if strings.TrimSpace(cfg.Astrology.APIKey) == "" {
		logger.Warn("astrology api key not set, upstream calls will be rejected")
	}
	return astrology.NewClient(cfg.Astrology.BaseURL, cfg.Astrology.APIKey, cfg.Astrology.RequestTimeout)
}

func provideHoroscopeFetcher(cfg *config.Config) *astrotalk.Client {
	return astrotalk.NewClient(cfg.Horoscope.BaseURL, cfg.Horoscope.RequestTimeout)
}

func provideHoroscopeStore(cfg *config.Config, logger *slog.Logger) horoscope.Store {
	if cfg.Horoscope.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Horoscope.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return horoscopestore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return horoscopestore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("horoscope valkey cache enabled", "addr", cfg.Horoscope.Valkey.Addr)
			return horoscopestore.NewValkeyStore(client, "horoscope")
		}
	}
	return horoscopestore.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func providePlacesClient(cfg *config.Config) *astrochat.Client {
	return astrochat.NewClient(cfg.Places.BaseURL, cfg.Places.Limit, cfg.Places.RequestTimeout)
}

func provideRepository(cfg *config.Config, logger *slog.Logger) kundali.Repository {
	fallback := astrorepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Database.DSN)
	if dsn == "" {
		logger.Info("database dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid database dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Database.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Database.MaxConns
	}
	if cfg.Database.MinConns > 0 {
		poolConfig.MinConns = cfg.Database.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize database pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := astrorepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure astrodata schema, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("astrodata postgres repository enabled")
	return repo
}

func provideInterpreter(cfg *config.Config, logger *slog.Logger) (*llm.Generator, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("llm api key not set, interpretation calls will be rejected")
	}
	return llm.NewGenerator(llm.Config{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Models:          cfg.LLM.Models,
		Temperature:     cfg.LLM.Temperature,
		MaxPromptTokens: cfg.LLM.MaxPromptTokens,
	}, logger)
}

func provideChartArchive(cfg *config.Config, logger *slog.Logger) kundali.ChartArchive {
	if !cfg.ChartArchive.Enabled {
		return nil
	}
	store, err := chartstore.NewS3Store(
		cfg.ChartArchive.Endpoint,
		cfg.ChartArchive.AccessKey,
		cfg.ChartArchive.SecretKey,
		cfg.ChartArchive.Bucket,
		cfg.ChartArchive.Region,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize chart archive, archival disabled", "error", err)
		return nil
	}
	logger.Info("chart archive enabled", "bucket", cfg.ChartArchive.Bucket)
	return store
}
