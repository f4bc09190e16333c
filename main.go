package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unburyme/config"
	httpLayer "unburyme/http"
	"unburyme/logger"
	"unburyme/repository"
	"unburyme/service"
)

const cacheSweepInterval = 5 * time.Minute

func main() {
	configFile := flag.String("config", os.Getenv("UNBURYME_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(logger.Config{Level: cfg.Server.LogLevel, Format: cfg.Server.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", logger.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loanRepo, closeRepo, err := openRepository(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	cache, closeCache, err := openCache(ctx, cfg.Cache, log)
	if err != nil {
		return err
	}
	defer closeCache()

	limits := service.Limits{
		MaxPrincipal:      cfg.Limits.MaxPrincipal,
		MaxInterestRate:   cfg.Limits.MaxInterestRate,
		MaxTermYears:      cfg.Limits.MaxTermYears,
		MaxLoansPerTotal:  cfg.Limits.MaxLoansPerTotal,
		MaxTermRangeYears: cfg.Limits.MaxTermRangeYears,
	}
	loanService := service.NewLoanService(loanRepo, cache, limits, log)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Services{
		Loans:     loanService,
		Portfolio: service.NewPortfolioService(loanService, log),
		Terms:     service.NewTermRecommendationService(loanService, log),
	}, httpLayer.RouterConfig{
		AppName:   cfg.App.Name,
		Version:   cfg.App.Version,
		Limiter:   rateLimiter,
		BatchCost: cfg.RateLimit.BatchCost,
		Logger:    log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening",
			"addr", server.Addr,
			"app", cfg.App.Name,
			"version", cfg.App.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	log.Info("server exited")
	return nil
}

func openRepository(cfg config.StorageConfig, log *slog.Logger) (repository.LoanRepository, func(), error) {
	if cfg.Backend != "sqlite" {
		return repository.NewLoanRepositoryMemory(), func() {}, nil
	}

	repo, err := repository.NewLoanRepositorySQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open calculation history: %w", err)
	}
	log.Info("calculation history stored in sqlite",
		logger.FieldComponent, logger.ComponentStorage,
		"path", cfg.SQLitePath)
	return repo, closeLogged(repo, "sqlite", log), nil
}

// openCache returns the configured result cache. The memory cache is swept
// of expired entries until ctx is done.
func openCache(ctx context.Context, cfg config.CacheConfig, log *slog.Logger) (repository.CacheRepository, func(), error) {
	log = log.With(logger.FieldComponent, logger.ComponentCache)

	switch cfg.Backend {
	case "redis":
		cache := repository.NewRedisCache(cfg.RedisAddr, cfg.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := cache.Ping(pingCtx); err != nil {
			cache.Close()
			return nil, nil, err
		}
		log.Info("result cache using redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		return cache, closeLogged(cache, "redis", log), nil

	case "memory":
		cache := repository.NewMemoryCache(cfg.Size, cfg.TTL)
		go func() {
			ticker := time.NewTicker(cacheSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if n := cache.CleanExpired(); n > 0 {
						log.Debug("expired cache entries removed", "count", n)
					}
				case <-ctx.Done():
					return
				}
			}
		}()
		log.Info("result cache in memory", "size", cfg.Size, "ttl", cfg.TTL)
		return cache, func() {}, nil

	default:
		log.Info("result cache disabled")
		return repository.NoopCache{}, func() {}, nil
	}
}

func closeLogged(c io.Closer, name string, log *slog.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn("failed to close "+name, logger.FieldError, err)
		}
	}
}
