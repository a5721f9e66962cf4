package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/Belphemur/ShowCatalog/internal/cache"
	"github.com/Belphemur/ShowCatalog/internal/client"
	"github.com/Belphemur/ShowCatalog/internal/config"
	grpcserver "github.com/Belphemur/ShowCatalog/internal/grpc"
	"github.com/Belphemur/ShowCatalog/internal/metrics"
	"github.com/Belphemur/ShowCatalog/internal/reporting"
	"github.com/Belphemur/ShowCatalog/internal/router"
	"github.com/Belphemur/ShowCatalog/internal/store"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

// cacheLogger forwards cache provider errors to zerolog.
type cacheLogger struct {
	logger zerolog.Logger
}

func (l cacheLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Str("component", "cache").Msg(msg)
}

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("version", version).
		Str("api_base_url", cfg.APIBaseURL).
		Str("cache_type", cfg.Cache.Type).
		Int("catalog_pages", cfg.Catalog.Pages).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	flush, err := reporting.Init(cfg, version)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialise Sentry, continuing without error reporting")
	}
	defer flush()

	responseCache, err := cache.New(cfg.Cache.Type, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           config.ParseDurationOr(cfg.Cache.TTL, time.Hour, "cache.ttl"),
		Logger:        cacheLogger{logger: logger},
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "upstream",
	})
	if err != nil {
		logger.Fatal().Err(err).Str("type", cfg.Cache.Type).Msg("Failed to create response cache")
	}

	showClient := client.NewClient(cfg, responseCache)
	defer func() {
		if err := showClient.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close show client")
		}
	}()

	var (
		grpcServer *grpc.Server
		health     *grpcserver.CatalogHealth
		opts       []store.Option
	)
	if cfg.GRPC.Enabled {
		grpcServer, health = grpcserver.NewGRPCServer()
		opts = append(opts, store.WithLoadedHook(health.OnCatalogLoaded))
	}

	controller := store.NewController(showClient, opts...)

	if cfg.Catalog.Preload {
		go controller.LoadShows(context.Background())
	}

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer shutdownHTTP(metricsServer, "metrics")
	}

	if grpcServer != nil {
		address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.GRPC.Port)
		listener, err := net.Listen("tcp", address)
		if err != nil {
			logger.Fatal().Err(err).Str("address", address).Msg("Failed to create gRPC listener")
		}
		go func() {
			logger.Info().Str("address", address).Msg("Starting gRPC server")
			if err := grpcServer.Serve(listener); err != nil {
				logger.Fatal().Err(err).Msg("Failed to serve gRPC")
			}
		}()
		defer func() {
			health.Shutdown()
			grpcServer.GracefulStop()
		}()
	}

	httpServer := router.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, router.New(controller, router.Options{
		Logger:      logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	}))

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		shutdownHTTP(httpServer, "catalog")
	}()

	logger.Info().Str("address", httpServer.Addr).Msg("Starting catalog HTTP server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to serve HTTP")
	}
	<-stopped

	logger.Info().Msg("Server stopped gracefully")
}

func shutdownHTTP(srv *http.Server, name string) {
	logger := config.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Str("server", name).Msg("Failed to shutdown server")
	}
}
