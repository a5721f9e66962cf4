// Package grpc serves gRPC health and reflection for the show catalog.
package grpc

import (
	"sync"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Belphemur/ShowCatalog/internal/config"
)

// CatalogService is the health service name reported for the show catalog.
const CatalogService = "showcatalog.Catalog"

var (
	grpcServerMetrics         *grpcprom.ServerMetrics
	registerServerMetricsOnce sync.Once
)

// CatalogHealth publishes catalog readiness through the gRPC health service.
type CatalogHealth struct {
	server *health.Server
}

// OnCatalogLoaded flips the catalog to SERVING. Its signature matches
// store.LoadedHook.
func (h *CatalogHealth) OnCatalogLoaded(shows, genres int) {
	logger := config.GetLogger()
	logger.Info().Int("shows", shows).Int("genres", genres).Msg("Catalog ready, gRPC health set to SERVING")

	h.server.SetServingStatus(CatalogService, grpc_health_v1.HealthCheckResponse_SERVING)
	h.server.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
}

// Shutdown sets every service to NOT_SERVING ahead of a graceful stop.
func (h *CatalogHealth) Shutdown() {
	h.server.Shutdown()
}

// NewGRPCServer creates a gRPC server with Prometheus metrics, health
// checking and reflection. Health reports NOT_SERVING until the catalog
// is loaded.
func NewGRPCServer() (*grpc.Server, *CatalogHealth) {
	// Set up Prometheus gRPC server metrics once per process
	registerServerMetricsOnce.Do(func() {
		grpcServerMetrics = grpcprom.NewServerMetrics(
			grpcprom.WithServerHandlingTimeHistogram(),
		)
		prometheus.MustRegister(grpcServerMetrics)
	})

	srvMetrics := grpcServerMetrics

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(srvMetrics.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(srvMetrics.StreamServerInterceptor()),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(CatalogService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	// Register reflection service for tools like grpcurl
	reflection.Register(grpcServer)

	// Initialize gRPC metrics with all registered service methods
	srvMetrics.InitializeMetrics(grpcServer)

	return grpcServer, &CatalogHealth{server: healthServer}
}
