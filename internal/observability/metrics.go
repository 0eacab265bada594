package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes the Provider's registry on its own listener so
// scraping never competes with relay traffic.
type MetricsServer struct {
	server *http.Server
	path   string
}

// NewMetricsServer serves provider's registry at path. Without a registry
// every request is answered with 404.
func NewMetricsServer(port int, path string, provider *Provider) *MetricsServer {
	mux := http.NewServeMux()
	if provider != nil && provider.registry != nil {
		mux.Handle(path, promhttp.HandlerFor(provider.registry, promhttp.HandlerOpts{
			ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
			EnableOpenMetrics: true,
		}))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &MetricsServer{server: server, path: path}
}

// Start blocks serving metrics until Shutdown, then returns http.ErrServerClosed.
func (ms *MetricsServer) Start() error {
	slog.Info("Starting metrics server", "addr", ms.server.Addr, "path", ms.path)
	return ms.server.ListenAndServe()
}

func (ms *MetricsServer) Shutdown(ctx context.Context) error {
	return ms.server.Shutdown(ctx)
}
