package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"translator/internal/api"
	"translator/internal/broadcast"
	"translator/internal/config"
	"translator/internal/logger"
	"translator/internal/notify"
	"translator/internal/observability"
	"translator/internal/ratelimit"
	"translator/internal/relay"
	"translator/internal/storage"
	"translator/internal/translation"
	"translator/internal/version"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	ver := version.GetInfo()
	if *showVersion {
		fmt.Println(ver.String())
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logging
	log, closer, err := logger.Setup(cfg.Logging, ver)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(log)

	// Initialize observability (OpenTelemetry)
	otelProvider, err := observability.Setup(cfg.Metrics, cfg.Observability, ver)
	if err != nil {
		slog.Error("Failed to initialize observability", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown observability", "error", err)
		}
	}()

	// Initialize storage
	storageInstance, err := storage.NewFactory().Create(cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer storageInstance.Close()

	// Wrap storage with instrumentation if metrics are enabled
	var activeStorage storage.Storage = storageInstance
	if cfg.Metrics.Enabled {
		instrumented, err := observability.NewInstrumentedStorage(storageInstance)
		if err != nil {
			slog.Error("Failed to create instrumented storage", "error", err)
			os.Exit(1)
		}
		activeStorage = instrumented
	}

	// Admission gate shared by the dispatcher, the broadcaster and the headers
	var limiter ratelimit.Limiter = ratelimit.NewGate(cfg.Gate.Quota, cfg.Gate.Window)
	if cfg.Metrics.Enabled {
		instrumented, err := observability.NewInstrumentedLimiter(limiter, time.Now)
		if err != nil {
			slog.Error("Failed to create instrumented limiter", "error", err)
			os.Exit(1)
		}
		defer instrumented.Close()
		limiter = instrumented
	}

	// Translation provider client
	var translator translation.Translator = translation.NewClient(
		cfg.Translation.RequestTimeout,
		translation.WithUserAgent(ver.UserAgent()),
	)
	if cfg.Metrics.Enabled {
		instrumented, err := observability.NewInstrumentedTranslator(translator)
		if err != nil {
			slog.Error("Failed to create instrumented translator", "error", err)
			os.Exit(1)
		}
		translator = instrumented
	}

	// Observer registry
	hub := notify.NewHub()

	if cfg.Notify.Redis.Enabled {
		redisClient := notify.NewRedisClient(cfg.Notify.Redis)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			slog.Warn("Redis is not reachable, events will be dropped until it is", "addr", cfg.Notify.Redis.Addr, "error", err)
		}
		cancel()

		id := hub.Subscribe(notify.NewRedisObserver(redisClient, cfg.Notify.Redis.Channel, 0))
		slog.Info("Publishing events to Redis", "channel", cfg.Notify.Redis.Channel, "subscription_id", id)
	}

	relayService := relay.NewService(limiter, translator, activeStorage, hub,
		relay.WithProbe(relay.Probe{Text: cfg.Translation.ProbeText, Language: cfg.Translation.ProbeLanguage}),
		relay.WithDefaultAPIURL(cfg.Translation.DefaultAPIURL),
	)

	broadcaster := broadcast.New(limiter, hub, cfg.Gate.BroadcastPeriod)
	broadcaster.Start()

	// Initialize HTTP handlers with storage for health checks
	handlers := api.NewHandlers(relayService,
		api.WithStorage(activeStorage),
		api.WithHub(hub),
		api.WithLimiter(limiter, time.Now),
		api.WithVersion(ver),
	)

	// Setup routes with middleware
	routeOpts := []api.RouteOption{}
	if cfg.Observability.Tracing.Enabled {
		routeOpts = append(routeOpts, api.WithOTelMiddleware(cfg.Observability.ServiceName))
	}

	router := api.SetupRoutes(handlers, cfg, routeOpts...)

	// Start metrics server if enabled
	var metricsServer *observability.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = observability.NewMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path, otelProvider)
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting server",
			"addr", server.Addr,
			"quota", cfg.Gate.Quota,
			"window", cfg.Gate.Window.String(),
			"storage", cfg.Storage.Type,
		)

		var err error
		if cfg.Server.TLSEnabled {
			slog.Info("Starting HTTPS server with TLS")
			err = server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			slog.Info("Starting HTTP server")
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	// Create a deadline to wait for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	broadcaster.Stop()

	// Shutdown metrics server
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server forced to shutdown", "error", err)
		}
	}

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if err := hub.Close(); err != nil {
		slog.Warn("Failed to close observers", "error", err)
	}

	slog.Info("Server shutdown complete")
}
