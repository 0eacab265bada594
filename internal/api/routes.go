package api

import (
	"encoding/json"
	"net/http"

	"translator/internal/models"
	"translator/internal/notify"
	"translator/internal/ratelimit"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// RouteOption configures optional route behavior.
type RouteOption func(*mux.Router)

// WithOTelMiddleware adds OpenTelemetry HTTP instrumentation middleware.
// The events stream is excluded because it is a long-lived upgraded connection.
func WithOTelMiddleware(serviceName string) RouteOption {
	return func(r *mux.Router) {
		r.Use(otelmux.Middleware(serviceName,
			otelmux.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/health" &&
					r.URL.Path != "/api/v1/health" &&
					r.URL.Path != "/metrics" &&
					r.URL.Path != "/api/v1/events"
			}),
		))
	}
}

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(handlers *Handlers, config *models.Config, opts ...RouteOption) *mux.Router {
	router := mux.NewRouter()

	for _, opt := range opts {
		opt(router)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	var translate http.Handler = http.HandlerFunc(handlers.Translate)
	if handlers.limiter != nil {
		translate = ratelimit.Headers(handlers.limiter, handlers.clock)(translate)
	}
	api.Handle("/translate", translate).Methods("POST")
	api.HandleFunc("/test-connection", handlers.TestConnection).Methods("POST")
	api.HandleFunc("/status", handlers.Status).Methods("GET")
	api.HandleFunc("/settings", handlers.GetSettings).Methods("GET")
	api.HandleFunc("/settings", handlers.SaveSettings).Methods("PUT")
	api.HandleFunc("/settings/plugin", handlers.SetPluginStatus).Methods("PUT")

	if config.Notify.WebSocket.Enabled && handlers.hub != nil {
		api.HandleFunc("/events", notify.NewWebSocketHandler(handlers.hub, config.Notify.WebSocket)).Methods("GET")
	}

	router.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	router.HandleFunc("/api/v1/health", handlers.HealthCheck).Methods("GET")

	api.PathPrefix("").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods("OPTIONS")

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)
	// Preflights are answered by corsMiddleware, so it goes after request IDs.
	if config.Server.CORS.Enabled {
		router.Use(corsMiddleware(config.Server.CORS))
	}
	router.Use(recoveryMiddleware)

	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	return router
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed", models.ErrorCodeInvalidRequest)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Resource not found", models.ErrorCodeNotFound)
}

// writeError is used outside Handlers, where no service error is available.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.NewErrorResponse(message, code))
}
