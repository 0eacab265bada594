package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"translator/internal/models"
	"translator/internal/notify"
	"translator/internal/ratelimit"
	"translator/internal/relay"
	"translator/internal/storage"
	"translator/internal/version"
)

// maxBodyBytes bounds inbound JSON bodies.
const maxBodyBytes = 1 << 20

// Handlers contains HTTP handlers for the relay API
type Handlers struct {
	relay   relay.ServiceInterface
	storage storage.Storage
	hub     *notify.Hub
	limiter ratelimit.Limiter
	clock   ratelimit.Clock
	version version.Info
}

// HandlerOption configures optional handler dependencies.
type HandlerOption func(*Handlers)

// WithStorage enables the storage component in health checks.
func WithStorage(store storage.Storage) HandlerOption {
	return func(h *Handlers) {
		h.storage = store
	}
}

// WithHub exposes the observer hub for the events endpoint and health checks.
func WithHub(hub *notify.Hub) HandlerOption {
	return func(h *Handlers) {
		h.hub = hub
	}
}

// WithLimiter stamps rate limit headers on translate responses.
func WithLimiter(limiter ratelimit.Limiter, clock ratelimit.Clock) HandlerOption {
	return func(h *Handlers) {
		h.limiter = limiter
		h.clock = clock
	}
}

// WithVersion sets the build information reported by health checks.
func WithVersion(ver version.Info) HandlerOption {
	return func(h *Handlers) {
		h.version = ver
	}
}

// NewHandlers creates a new handlers instance
func NewHandlers(service relay.ServiceInterface, opts ...HandlerOption) *Handlers {
	h := &Handlers{
		relay: service,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Translate handles translate messages
// POST /api/v1/translate
func (h *Handlers) Translate(w http.ResponseWriter, r *http.Request) {
	var req models.TranslateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	response, err := h.relay.Translate(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// TestConnection handles connection test messages. The outcome is carried
// in the body, so the status is always 200.
// POST /api/v1/test-connection
func (h *Handlers) TestConnection(w http.ResponseWriter, r *http.Request) {
	var req models.TestConnectionRequest
	if r.ContentLength != 0 && !h.decodeJSON(w, r, &req) {
		return
	}

	h.writeJSONResponse(w, http.StatusOK, h.relay.TestConnection(r.Context(), &req))
}

// Status reports the admission capacity
// GET /api/v1/status
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, h.relay.Status(r.Context()))
}

// GetSettings returns the stored settings with the API key masked
// GET /api/v1/settings
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.relay.GetSettings(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, settings)
}

// SaveSettings replaces the stored settings
// PUT /api/v1/settings
func (h *Handlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if !h.decodeJSON(w, r, &settings) {
		return
	}

	saved, err := h.relay.SaveSettings(r.Context(), &settings)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, saved)
}

// SetPluginStatus sets or toggles the plugin state
// PUT /api/v1/settings/plugin
func (h *Handlers) SetPluginStatus(w http.ResponseWriter, r *http.Request) {
	var req models.PluginStatusRequest
	if r.ContentLength != 0 && !h.decodeJSON(w, r, &req) {
		return
	}

	response, err := h.relay.SetPluginStatus(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// HealthCheck handles health check requests
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.NewHealthCheckResponse(models.StatusHealthy)
	response.Version = h.version.Version

	if h.storage != nil {
		if err := h.storage.Ping(r.Context()); err != nil {
			response.AddComponent("storage", models.StatusUnhealthy, err.Error())
		} else {
			response.AddComponent("storage", models.StatusHealthy, "Storage is operational")
		}
	}
	response.AddComponent("api", models.StatusHealthy, "API is operational")

	if h.hub != nil {
		response.AddMetric("observers", h.hub.Len())
	}
	if h.limiter != nil {
		response.AddMetric("remaining_requests", h.limiter.Status(h.clock()).RemainingRequests)
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Debug("Rejected request body", "path", r.URL.Path, "error", err)
		h.writeErrorResponse(w, http.StatusBadRequest, models.NewErrorResponse("Invalid JSON body", models.ErrorCodeBadRequest))
		return false
	}
	return true
}

// writeServiceError maps a relay error onto the HTTP response.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var serr *relay.ServiceError
	if !errors.As(err, &serr) {
		slog.Error("Unhandled service error", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.NewErrorResponse("Internal server error", models.ErrorCodeInternalError))
		return
	}

	resp := models.NewErrorResponse(serr.Message, serr.Code)
	if serr.Code == models.ErrorCodeQuotaExceeded {
		resp.WithWaitSeconds(serr.WaitSeconds)
		w.Header().Set("Retry-After", strconv.Itoa(serr.WaitSeconds))
	}
	h.writeErrorResponse(w, serr.StatusCode, resp)
}

// writeJSONResponse writes a JSON response
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing left to send
		slog.Error("Error encoding JSON response", "error", err)
	}
}

// writeErrorResponse writes an error response
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, statusCode int, errorResp *models.ErrorResponse) {
	h.writeJSONResponse(w, statusCode, errorResp)
}
