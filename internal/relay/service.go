package relay

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"translator/internal/models"
	"translator/internal/notify"
	"translator/internal/ratelimit"
	"translator/internal/translation"
)

// Probe is the fixed request a connection test sends.
type Probe struct {
	Text     string
	Language string
}

// DefaultProbe matches the extension's connection test.
var DefaultProbe = Probe{Text: "Hello, world!", Language: "ES"}

const connectionSuccessMessage = "DeepL API connection successful"

// Service dispatches inbound messages. Translations pass through the
// admission gate; connection tests do not. A translate call that reaches the
// gate ends in exactly one outcome: a translation, or an error that is also
// broadcast to observers as a showMessage event. Malformed requests are only
// answered to the caller.
type Service struct {
	limiter    ratelimit.Limiter
	translator translation.Translator
	store      SettingsStore
	publisher  notify.Publisher
	clock      ratelimit.Clock
	probe      Probe
	defaultURL string

	// settingsMu serializes read-modify-write cycles on the stored settings.
	settingsMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for admission checks.
func WithClock(clock ratelimit.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithProbe overrides the connection test request.
func WithProbe(probe Probe) Option {
	return func(s *Service) {
		s.probe = probe
	}
}

// WithDefaultAPIURL sets the provider endpoint used when neither the request
// nor the stored settings name one.
func WithDefaultAPIURL(url string) Option {
	return func(s *Service) {
		s.defaultURL = url
	}
}

// NewService creates a relay service. The limiter must be the same instance
// the status broadcaster reads.
func NewService(limiter ratelimit.Limiter, translator translation.Translator, store SettingsStore, publisher notify.Publisher, opts ...Option) *Service {
	s := &Service{
		limiter:    limiter,
		translator: translator,
		store:      store,
		publisher:  publisher,
		clock:      time.Now,
		probe:      DefaultProbe,
		defaultURL: models.DefaultAPIURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate admits the request through the gate and forwards it to the
// provider. A rejected request never reaches the provider.
func (s *Service) Translate(ctx context.Context, req *models.TranslateRequest) (*models.TranslateResponse, error) {
	// Validate and normalize request
	if err := req.Validate(); err != nil {
		return nil, NewInvalidRequestError(err.Error(), err)
	}
	req.Normalize()
	req.ApplyDefaults(s.loadSettings(ctx))
	if req.APIURL == "" {
		req.APIURL = s.defaultURL
	}
	if err := req.Credentials(); err != nil {
		return nil, NewInvalidRequestError(err.Error(), err)
	}

	decision := s.limiter.Check(s.clock())
	if !decision.Allowed {
		slog.Warn("Translation rejected by admission gate", "wait_seconds", decision.WaitSeconds)
		return nil, s.fail(ctx, NewQuotaExceededError(decision.WaitSeconds))
	}

	text, err := s.translator.Translate(ctx, translation.Request{
		Text:           req.Text,
		TargetLanguage: req.TargetLanguage,
		APIURL:         req.APIURL,
		APIKey:         req.APIKey,
	})
	if err != nil {
		slog.Error("Translation failed", "error", err, "target_language", req.TargetLanguage)
		if errors.Is(err, translation.ErrMalformedResponse) {
			return nil, s.fail(ctx, NewMalformedResponseError(err))
		}
		return nil, s.fail(ctx, NewTransportError(err))
	}

	slog.Debug("Translation succeeded", "target_language", req.TargetLanguage, "chars", len(req.Text))
	return &models.TranslateResponse{TranslatedText: text}, nil
}

// TestConnection sends the probe request and reports the outcome. It does
// not consult or mutate the admission gate.
func (s *Service) TestConnection(ctx context.Context, req *models.TestConnectionRequest) *models.TestConnectionResponse {
	req.Normalize()
	req.ApplyDefaults(s.loadSettings(ctx))
	if req.APIURL == "" {
		req.APIURL = s.defaultURL
	}
	if req.APIKey == "" {
		return &models.TestConnectionResponse{Success: false, Message: "API key is not configured"}
	}

	_, err := s.translator.Translate(ctx, translation.Request{
		Text:           s.probe.Text,
		TargetLanguage: s.probe.Language,
		APIURL:         req.APIURL,
		APIKey:         req.APIKey,
	})
	if err != nil {
		slog.Warn("Connection test failed", "error", err)
		return &models.TestConnectionResponse{Success: false, Message: failureMessage(err)}
	}

	return &models.TestConnectionResponse{Success: true, Message: connectionSuccessMessage}
}

// Status reports remaining capacity. It prunes the log but never admits.
func (s *Service) Status(ctx context.Context) *models.StatusResponse {
	snap := s.limiter.Status(s.clock())
	return &models.StatusResponse{
		RemainingRequests: snap.RemainingRequests,
		WaitSeconds:       snap.WaitSeconds,
		Quota:             s.limiter.Quota(),
		WindowSeconds:     int(s.limiter.Window() / time.Second),
	}
}

// GetSettings returns the stored settings with the API key masked.
func (s *Service) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load settings", err)
	}
	return settings.Masked(), nil
}

// SaveSettings validates and stores settings. A masked API key echoed back
// by a client keeps the stored key. Observers learn about a change of the
// plugin state.
func (s *Service) SaveSettings(ctx context.Context, settings *models.Settings) (*models.Settings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load settings", err)
	}

	if settings.APIKey != "" && settings.APIKey == models.MaskSecret(current.APIKey) {
		settings.APIKey = current.APIKey
	}

	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, NewInternalError("failed to save settings", err)
	}
	slog.Info("Settings saved", "target_language", settings.TargetLanguage, "plugin_active", settings.IsPluginActive)

	if settings.IsPluginActive != current.IsPluginActive {
		notify.Send(ctx, s.publisher, models.NewPluginStatus(settings.IsPluginActive))
	}

	return settings.Masked(), nil
}

// SetPluginStatus sets the plugin state, or flips it when the request
// leaves IsActive unset, and notifies observers.
func (s *Service) SetPluginStatus(ctx context.Context, req *models.PluginStatusRequest) (*models.PluginStatusResponse, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load settings", err)
	}

	active := !settings.IsPluginActive
	if req != nil && req.IsActive != nil {
		active = *req.IsActive
	}
	settings.IsPluginActive = active

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return nil, NewInternalError("failed to save settings", err)
	}
	slog.Info("Plugin status changed", "active", active)

	notify.Send(ctx, s.publisher, models.NewPluginStatus(active))
	return &models.PluginStatusResponse{IsActive: active}, nil
}

// fail broadcasts the error message to observers and returns the error.
func (s *Service) fail(ctx context.Context, serr *ServiceError) error {
	notify.Send(ctx, s.publisher, models.NewErrorMessage(serr.Message))
	return serr
}

// loadSettings returns the stored settings, or nil when the store is
// unavailable so callers fall back to request fields alone.
func (s *Service) loadSettings(ctx context.Context) *models.Settings {
	if s.store == nil {
		return nil
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		slog.Warn("Failed to load settings", "error", err)
		return nil
	}
	return settings
}

func failureMessage(err error) string {
	if errors.Is(err, translation.ErrMalformedResponse) {
		return "No translation returned from API"
	}
	return strings.TrimSpace(err.Error())
}
