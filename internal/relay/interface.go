package relay

import (
	"context"

	"translator/internal/models"
)

// ServiceInterface defines the interface for relay service operations
type ServiceInterface interface {
	// Translate forwards a translation through the admission gate
	Translate(ctx context.Context, req *models.TranslateRequest) (*models.TranslateResponse, error)

	// TestConnection probes the provider without consulting the admission gate
	TestConnection(ctx context.Context, req *models.TestConnectionRequest) *models.TestConnectionResponse

	// Status reports the current admission capacity
	Status(ctx context.Context) *models.StatusResponse

	// GetSettings returns the stored settings with the API key masked
	GetSettings(ctx context.Context) (*models.Settings, error)

	// SaveSettings validates and stores settings
	SaveSettings(ctx context.Context, settings *models.Settings) (*models.Settings, error)

	// SetPluginStatus sets or toggles the plugin state and notifies observers
	SetPluginStatus(ctx context.Context, req *models.PluginStatusRequest) (*models.PluginStatusResponse, error)
}

// SettingsStore is the subset of storage.Storage the service needs.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
