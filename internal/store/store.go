// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/nkurella/honeyguard/internal/domain"
)

// Setting keys persisted in the settings table.
const (
	SettingAutoEngage  = "auto_engage_enabled"
	SettingAPIEndpoint = "classifier_endpoint"
	SettingAPIKey      = "classifier_api_key"
)

// Repository defines the durable key-value persistence the engine needs:
// read initial state at startup, write current state after mutations, and
// hold runtime settings across restarts.
type Repository interface {
	// LoadSettings retrieves all persisted settings.
	LoadSettings(ctx context.Context) (map[string]string, error)

	// SaveSetting creates or updates a single setting.
	SaveSetting(ctx context.Context, key, value string) error

	// LoadState retrieves the persisted engine snapshot, or nil if none
	// has been written yet.
	LoadState(ctx context.Context) (*domain.Snapshot, error)

	// SaveState replaces the persisted engine snapshot.
	SaveState(ctx context.Context, snap *domain.Snapshot) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
