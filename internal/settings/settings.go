// Package settings holds user-controlled runtime configuration: the
// auto-engage switch and the remote classifier credential. Values are backed
// by the durable store and change without a restart; interested components
// either subscribe or read the current value per use.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/nkurella/honeyguard/internal/store"
)

// Settings is the runtime-updatable configuration surface.
type Settings struct {
	AutoEngage  bool   `json:"autoEngage"`
	APIEndpoint string `json:"apiEndpoint"`
	APIKey      string `json:"apiKey"`
}

// Listener is notified after settings change.
type Listener func(Settings)

// Manager caches the current settings, persists updates, and notifies
// subscribers of changes.
type Manager struct {
	mu        sync.RWMutex
	current   Settings
	repo      store.Repository
	listeners []Listener
}

// NewManager creates a manager seeded with defaults. Call Load to overlay
// persisted values.
func NewManager(repo store.Repository, defaults Settings) *Manager {
	return &Manager{repo: repo, current: defaults}
}

// Load overlays persisted settings on top of the defaults.
func (m *Manager) Load(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	saved, err := m.repo.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := saved[store.SettingAutoEngage]; ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			m.current.AutoEngage = enabled
		}
	}
	if v, ok := saved[store.SettingAPIEndpoint]; ok && v != "" {
		m.current.APIEndpoint = v
	}
	if v, ok := saved[store.SettingAPIKey]; ok && v != "" {
		m.current.APIKey = v
	}
	return nil
}

// Current returns the settings as of now.
func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Subscribe registers a listener invoked after every successful update.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Update persists new settings and notifies subscribers. On persistence
// failure the in-memory values are left unchanged.
func (m *Manager) Update(ctx context.Context, s Settings) error {
	if m.repo != nil {
		pairs := map[string]string{
			store.SettingAutoEngage:  strconv.FormatBool(s.AutoEngage),
			store.SettingAPIEndpoint: s.APIEndpoint,
			store.SettingAPIKey:      s.APIKey,
		}
		for key, value := range pairs {
			if err := m.repo.SaveSetting(ctx, key, value); err != nil {
				return fmt.Errorf("persist setting %s: %w", key, err)
			}
		}
	}

	m.mu.Lock()
	m.current = s
	listeners := append([]Listener{}, m.listeners...)
	m.mu.Unlock()

	slog.Info("Settings updated", "auto_engage", s.AutoEngage, "endpoint", s.APIEndpoint)
	for _, l := range listeners {
		l(s)
	}
	return nil
}
