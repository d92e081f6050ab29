package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nkurella/honeyguard/internal/domain"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return repo
}

func TestPing(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	// Empty on a fresh database.
	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if len(settings) != 0 {
		t.Errorf("Expected no settings, got %v", settings)
	}

	if err := repo.SaveSetting(ctx, SettingAutoEngage, "true"); err != nil {
		t.Fatalf("SaveSetting failed: %v", err)
	}
	if err := repo.SaveSetting(ctx, SettingAPIEndpoint, "http://localhost:8000"); err != nil {
		t.Fatalf("SaveSetting failed: %v", err)
	}

	// Upsert overwrites.
	if err := repo.SaveSetting(ctx, SettingAutoEngage, "false"); err != nil {
		t.Fatalf("SaveSetting overwrite failed: %v", err)
	}

	settings, err = repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings[SettingAutoEngage] != "false" {
		t.Errorf("Expected overwritten value, got %q", settings[SettingAutoEngage])
	}
	if settings[SettingAPIEndpoint] != "http://localhost:8000" {
		t.Errorf("Unexpected endpoint %q", settings[SettingAPIEndpoint])
	}
}

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	// Nil snapshot when nothing was ever saved.
	snap, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if snap != nil {
		t.Fatalf("Expected nil snapshot on fresh database, got %+v", snap)
	}

	now := time.Now().UTC().Truncate(time.Second)
	saved := &domain.Snapshot{
		TotalScams: 3,
		Intelligence: domain.Intelligence{
			PhoneNumbers: []string{"9876543210"},
			Keywords:     []string{"kyc"},
		},
		Alerts: []domain.Alert{{Text: "Your KYC is blocked", Source: domain.SourceManual, Timestamp: now}},
		Sessions: map[string]*domain.Session{
			"s1": {
				ID:        "s1",
				Source:    domain.SourceManual,
				StartTime: now,
				Messages: []domain.Message{
					{Sender: domain.SenderScammer, Text: "kyc blocked", Timestamp: now},
				},
			},
		},
	}
	if err := repo.SaveState(ctx, saved); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	loaded, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a snapshot")
	}
	if loaded.TotalScams != 3 {
		t.Errorf("Expected 3 total scams, got %d", loaded.TotalScams)
	}
	if len(loaded.Alerts) != 1 || loaded.Alerts[0].Text != "Your KYC is blocked" {
		t.Errorf("Unexpected alerts %+v", loaded.Alerts)
	}
	sess, ok := loaded.Sessions["s1"]
	if !ok || len(sess.Messages) != 1 || sess.Messages[0].Text != "kyc blocked" {
		t.Errorf("Unexpected sessions %+v", loaded.Sessions)
	}

	// A second save replaces the single state row.
	saved.TotalScams = 4
	if err := repo.SaveState(ctx, saved); err != nil {
		t.Fatalf("Second SaveState failed: %v", err)
	}
	loaded, err = repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if loaded.TotalScams != 4 {
		t.Errorf("Expected replaced state, got %d", loaded.TotalScams)
	}
}
