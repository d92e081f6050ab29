package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/nkurella/honeyguard/internal/domain"
)

// DirtySnapshotter produces the current engine state for persistence and
// tracks whether it has changed since the last save.
type DirtySnapshotter interface {
	// Snapshot returns a consistent copy of all accumulated state.
	Snapshot() *domain.Snapshot
	// ConsumeDirty reports whether state changed since the last call and
	// clears the flag.
	ConsumeDirty() bool
}

const defaultSnapshotInterval = 30 * time.Second

// StartSnapshotWorker runs a background goroutine that periodically writes
// the engine state to the repository whenever it has changed. A final write
// on shutdown is the caller's responsibility.
func StartSnapshotWorker(ctx context.Context, repo Repository, src DirtySnapshotter, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSnapshotInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Snapshot worker started", "interval", interval)

		for {
			select {
			case <-ticker.C:
				if !src.ConsumeDirty() {
					continue
				}
				if err := repo.SaveState(ctx, src.Snapshot()); err != nil {
					slog.Error("Snapshot worker failed to save state", "error", err)
				}
			case <-ctx.Done():
				slog.Info("Snapshot worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
