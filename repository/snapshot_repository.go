package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"

	"loan-quote/domain"
)

const (
	SnapshotKey = "loanCalculatorState"
	// Snapshots older than this are treated as absent.
	SnapshotMaxAge = 7 * 24 * time.Hour
)

// SnapshotRepository persists engine snapshots in a CacheRepository.
type SnapshotRepository struct {
	cache  CacheRepository
	key    string
	logger *slog.Logger
	now    func() time.Time
}

func NewSnapshotRepository(cache CacheRepository, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		cache:  cache,
		key:    SnapshotKey,
		logger: logger,
		now:    time.Now,
	}
}

// Load returns the stored snapshot. Stale or undecodable snapshots are
// deleted and reported as absent.
func (r *SnapshotRepository) Load(ctx context.Context) (domain.Snapshot, bool) {
	raw, ok := r.cache.Get(ctx, r.key)
	if !ok {
		return domain.Snapshot{}, false
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		r.logger.Warn("discarding unreadable loan snapshot", "error", err)
		r.discard(ctx)
		return domain.Snapshot{}, false
	}

	if !snap.SavedAt.IsZero() && r.now().Sub(snap.SavedAt) > SnapshotMaxAge {
		r.logger.Info("discarding stale loan snapshot", "saved_at", snap.SavedAt)
		r.discard(ctx)
		return domain.Snapshot{}, false
	}
	return snap, true
}

// Save stamps the snapshot with the current time and stores it.
func (r *SnapshotRepository) Save(ctx context.Context, snap domain.Snapshot) error {
	snap.SavedAt = r.now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.cache.Set(ctx, r.key, string(data), SnapshotMaxAge); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Clear removes any stored snapshot.
func (r *SnapshotRepository) Clear(ctx context.Context) error {
	if err := r.cache.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) discard(ctx context.Context) {
	if err := r.cache.Delete(ctx, r.key); err != nil {
		r.logger.Warn("failed to delete loan snapshot", "error", err)
	}
}
