package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/internal/store"
)

// SnapshotBackup persists and restores the last good snapshot. Implemented by
// store.Backup; nil-able via the noop used when Redis is disabled.
type SnapshotBackup interface {
	Save(ctx context.Context, products []domain.Product) error
	Load(ctx context.Context) ([]domain.Product, error)
}

// Refresher keeps the catalog store in sync with the upstream source: an
// initial fetch at startup (falling back to the persisted snapshot when the
// upstream is down), then periodic full refreshes.
type Refresher struct {
	client   *Client
	store    *store.Store
	backup   SnapshotBackup
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a refresher. backup may be nil when snapshot
// persistence is disabled.
func NewRefresher(client *Client, st *store.Store, backup SnapshotBackup, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		client:   client,
		store:    st,
		backup:   backup,
		interval: interval,
		logger:   logger,
	}
}

// Run performs the initial load and then refreshes on the configured
// interval until the context is canceled.
func (r *Refresher) Run(ctx context.Context) error {
	if err := r.initialLoad(ctx); err != nil {
		r.logger.Warn("initial catalog load failed, serving empty catalog until refresh succeeds",
			slog.String("error", err.Error()),
		)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.RefreshNow(ctx); err != nil {
				// Keep serving the stale snapshot; the next tick retries.
				r.logger.Error("catalog refresh failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RefreshNow fetches the upstream collection and replaces the snapshot.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	products, err := r.client.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	r.store.Replace(products)
	r.logger.InfoContext(ctx, "catalog snapshot replaced",
		slog.Int("products", len(products)),
	)

	if r.backup != nil {
		if err := r.backup.Save(ctx, products); err != nil {
			// Persistence is best-effort; the live snapshot is already up.
			r.logger.Warn("failed to persist catalog snapshot",
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// initialLoad tries the upstream first and falls back to the persisted
// snapshot so a restart can serve before the upstream is reachable.
func (r *Refresher) initialLoad(ctx context.Context) error {
	err := r.RefreshNow(ctx)
	if err == nil {
		return nil
	}

	if r.backup == nil {
		return err
	}

	products, loadErr := r.backup.Load(ctx)
	if loadErr != nil {
		r.logger.Warn("failed to restore persisted snapshot",
			slog.String("error", loadErr.Error()),
		)
		return err
	}
	if products == nil {
		return err
	}

	r.store.Replace(products)
	r.logger.Info("restored catalog snapshot from backup",
		slog.Int("products", len(products)),
	)
	return nil
}
