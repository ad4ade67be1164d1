package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// AuditPruner deletes old audit rows. *repository.AuditRepository
// implements it.
type AuditPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditPruneWorker enforces the audit retention period.
type AuditPruneWorker struct {
	pruner    AuditPruner
	retention time.Duration
	interval  time.Duration
}

// NewAuditPruneWorker constructs an AuditPruneWorker.
func NewAuditPruneWorker(pruner AuditPruner, retention, interval time.Duration) *AuditPruneWorker {
	return &AuditPruneWorker{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
	}
}

// Start prunes once immediately, then on every tick.
func (w *AuditPruneWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("retention", w.retention).Msg("Starting audit prune worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Audit prune worker stopped")
			return
		}
	}
}

func (w *AuditPruneWorker) run(ctx context.Context) {
	if w.retention <= 0 {
		return
	}
	n, err := w.pruner.DeleteOlderThan(ctx, time.Now().Add(-w.retention))
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune audit events")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("Pruned audit events")
	}
}
