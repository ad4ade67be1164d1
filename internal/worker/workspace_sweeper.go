package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// WorkspaceEvictor drops per-session tables that have not been used for a
// while. *console.Manager implements it.
type WorkspaceEvictor interface {
	Sweep(idle time.Duration) int
}

// WorkspaceSweeper evicts idle workspaces on a fixed interval.
type WorkspaceSweeper struct {
	evictor  WorkspaceEvictor
	idle     time.Duration
	interval time.Duration
}

// NewWorkspaceSweeper constructs a WorkspaceSweeper.
func NewWorkspaceSweeper(evictor WorkspaceEvictor, idle, interval time.Duration) *WorkspaceSweeper {
	return &WorkspaceSweeper{
		evictor:  evictor,
		idle:     idle,
		interval: interval,
	}
}

// Start begins the sweep loop and listens for context cancellation.
func (w *WorkspaceSweeper) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("idle", w.idle).Msg("Starting workspace sweeper")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Workspace sweeper stopped")
			return
		}
	}
}

func (w *WorkspaceSweeper) run() {
	if n := w.evictor.Sweep(w.idle); n > 0 {
		log.Debug().Int("evicted", n).Msg("Workspace sweep finished")
	}
}
