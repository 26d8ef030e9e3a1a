package syncer

import (
	"context"
	"log"
	"os"
	"time"
)

// Watcher polls the remote's reachability and drives the status machine
// across connectivity transitions. When the link comes back it replays the
// pending queue once; when it drops it marks the engine offline so that
// subsequent saves take the fast local path.
type Watcher struct {
	orch     *Orchestrator
	status   *Machine
	probe    func(context.Context) bool
	interval time.Duration
	logger   *log.Logger
}

// NewWatcher creates a Watcher polling at the given interval. If interval
// is zero, 15 seconds is used. If logger is nil, a default logger writing
// to stderr is used.
func NewWatcher(orch *Orchestrator, status *Machine, probe func(context.Context) bool, interval time.Duration, logger *log.Logger) *Watcher {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Watcher{
		orch:     orch,
		status:   status,
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. It probes immediately on entry so
// callers do not wait a full interval for the first reading.
func (w *Watcher) Run(ctx context.Context) {
	w.check(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	reachable := w.probe(ctx)
	wasOffline := w.status.Status() == StateOffline

	switch {
	case reachable && wasOffline:
		w.logger.Printf("remote reachable again, replaying %d pending change(s)", w.orch.PendingCount())
		w.status.Set(StateIdle, Info{PendingCount: w.orch.PendingCount()})
		if _, err := w.orch.ProcessQueue(ctx); err != nil {
			w.logger.Printf("WARNING: queue replay after reconnect failed: %v", err)
		}
	case !reachable && !wasOffline:
		w.status.Set(StateOffline, Info{PendingCount: w.orch.PendingCount()})
	}
}
