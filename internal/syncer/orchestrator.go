package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/remote"
	"github.com/fieldcoach/coachsync/internal/repository"
)

// ProcessResult accumulates the outcome of one queue replay pass.
type ProcessResult struct {
	Processed int
	Failed    int
	// Conflicts lists session ids whose resolution detected divergence
	// (merge or cloud-wins). Conflicts are reported, never silently
	// dropped, even though they do not block the rest of the pass.
	Conflicts []string
}

// Orchestrator is the public face of the sync engine. Every operation
// follows the same shape: attempt remote I/O; on success update the cache
// and status machine; on a network failure fall back to the local store
// and the queue; on a structured rejection surface the error without
// queueing, since retrying an invalid request will not help.
type Orchestrator struct {
	cache    repository.SessionCache
	queue    *Queue
	status   *Machine
	remote   remote.Client
	resolver *Resolver
	logger   *log.Logger
	now      func() time.Time
}

// NewOrchestrator wires the sync engine together. If logger is nil, a
// default logger writing to stderr is used.
func NewOrchestrator(cache repository.SessionCache, queue *Queue, status *Machine, client remote.Client, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Orchestrator{
		cache:    cache,
		queue:    queue,
		status:   status,
		remote:   client,
		resolver: NewResolver(client, nil),
		logger:   logger,
		now:      time.Now,
	}
}

// FetchAll returns summaries of all sessions: from the remote when
// reachable, from the local cache otherwise.
func (o *Orchestrator) FetchAll(ctx context.Context) ([]domain.SessionSummary, error) {
	if o.status.Status() == StateOffline {
		return o.fetchAllLocal(ctx)
	}

	o.setStatus(StateSyncing)
	summaries, err := o.remote.ListSessions(ctx)
	if err == nil {
		o.setStatus(StateSynced)
		return summaries, nil
	}
	if remote.IsUnavailable(err) {
		o.logger.Printf("remote unreachable, serving session list from cache: %v", err)
		return o.fetchAllLocal(ctx)
	}
	o.setStatus(StateError)
	return nil, err
}

func (o *Orchestrator) fetchAllLocal(ctx context.Context) ([]domain.SessionSummary, error) {
	records, err := o.cache.List(ctx)
	if err != nil {
		o.setStatus(StateError)
		return nil, fmt.Errorf("reading session cache: %w", err)
	}
	summaries := make([]domain.SessionSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, r.Summary())
	}
	o.setStatus(StateOffline)
	return summaries, nil
}

// FetchOne returns a single full record. When the remote is unreachable,
// or when the record exists only locally (still pending upload), the
// cached copy is returned.
func (o *Orchestrator) FetchOne(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	if o.status.Status() == StateOffline {
		return o.fetchOneLocal(ctx, sessionID, StateOffline)
	}

	o.setStatus(StateSyncing)
	rec, err := o.remote.GetSession(ctx, sessionID)
	if err == nil {
		if putErr := o.cache.Put(ctx, rec); putErr != nil {
			o.logger.Printf("WARNING: failed to cache session %s: %v", sessionID, putErr)
		}
		o.setStatus(StateSynced)
		return rec, nil
	}
	if errors.Is(err, remote.ErrNotFound) {
		// Locally created records live only in the cache until the
		// queue is replayed.
		return o.fetchOneLocal(ctx, sessionID, StateSynced)
	}
	if remote.IsUnavailable(err) {
		return o.fetchOneLocal(ctx, sessionID, StateOffline)
	}
	o.setStatus(StateError)
	return nil, err
}

func (o *Orchestrator) fetchOneLocal(ctx context.Context, sessionID string, after State) (*domain.SessionRecord, error) {
	rec, err := o.cache.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			o.setStatus(after)
			return nil, err
		}
		o.setStatus(StateError)
		return nil, err
	}
	o.setStatus(after)
	return rec, nil
}

// Save durably records the session locally first, so the newest local
// state survives a crash mid-sync, then attempts the remote upsert or
// queues it.
func (o *Orchestrator) Save(ctx context.Context, rec *domain.SessionRecord) error {
	rec.Normalize()
	rec.UpdatedAt = o.now().UTC()

	if err := o.cache.Put(ctx, rec); err != nil {
		// Durability is degraded but the operation continues: the
		// change still reaches the queue or the remote from memory.
		o.logger.Printf("WARNING: local write failed for session %s: %v", rec.SessionID, err)
	}

	if o.status.Status() == StateOffline {
		o.queue.Enqueue(ctx, domain.ActionUpsert, rec.SessionID, rec)
		o.setStatus(StateOffline)
		return nil
	}

	o.setStatus(StateSyncing)
	syncedAt, err := o.remote.UpsertSession(ctx, rec)
	if err == nil {
		rec.UpdatedAt = syncedAt
		if putErr := o.cache.Put(ctx, rec); putErr != nil {
			o.logger.Printf("WARNING: failed to update cached timestamp for %s: %v", rec.SessionID, putErr)
		}
		o.queue.RemoveBySession(ctx, rec.SessionID)
		o.setStatus(StateSynced)
		return nil
	}
	if remote.IsUnavailable(err) {
		o.queue.Enqueue(ctx, domain.ActionUpsert, rec.SessionID, rec)
		o.setStatus(StateOffline)
		return nil
	}
	o.setStatus(StateError)
	return err
}

// Delete removes the session locally at once, then attempts the remote
// delete or queues it. A remote 404 counts as success.
func (o *Orchestrator) Delete(ctx context.Context, sessionID string) error {
	if err := o.cache.Delete(ctx, sessionID); err != nil {
		o.logger.Printf("WARNING: local delete failed for session %s: %v", sessionID, err)
	}

	if o.status.Status() == StateOffline {
		o.queue.Enqueue(ctx, domain.ActionDelete, sessionID, nil)
		o.setStatus(StateOffline)
		return nil
	}

	o.setStatus(StateSyncing)
	err := o.remote.DeleteSession(ctx, sessionID)
	if err == nil {
		o.queue.RemoveBySession(ctx, sessionID)
		o.setStatus(StateSynced)
		return nil
	}
	if remote.IsUnavailable(err) {
		o.queue.Enqueue(ctx, domain.ActionDelete, sessionID, nil)
		o.setStatus(StateOffline)
		return nil
	}
	o.setStatus(StateError)
	return err
}

// PendingCount returns the number of uncommitted local changes.
func (o *Orchestrator) PendingCount() int {
	return o.queue.Len()
}

// PendingChanges returns a snapshot of the queue for display.
func (o *Orchestrator) PendingChanges() []domain.PendingChange {
	return o.queue.Snapshot()
}

// ProcessQueue replays the pending queue against the remote, strictly
// sequentially so that no two resolutions race on the same session. It is
// a no-op when the queue is empty or the remote is unreachable. Entries
// are removed once durably applied remotely; a resolution in the remote's
// favor also counts as applied.
func (o *Orchestrator) ProcessQueue(ctx context.Context) (ProcessResult, error) {
	var result ProcessResult
	if o.queue.Len() == 0 {
		return result, nil
	}
	if !o.remote.Ping(ctx) {
		return result, nil
	}

	o.setStatus(StateSyncing)

	for _, change := range o.queue.Snapshot() {
		switch change.Action {
		case domain.ActionDelete:
			if err := o.remote.DeleteSession(ctx, change.SessionID); err != nil {
				o.logger.Printf("WARNING: queued delete failed for %s: %v", change.SessionID, err)
				o.queue.BumpRetry(ctx, change.ChangeID)
				result.Failed++
				continue
			}
			o.queue.Remove(ctx, change.ChangeID)
			result.Processed++

		case domain.ActionUpsert:
			res, err := o.resolver.ResolveUpsert(ctx, change)
			if err != nil {
				o.logger.Printf("WARNING: queued upsert failed for %s: %v", change.SessionID, err)
				o.queue.BumpRetry(ctx, change.ChangeID)
				result.Failed++
				continue
			}
			o.applyResolution(ctx, res)
			o.queue.Remove(ctx, change.ChangeID)
			if res.Outcome.IsConflict() {
				result.Conflicts = append(result.Conflicts, change.SessionID)
			} else {
				result.Processed++
			}

		default:
			o.logger.Printf("WARNING: dropping queue entry %s with unknown action %q", change.ChangeID, change.Action)
			o.queue.Remove(ctx, change.ChangeID)
		}
	}

	switch {
	case len(result.Conflicts) > 0:
		o.status.Set(StateConflict, Info{PendingCount: o.queue.Len(), ConflictIDs: result.Conflicts})
	case o.queue.Len() == 0:
		o.setStatus(StateSynced)
	default:
		o.setStatus(StateError)
	}
	return result, nil
}

// applyResolution writes the resolved ground-truth copy back to the cache.
func (o *Orchestrator) applyResolution(ctx context.Context, res *Resolution) {
	rec := res.Record
	if !res.SyncedAt.IsZero() {
		rec = rec.Clone()
		rec.UpdatedAt = res.SyncedAt
	}
	if err := o.cache.Put(ctx, rec); err != nil {
		o.logger.Printf("WARNING: failed to cache resolved session %s: %v", rec.SessionID, err)
	}
}

func (o *Orchestrator) setStatus(state State) {
	o.status.Set(state, Info{PendingCount: o.queue.Len()})
}
