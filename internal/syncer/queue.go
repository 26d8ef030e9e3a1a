package syncer

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/repository"
	"github.com/google/uuid"
)

// Queue owns the uncommitted local changes for this device. The in-memory
// list is authoritative for the process lifetime; every mutation is also
// written through to the durable store so the queue survives restarts.
// Persistence failures are logged and absorbed, never raised to callers.
type Queue struct {
	mu     sync.Mutex
	store  repository.ChangeQueue
	logger *log.Logger
	items  []domain.PendingChange
	now    func() time.Time
}

// NewQueue creates a Queue backed by the given durable store.
// If logger is nil, a default logger writing to stderr is used.
func NewQueue(store repository.ChangeQueue, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Queue{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Restore loads the persisted queue from the durable store. Call once at
// startup, before any enqueue.
func (q *Queue) Restore(ctx context.Context) error {
	changes, err := q.store.Load(ctx)
	if err != nil {
		return err
	}
	q.mu.Lock()
	q.items = changes
	q.mu.Unlock()
	return nil
}

// Enqueue records a mutation that could not reach the remote. Any existing
// entry for the same session id is replaced, so the queue holds at most one
// change per session and the last call wins. A delete clears the payload
// history entirely: there is nothing left to upsert once the session is
// marked for deletion.
func (q *Queue) Enqueue(ctx context.Context, action domain.ChangeAction, sessionID string, payload *domain.SessionRecord) domain.PendingChange {
	change := domain.PendingChange{
		ChangeID:  uuid.New().String(),
		Action:    action,
		SessionID: sessionID,
		Payload:   payload.Clone(),
		CreatedAt: q.now().UTC(),
	}
	if action == domain.ActionDelete {
		change.Payload = nil
	}

	q.mu.Lock()
	kept := q.items[:0]
	for _, existing := range q.items {
		if existing.SessionID != sessionID {
			kept = append(kept, existing)
		}
	}
	q.items = append(kept, change)
	q.persistLocked(ctx)
	q.mu.Unlock()

	return change
}

// Snapshot returns a copy of the queue for iteration. The queue itself is
// not mutated.
func (q *Queue) Snapshot() []domain.PendingChange {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.PendingChange, len(q.items))
	copy(out, q.items)
	return out
}

// Remove deletes one entry by change id and persists.
func (q *Queue) Remove(ctx context.Context, changeID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.items[:0]
	for _, existing := range q.items {
		if existing.ChangeID != changeID {
			kept = append(kept, existing)
		}
	}
	q.items = kept
	q.persistLocked(ctx)
}

// RemoveBySession deletes the entry for a session id, if any, and persists.
// Used when a direct save or delete succeeds while a stale change is still
// queued for the same session.
func (q *Queue) RemoveBySession(ctx context.Context, sessionID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.items[:0]
	removed := false
	for _, existing := range q.items {
		if existing.SessionID != sessionID {
			kept = append(kept, existing)
		} else {
			removed = true
		}
	}
	q.items = kept
	if removed {
		q.persistLocked(ctx)
	}
}

// BumpRetry increments the retry counter on one entry and persists.
func (q *Queue) BumpRetry(ctx context.Context, changeID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ChangeID == changeID {
			q.items[i].RetryCount++
			break
		}
	}
	q.persistLocked(ctx)
}

// Len returns the number of pending changes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// persistLocked writes the full queue through to the durable store.
// Must be called with q.mu held. A storage failure downgrades durability
// (the change exists only in memory until the next successful write) but
// never crashes the caller.
func (q *Queue) persistLocked(ctx context.Context) {
	snapshot := make([]domain.PendingChange, len(q.items))
	copy(snapshot, q.items)
	if err := q.store.ReplaceAll(ctx, snapshot); err != nil {
		q.logger.Printf("WARNING: failed to persist pending queue (%d entries): %v", len(snapshot), err)
	}
}
