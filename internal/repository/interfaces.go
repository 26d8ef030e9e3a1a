package repository

import (
	"context"
	"errors"

	"github.com/fieldcoach/coachsync/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SessionCache is this device's durable copy of session records. It is the
// offline read path and the crash-recovery write path; the remote service
// remains the authoritative replica.
type SessionCache interface {
	Put(ctx context.Context, r *domain.SessionRecord) error
	Get(ctx context.Context, sessionID string) (*domain.SessionRecord, error)
	List(ctx context.Context) ([]*domain.SessionRecord, error)
	Delete(ctx context.Context, sessionID string) error
}

// ChangeQueue persists the pending-change queue. The in-memory queue held by
// the queue manager is authoritative for the process lifetime; this store
// exists so the queue survives restarts.
type ChangeQueue interface {
	Load(ctx context.Context) ([]domain.PendingChange, error)
	ReplaceAll(ctx context.Context, changes []domain.PendingChange) error
}
