package testutil

import (
	"context"
	"errors"

	"github.com/fieldcoach/coachsync/internal/domain"
)

// ErrStorageFull simulates a durable-store write failure (e.g. quota exceeded).
var ErrStorageFull = errors.New("storage quota exceeded")

// FailingChangeQueue fails every write. Load returns whatever was seeded.
// Used to verify that queue persistence failures degrade instead of crashing.
type FailingChangeQueue struct {
	Seeded []domain.PendingChange
	// Writes counts ReplaceAll attempts, failed or not.
	Writes int
}

func (q *FailingChangeQueue) Load(ctx context.Context) ([]domain.PendingChange, error) {
	return q.Seeded, nil
}

func (q *FailingChangeQueue) ReplaceAll(ctx context.Context, changes []domain.PendingChange) error {
	q.Writes++
	return ErrStorageFull
}

// FailingSessionCache fails every operation with ErrStorageFull.
type FailingSessionCache struct{}

func (FailingSessionCache) Put(ctx context.Context, r *domain.SessionRecord) error {
	return ErrStorageFull
}

func (FailingSessionCache) Get(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	return nil, ErrStorageFull
}

func (FailingSessionCache) List(ctx context.Context) ([]*domain.SessionRecord, error) {
	return nil, ErrStorageFull
}

func (FailingSessionCache) Delete(ctx context.Context, sessionID string) error {
	return ErrStorageFull
}
