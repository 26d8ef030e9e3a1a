package fakeremote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/remote"
)

// FakeRemote is an in-memory stand-in for the record service. Offline
// simulates a dropped link; RejectUpserts makes every upsert fail with the
// given structured rejection.
type FakeRemote struct {
	mu            sync.Mutex
	Records       map[string]*domain.SessionRecord
	Offline       bool
	RejectUpserts *remote.Rejection
	SyncedAt      time.Time
	Calls         []string
}

var _ remote.Client = (*FakeRemote)(nil)

// NewFakeRemote returns an empty reachable fake.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		Records:  make(map[string]*domain.SessionRecord),
		SyncedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Seed stores a record directly, bypassing the call log.
func (f *FakeRemote) Seed(rec *domain.SessionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Records[rec.SessionID] = rec.Clone()
}

// Stored returns the current remote copy, nil if absent.
func (f *FakeRemote) Stored(sessionID string) *domain.SessionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Records[sessionID].Clone()
}

func (f *FakeRemote) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "list")
	if f.Offline {
		return nil, fmt.Errorf("fake remote offline: %w", remote.ErrUnavailable)
	}
	out := make([]domain.SessionSummary, 0, len(f.Records))
	for _, rec := range f.Records {
		out = append(out, rec.Summary())
	}
	return out, nil
}

func (f *FakeRemote) GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "get "+sessionID)
	if f.Offline {
		return nil, fmt.Errorf("fake remote offline: %w", remote.ErrUnavailable)
	}
	rec, ok := f.Records[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, remote.ErrNotFound)
	}
	return rec.Clone(), nil
}

func (f *FakeRemote) UpsertSession(ctx context.Context, rec *domain.SessionRecord) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "upsert "+rec.SessionID)
	if f.Offline {
		return time.Time{}, fmt.Errorf("fake remote offline: %w", remote.ErrUnavailable)
	}
	if f.RejectUpserts != nil {
		return time.Time{}, f.RejectUpserts
	}
	stored := rec.Clone()
	stored.UpdatedAt = f.SyncedAt
	f.Records[rec.SessionID] = stored
	return f.SyncedAt, nil
}

func (f *FakeRemote) DeleteSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "delete "+sessionID)
	if f.Offline {
		return fmt.Errorf("fake remote offline: %w", remote.ErrUnavailable)
	}
	delete(f.Records, sessionID)
	return nil
}

func (f *FakeRemote) Ping(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ping")
	return !f.Offline
}
