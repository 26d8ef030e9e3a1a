package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/remote"
)

// Outcome names how a pending upsert was reconciled against the remote.
type Outcome string

const (
	// OutcomeCreate: the remote had no record; the local copy was created.
	OutcomeCreate Outcome = "create"
	// OutcomePush: local was at least as new; it overwrote the remote.
	OutcomePush Outcome = "push"
	// OutcomeMerge: remote was newer but local had more events; a merged
	// record was pushed.
	OutcomeMerge Outcome = "merge"
	// OutcomeCloudWins: remote was newer and at least as complete; the
	// local pending change was discarded.
	OutcomeCloudWins Outcome = "cloud-wins"
)

// IsConflict reports whether the outcome means both replicas had diverged
// since their last common sync point.
func (o Outcome) IsConflict() bool {
	return o == OutcomeMerge || o == OutcomeCloudWins
}

// Resolution is the result of reconciling one pending upsert.
type Resolution struct {
	Outcome Outcome
	// Record is the copy now considered ground truth for the session:
	// the pushed record, or the remote copy when the cloud won.
	Record *domain.SessionRecord
	// SyncedAt is the server-assigned timestamp for pushed outcomes,
	// zero for cloud-wins.
	SyncedAt time.Time
}

// Resolver reconciles pending upserts against the live remote record.
// The remote copy is fetched fresh for every resolution, never cached;
// local data is never assumed authoritative.
type Resolver struct {
	remote remote.Client
	now    func() time.Time
}

// NewResolver creates a Resolver. If now is nil, time.Now is used.
func NewResolver(client remote.Client, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{remote: client, now: now}
}

// ResolveUpsert applies the timestamp/completeness heuristic to one pending
// upsert. The decision is deterministic and total:
//
//  1. remote absent            -> create
//  2. local.updated >= remote  -> push (local wins ties)
//  3. local has more events    -> merge and push
//  4. otherwise                -> cloud-wins, local change discarded
func (r *Resolver) ResolveUpsert(ctx context.Context, change domain.PendingChange) (*Resolution, error) {
	if change.Action != domain.ActionUpsert {
		return nil, fmt.Errorf("resolver handles upserts only, got %q", change.Action)
	}
	local := change.Payload
	if local == nil {
		return nil, fmt.Errorf("pending upsert for %s has no payload", change.SessionID)
	}

	remoteRec, err := r.remote.GetSession(ctx, change.SessionID)
	if errors.Is(err, remote.ErrNotFound) {
		syncedAt, pushErr := r.remote.UpsertSession(ctx, local)
		if pushErr != nil {
			return nil, pushErr
		}
		return &Resolution{Outcome: OutcomeCreate, Record: local, SyncedAt: syncedAt}, nil
	}
	if err != nil {
		return nil, err
	}

	if !local.UpdatedAt.Before(remoteRec.UpdatedAt) {
		syncedAt, pushErr := r.remote.UpsertSession(ctx, local)
		if pushErr != nil {
			return nil, pushErr
		}
		return &Resolution{Outcome: OutcomePush, Record: local, SyncedAt: syncedAt}, nil
	}

	if local.EventCount() > remoteRec.EventCount() {
		merged := Merge(local, remoteRec, r.now().UTC())
		syncedAt, pushErr := r.remote.UpsertSession(ctx, merged)
		if pushErr != nil {
			return nil, pushErr
		}
		return &Resolution{Outcome: OutcomeMerge, Record: merged, SyncedAt: syncedAt}, nil
	}

	// Remote is both newer and at least as complete: the remote copy is
	// ground truth and the local pending change is dropped. Known
	// limitation of the completeness heuristic: non-event data that only
	// exists locally (e.g. a longer reflection list) is dropped with it.
	return &Resolution{Outcome: OutcomeCloudWins, Record: remoteRec}, nil
}

// Merge combines a local and a remote record field by field, determinism
// guaranteed: the outcome depends only on the inputs and the resolution
// time.
//
//   - events and ball log: the longer list is kept whole, never interleaved
//   - durations: pairwise maximum
//   - reflections: union by reflection id, remote entries first
//   - session notes: local if non-empty, else remote
//   - last-modified: the resolution time
//
// All other fields come from the local record, since the merge is pushed
// on the local replica's behalf.
func Merge(local, remoteRec *domain.SessionRecord, now time.Time) *domain.SessionRecord {
	merged := local.Clone()

	if len(remoteRec.Events) > len(local.Events) {
		merged.Events = append([]domain.Event(nil), remoteRec.Events...)
	}
	if len(remoteRec.BallRollingLog) > len(local.BallRollingLog) {
		merged.BallRollingLog = append([]domain.BallInterval(nil), remoteRec.BallRollingLog...)
	}

	merged.TotalDuration = maxFloat(local.TotalDuration, remoteRec.TotalDuration)
	merged.BallRollingTime = maxFloat(local.BallRollingTime, remoteRec.BallRollingTime)
	merged.BallNotRollingTime = maxFloat(local.BallNotRollingTime, remoteRec.BallNotRollingTime)

	merged.ObserverReflections = unionReflections(remoteRec.ObserverReflections, local.ObserverReflections)
	merged.CoachReflections = unionReflections(remoteRec.CoachReflections, local.CoachReflections)

	if merged.SessionNotes == "" {
		merged.SessionNotes = remoteRec.SessionNotes
	}

	merged.UpdatedAt = now
	return merged
}

// unionReflections keeps every entry from first, then appends entries from
// second whose reflection id is not already present. Order is stable.
func unionReflections(first, second []domain.Reflection) []domain.Reflection {
	out := append([]domain.Reflection(nil), first...)
	seen := make(map[string]bool, len(first))
	for _, rf := range first {
		seen[rf.ReflectionID] = true
	}
	for _, rf := range second {
		if !seen[rf.ReflectionID] {
			out = append(out, rf)
			seen[rf.ReflectionID] = true
		}
	}
	if out == nil {
		out = []domain.Reflection{}
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
