package syncer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/syncer"
	"github.com/fieldcoach/coachsync/internal/testutil"
	"github.com/fieldcoach/coachsync/internal/testutil/fakeremote"
)

var resolveNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func pendingUpsert(rec *domain.SessionRecord) domain.PendingChange {
	return domain.PendingChange{
		ChangeID:  "chg_test",
		Action:    domain.ActionUpsert,
		SessionID: rec.SessionID,
		Payload:   rec,
		CreatedAt: resolveNow,
	}
}

func TestResolverCreatesWhenRemoteAbsent(t *testing.T) {
	ctx := context.Background()
	fake := fakeremote.NewFakeRemote()
	r := syncer.NewResolver(fake, func() time.Time { return resolveNow })

	local := testutil.NewTestRecord("only local so far")
	res, err := r.ResolveUpsert(ctx, pendingUpsert(local))
	require.NoError(t, err)

	assert.Equal(t, syncer.OutcomeCreate, res.Outcome)
	assert.False(t, res.Outcome.IsConflict())
	assert.Equal(t, fake.SyncedAt, res.SyncedAt)
	require.NotNil(t, fake.Stored(local.SessionID), "record must now exist remotely")
}

func TestResolverPushesWhenLocalNewer(t *testing.T) {
	ctx := context.Background()
	fake := fakeremote.NewFakeRemote()
	r := syncer.NewResolver(fake, func() time.Time { return resolveNow })

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	remoteRec := testutil.NewTestRecord("stale on server", testutil.WithUpdatedAt(base))
	fake.Seed(remoteRec)

	local := remoteRec.Clone()
	local.SessionNotes = "edited on this device"
	local.UpdatedAt = base.Add(time.Hour)

	res, err := r.ResolveUpsert(ctx, pendingUpsert(local))
	require.NoError(t, err)
	assert.Equal(t, syncer.OutcomePush, res.Outcome)
	assert.Equal(t, "edited on this device", fake.Stored(local.SessionID).SessionNotes)
}

func TestResolverPushesOnTimestampTie(t *testing.T) {
	ctx := context.Background()
	fake := fakeremote.NewFakeRemote()
	r := syncer.NewResolver(fake, func() time.Time { return resolveNow })

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	remoteRec := testutil.NewTestRecord("tied", testutil.WithUpdatedAt(base))
	fake.Seed(remoteRec)

	local := remoteRec.Clone()
	local.SessionNotes = "local tiebreaker"

	res, err := r.ResolveUpsert(ctx, pendingUpsert(local))
	require.NoError(t, err)
	assert.Equal(t, syncer.OutcomePush, res.Outcome, "equal timestamps resolve in the local replica's favor")
}

func TestResolverMergesWhenRemoteNewerButLocalMoreComplete(t *testing.T) {
	ctx := context.Background()
	fake := fakeremote.NewFakeRemote()
	r := syncer.NewResolver(fake, func() time.Time { return resolveNow })

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	local := testutil.NewTestRecord("long recording",
		testutil.WithUpdatedAt(base),
		testutil.WithEvents(10))
	remoteRec := local.Clone()
	remoteRec.Events = remoteRec.Events[:3]
	remoteRec.UpdatedAt = base.Add(time.Hour)
	fake.Seed(remoteRec)

	res, err := r.ResolveUpsert(ctx, pendingUpsert(local))
	require.NoError(t, err)
	assert.Equal(t, syncer.OutcomeMerge, res.Outcome)
	assert.True(t, res.Outcome.IsConflict())
	assert.Len(t, fake.Stored(local.SessionID).Events, 10, "the longer event list wins")
}

func TestResolverCloudWinsWhenRemoteNewerAndComplete(t *testing.T) {
	ctx := context.Background()
	fake := fakeremote.NewFakeRemote()
	r := syncer.NewResolver(fake, func() time.Time { return resolveNow })

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	local := testutil.NewTestRecord("superseded",
		testutil.WithUpdatedAt(base),
		testutil.WithEvents(3),
		testutil.WithSessionNotes("doomed local note"))
	remoteRec := local.Clone()
	remoteRec.SessionNotes = "authoritative"
	remoteRec.UpdatedAt = base.Add(time.Hour)
	fake.Seed(remoteRec)

	res, err := r.ResolveUpsert(ctx, pendingUpsert(local))
	require.NoError(t, err)
	assert.Equal(t, syncer.OutcomeCloudWins, res.Outcome)
	assert.True(t, res.Outcome.IsConflict())
	assert.True(t, res.SyncedAt.IsZero(), "cloud-wins performs no remote write")
	assert.Equal(t, "authoritative", res.Record.SessionNotes)
	assert.Equal(t, "authoritative", fake.Stored(local.SessionID).SessionNotes,
		"the remote copy must be untouched")
}

func TestResolverRejectsNonUpsertsAndEmptyPayloads(t *testing.T) {
	ctx := context.Background()
	fake := fakeremote.NewFakeRemote()
	r := syncer.NewResolver(fake, nil)

	_, err := r.ResolveUpsert(ctx, domain.PendingChange{Action: domain.ActionDelete, SessionID: "s1"})
	require.Error(t, err)

	_, err = r.ResolveUpsert(ctx, domain.PendingChange{Action: domain.ActionUpsert, SessionID: "s1"})
	require.Error(t, err)
}

func TestMergeFieldRules(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	local := testutil.NewTestRecord("merge target",
		testutil.WithUpdatedAt(base),
		testutil.WithEvents(5),
		testutil.WithBallLog(2),
		testutil.WithDurations(600, 300, 200),
		testutil.WithSessionNotes("local notes"),
		testutil.WithObserverReflection("refl-local", "seen only here"))

	remoteRec := local.Clone()
	remoteRec.Events = remoteRec.Events[:2]
	remoteRec.UpdatedAt = base.Add(time.Hour)
	remoteRec.TotalDuration = 900
	remoteRec.BallRollingTime = 250
	remoteRec.BallNotRollingTime = 400
	remoteRec.SessionNotes = "remote notes"
	remoteRec.ObserverReflections = []domain.Reflection{
		{ReflectionID: "refl-remote", Content: "seen only there", CreatedAt: base},
	}
	remoteRec.BallRollingLog = append(remoteRec.BallRollingLog, domain.BallInterval{Rolling: true, At: base})

	merged := syncer.Merge(local, remoteRec, resolveNow)

	assert.Len(t, merged.Events, 5, "longer event list kept whole")
	assert.Len(t, merged.BallRollingLog, 3, "longer ball log kept whole")
	assert.Equal(t, 900.0, merged.TotalDuration)
	assert.Equal(t, 300.0, merged.BallRollingTime)
	assert.Equal(t, 400.0, merged.BallNotRollingTime)
	assert.Equal(t, "local notes", merged.SessionNotes, "non-empty local notes win")
	assert.Equal(t, resolveNow, merged.UpdatedAt)

	require.Len(t, merged.ObserverReflections, 2)
	assert.Equal(t, "refl-remote", merged.ObserverReflections[0].ReflectionID, "remote reflections come first")
	assert.Equal(t, "refl-local", merged.ObserverReflections[1].ReflectionID)
}

func TestMergeEmptyLocalNotesFallBackToRemote(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	local := testutil.NewTestRecord("no notes here", testutil.WithUpdatedAt(base))
	remoteRec := local.Clone()
	remoteRec.SessionNotes = "remote filled this in"

	merged := syncer.Merge(local, remoteRec, resolveNow)
	assert.Equal(t, "remote filled this in", merged.SessionNotes)
}

func TestMergeDeduplicatesSharedReflections(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	shared := domain.Reflection{ReflectionID: "refl-shared", Content: "on both replicas", CreatedAt: base}

	local := testutil.NewTestRecord("dedup", testutil.WithUpdatedAt(base))
	local.ObserverReflections = []domain.Reflection{shared, {ReflectionID: "refl-a", Content: "local only"}}
	remoteRec := local.Clone()
	remoteRec.ObserverReflections = []domain.Reflection{shared, {ReflectionID: "refl-b", Content: "remote only"}}

	merged := syncer.Merge(local, remoteRec, resolveNow)
	require.Len(t, merged.ObserverReflections, 3)
	assert.Equal(t, "refl-shared", merged.ObserverReflections[0].ReflectionID)
	assert.Equal(t, "refl-b", merged.ObserverReflections[1].ReflectionID)
	assert.Equal(t, "refl-a", merged.ObserverReflections[2].ReflectionID)
}

func TestMergeIsDeterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	local := testutil.NewTestRecord("repeatable",
		testutil.WithUpdatedAt(base),
		testutil.WithEvents(4),
		testutil.WithObserverReflection("refl-1", "x"))
	remoteRec := local.Clone()
	remoteRec.Events = remoteRec.Events[:1]

	first := syncer.Merge(local, remoteRec, resolveNow)
	second := syncer.Merge(local, remoteRec, resolveNow)
	assert.Equal(t, first, second)
}
