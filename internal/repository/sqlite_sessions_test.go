package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCache_PutGetRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	cache := NewSQLiteSessionCache(database)
	ctx := context.Background()

	rating := 5
	rec := testutil.NewTestRecord("Tuesday U14",
		testutil.WithEvents(3),
		testutil.WithDurations(300, 200, 100),
		testutil.WithSessionNotes("good pace throughout"),
	)
	rec.CoachID = "coach_1"
	rec.ObserverReflections = []domain.Reflection{
		{ReflectionID: "r1", AuthorID: "obs_test", Content: "strong start", Rating: &rating},
	}

	require.NoError(t, cache.Put(ctx, rec))

	got, err := cache.Get(ctx, rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.CoachID, got.CoachID)
	assert.Len(t, got.Events, 3)
	assert.Equal(t, 300.0, got.TotalDuration)
	assert.Equal(t, "good pace throughout", got.SessionNotes)
	require.Len(t, got.ObserverReflections, 1)
	require.NotNil(t, got.ObserverReflections[0].Rating)
	assert.Equal(t, 5, *got.ObserverReflections[0].Rating)
}

func TestSessionCache_GetMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	cache := NewSQLiteSessionCache(database)

	_, err := cache.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionCache_PutOverwrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	cache := NewSQLiteSessionCache(database)
	ctx := context.Background()

	rec := testutil.NewTestRecord("Original")
	require.NoError(t, cache.Put(ctx, rec))

	rec.Name = "Renamed"
	rec.Status = domain.SessionCompleted
	rec.UpdatedAt = rec.UpdatedAt.Add(time.Minute)
	require.NoError(t, cache.Put(ctx, rec))

	got, err := cache.Get(ctx, rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, domain.SessionCompleted, got.Status)

	all, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not create a second row")
}

func TestSessionCache_ListOrdersByUpdatedAtDesc(t *testing.T) {
	database := testutil.NewTestDB(t)
	cache := NewSQLiteSessionCache(database)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	older := testutil.NewTestRecord("Older", testutil.WithUpdatedAt(base.Add(-time.Hour)))
	newer := testutil.NewTestRecord("Newer", testutil.WithUpdatedAt(base))
	require.NoError(t, cache.Put(ctx, older))
	require.NoError(t, cache.Put(ctx, newer))

	all, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Newer", all[0].Name)
	assert.Equal(t, "Older", all[1].Name)
}

func TestSessionCache_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	cache := NewSQLiteSessionCache(database)
	ctx := context.Background()

	rec := testutil.NewTestRecord("Doomed")
	require.NoError(t, cache.Put(ctx, rec))
	require.NoError(t, cache.Delete(ctx, rec.SessionID))

	_, err := cache.Get(ctx, rec.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing row is a no-op, not an error.
	assert.NoError(t, cache.Delete(ctx, rec.SessionID))
}
