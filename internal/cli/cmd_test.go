package cli

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldcoach/coachsync/internal/config"
	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/repository"
	"github.com/fieldcoach/coachsync/internal/syncer"
	"github.com/fieldcoach/coachsync/internal/testutil"
	"github.com/fieldcoach/coachsync/internal/testutil/fakeremote"
)

func newTestApp(t *testing.T) (*App, *fakeremote.FakeRemote) {
	t.Helper()
	database := testutil.NewTestDB(t)
	cache := repository.NewSQLiteSessionCache(database)
	queue := syncer.NewQueue(repository.NewSQLiteChangeQueue(database), log.New(io.Discard, "", 0))
	status := syncer.NewMachine()
	fake := fakeremote.NewFakeRemote()

	app := &App{
		Engine:        syncer.NewOrchestrator(cache, queue, status, fake, log.New(io.Discard, "", 0)),
		Status:        status,
		Probe:         fake.Ping,
		Config:        config.DefaultConfig(),
		IsInteractive: func() bool { return false },
	}
	return app, fake
}

func runCmd(t *testing.T, app *App, args ...string) error {
	t.Helper()
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestSaveCommandCreatesAndSyncsRecord(t *testing.T) {
	app, fake := newTestApp(t)

	err := runCmd(t, app, "sessions", "save", "sess_cli", "--name", "CLI drill", "--status", "active")
	require.NoError(t, err)

	stored := fake.Stored("sess_cli")
	require.NotNil(t, stored)
	assert.Equal(t, "CLI drill", stored.Name)
	assert.Equal(t, domain.SessionActive, stored.Status)
}

func TestSaveCommandRejectsInvalidStatus(t *testing.T) {
	app, _ := newTestApp(t)
	err := runCmd(t, app, "sessions", "save", "--name", "x", "--status", "bogus")
	require.Error(t, err)
}

func TestSaveCommandReadsJSONFile(t *testing.T) {
	app, fake := newTestApp(t)

	rec := testutil.NewTestRecord("from file", testutil.WithEvents(2))
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "rec.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	require.NoError(t, runCmd(t, app, "sessions", "save", "--file", path))
	stored := fake.Stored(rec.SessionID)
	require.NotNil(t, stored)
	assert.Len(t, stored.Events, 2)
}

func TestDeleteCommandSkipsPromptWhenNotInteractive(t *testing.T) {
	app, fake := newTestApp(t)
	fake.Seed(testutil.NewTestRecord("doomed"))
	var id string
	for sid := range fake.Records {
		id = sid
	}

	require.NoError(t, runCmd(t, app, "sessions", "delete", id))
	assert.Nil(t, fake.Stored(id))
}

func TestSyncCommandReplaysOfflineEdits(t *testing.T) {
	app, fake := newTestApp(t)
	fake.Offline = true

	rec := testutil.NewTestRecord("made offline")
	require.NoError(t, app.Engine.Save(context.Background(), rec))
	require.Equal(t, 1, app.Engine.PendingCount())

	fake.Offline = false
	require.NoError(t, runCmd(t, app, "sync"))
	assert.Equal(t, 0, app.Engine.PendingCount())
	assert.NotNil(t, fake.Stored(rec.SessionID))
}

func TestListAndStatusCommandsRun(t *testing.T) {
	app, fake := newTestApp(t)
	fake.Seed(testutil.NewTestRecord("listed"))

	require.NoError(t, runCmd(t, app, "sessions", "list"))
	require.NoError(t, runCmd(t, app, "status"))
	require.NoError(t, runCmd(t, app, "queue"))
}
