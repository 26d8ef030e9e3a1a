package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldcoach/coachsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(Config{BaseURL: srv.URL, Token: "test-token", Timeout: 5 * time.Second})
}

func TestListSessions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/observations", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]wireSummary{
			{SessionID: "s1", Name: "First", Status: "draft", EventCount: 2},
			{SessionID: "s2", Name: "Second", Status: "completed", EventCount: 5},
		})
	}))

	sums, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "s1", sums[0].SessionID)
	assert.Equal(t, 5, sums[1].EventCount)
}

func TestGetSession_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(wireErrorBody{Detail: "Session not found"})
	}))

	_, err := client.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsUnavailable(err), "not-found is not a network failure")
}

func TestUpsertSession_UpdatesExisting(t *testing.T) {
	syncedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	var gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		var rec wireRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		json.NewEncoder(w).Encode(wireUpsertResponse{Success: true, SessionID: rec.SessionID, SyncedAt: syncedAt})
	}))

	got, err := client.UpsertSession(context.Background(), testutil.NewTestRecord("Existing"))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, syncedAt, got)
}

func TestUpsertSession_FallsBackToCreate(t *testing.T) {
	syncedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	var methods []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(wireErrorBody{Detail: "Session not found"})
			return
		}
		json.NewEncoder(w).Encode(wireUpsertResponse{Success: true, SyncedAt: syncedAt})
	}))

	got, err := client.UpsertSession(context.Background(), testutil.NewTestRecord("Fresh"))
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPut, http.MethodPost}, methods)
	assert.Equal(t, syncedAt, got)
}

func TestUpsertSession_Rejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(wireErrorBody{Detail: "need at least one event type"})
	}))

	_, err := client.UpsertSession(context.Background(), testutil.NewTestRecord("Invalid"))
	rej, ok := AsRejection(err)
	require.True(t, ok, "4xx with detail must surface as a Rejection")
	assert.Equal(t, http.StatusUnprocessableEntity, rej.StatusCode)
	assert.Equal(t, "need at least one event type", rej.Detail)
	assert.False(t, IsUnavailable(err))
}

func TestDeleteSession_IdempotentOn404(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(status)
		}))

		err := client.DeleteSession(context.Background(), "s1")
		assert.NoErrorf(t, err, "status %d must be treated as successful delete", status)
	}
}

func TestNetworkFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: time.Second})

	_, err := client.ListSessions(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err), "transport failure must classify as unavailable")

	assert.False(t, client.Ping(context.Background()))
}

func TestPing_ReachableServer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]wireSummary{})
	}))
	assert.True(t, client.Ping(context.Background()))
}
