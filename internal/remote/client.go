package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
)

// Client provides access to the remote record service: the authoritative
// replica of all session records.
type Client interface {
	// ListSessions fetches summaries of all sessions visible to this account.
	ListSessions(ctx context.Context) ([]domain.SessionSummary, error)

	// GetSession fetches one full record. Returns ErrNotFound if absent.
	GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error)

	// UpsertSession creates or fully overwrites the remote record and
	// returns the server-assigned sync timestamp.
	UpsertSession(ctx context.Context, r *domain.SessionRecord) (time.Time, error)

	// DeleteSession removes the remote record. An already-deleted record
	// is success, not an error (idempotent delete).
	DeleteSession(ctx context.Context, sessionID string) error

	// Ping checks whether the remote service is reachable.
	Ping(ctx context.Context) bool
}

// Config holds connection settings for the HTTP client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// httpClient implements Client against the observations HTTP API.
type httpClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient creates a Client that talks to the remote record service.
func NewHTTPClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (c *httpClient) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/api/observations", nil)
	if err != nil {
		return nil, err
	}

	var wires []wireSummary
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, fmt.Errorf("decoding session list: %w", err)
	}

	summaries := make([]domain.SessionSummary, 0, len(wires))
	for _, w := range wires {
		summaries = append(summaries, summaryFromWire(w))
	}
	return summaries, nil
}

func (c *httpClient) GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/api/observations/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}

	var w wireRecord
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decoding session record: %w", err)
	}
	return wireToRecord(w), nil
}

func (c *httpClient) UpsertSession(ctx context.Context, r *domain.SessionRecord) (time.Time, error) {
	payload, err := json.Marshal(recordToWire(r))
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding session record: %w", err)
	}

	// Try update first; fall back to create when the record is new.
	body, status, err := c.do(ctx, http.MethodPut, "/api/observations/"+url.PathEscape(r.SessionID), payload)
	if err != nil && status == http.StatusNotFound {
		body, _, err = c.do(ctx, http.MethodPost, "/api/observations", payload)
	}
	if err != nil {
		return time.Time{}, err
	}

	var resp wireUpsertResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return time.Time{}, fmt.Errorf("decoding upsert response: %w", err)
	}
	return resp.SyncedAt, nil
}

func (c *httpClient) DeleteSession(ctx context.Context, sessionID string) error {
	_, status, err := c.do(ctx, http.MethodDelete, "/api/observations/"+url.PathEscape(sessionID), nil)
	if err != nil && status == http.StatusNotFound {
		// Already gone on the remote; treat as success.
		return nil
	}
	return err
}

func (c *httpClient) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/observations", nil)
	if err != nil {
		return false
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// do performs one HTTP request and classifies the response per the error
// taxonomy: transport failure, not-found, structured rejection, or success.
// The returned status is 0 when no response was received.
func (c *httpClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return body, resp.StatusCode, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, fmt.Errorf("%s: %w", path, ErrNotFound)
	default:
		var eb wireErrorBody
		_ = json.Unmarshal(body, &eb)
		if eb.Detail == "" {
			eb.Detail = http.StatusText(resp.StatusCode)
		}
		return nil, resp.StatusCode, &Rejection{StatusCode: resp.StatusCode, Detail: eb.Detail}
	}
}

func (c *httpClient) authorize(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}
