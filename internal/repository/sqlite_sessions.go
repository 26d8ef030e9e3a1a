package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldcoach/coachsync/internal/db"
	"github.com/fieldcoach/coachsync/internal/domain"
)

// SQLiteSessionCache implements SessionCache using a SQLite database.
// Records are stored as a JSON payload alongside a few indexed columns
// so list views never deserialize the full record set.
type SQLiteSessionCache struct {
	db db.DBTX
}

// NewSQLiteSessionCache creates a new SQLiteSessionCache.
func NewSQLiteSessionCache(dbtx db.DBTX) *SQLiteSessionCache {
	return &SQLiteSessionCache{db: dbtx}
}

func (c *SQLiteSessionCache) Put(ctx context.Context, r *domain.SessionRecord) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}

	query := `INSERT INTO cached_sessions (session_id, name, status, event_count, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			event_count = excluded.event_count,
			updated_at = excluded.updated_at,
			payload = excluded.payload`
	_, err = c.db.ExecContext(ctx, query,
		r.SessionID,
		r.Name,
		string(r.Status),
		len(r.Events),
		r.UpdatedAt.UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("caching session record: %w", err)
	}
	return nil
}

func (c *SQLiteSessionCache) Get(ctx context.Context, sessionID string) (*domain.SessionRecord, error) {
	query := `SELECT payload FROM cached_sessions WHERE session_id = ?`
	var payload string
	err := c.db.QueryRowContext(ctx, query, sessionID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cached session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("reading cached session: %w", err)
	}
	return decodeRecord(payload)
}

func (c *SQLiteSessionCache) List(ctx context.Context) ([]*domain.SessionRecord, error) {
	query := `SELECT payload FROM cached_sessions ORDER BY updated_at DESC`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing cached sessions: %w", err)
	}
	defer rows.Close()

	var records []*domain.SessionRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning cached session row: %w", err)
		}
		r, decErr := decodeRecord(payload)
		if decErr != nil {
			return nil, decErr
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached sessions: %w", err)
	}
	return records, nil
}

func (c *SQLiteSessionCache) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM cached_sessions WHERE session_id = ?`
	_, err := c.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("deleting cached session: %w", err)
	}
	return nil
}

func decodeRecord(payload string) (*domain.SessionRecord, error) {
	var r domain.SessionRecord
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("decoding session record: %w", err)
	}
	r.Normalize()
	return &r, nil
}
