package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
)

// SQLiteChangeQueue implements ChangeQueue using a SQLite database.
// ReplaceAll rewrites the whole queue in one transaction; the queue is
// small (one entry per locally modified session) so this stays cheap and
// keeps the on-disk state an exact mirror of the in-memory queue.
type SQLiteChangeQueue struct {
	db *sql.DB
}

// NewSQLiteChangeQueue creates a new SQLiteChangeQueue.
func NewSQLiteChangeQueue(database *sql.DB) *SQLiteChangeQueue {
	return &SQLiteChangeQueue{db: database}
}

func (q *SQLiteChangeQueue) Load(ctx context.Context) ([]domain.PendingChange, error) {
	query := `SELECT change_id, action, session_id, payload, created_at, retry_count
		FROM pending_changes ORDER BY created_at`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading pending changes: %w", err)
	}
	defer rows.Close()

	var changes []domain.PendingChange
	for rows.Next() {
		var (
			ch           domain.PendingChange
			action       string
			payload      sql.NullString
			createdAtStr string
		)
		if err := rows.Scan(&ch.ChangeID, &action, &ch.SessionID, &payload, &createdAtStr, &ch.RetryCount); err != nil {
			return nil, fmt.Errorf("scanning pending change: %w", err)
		}
		ch.Action = domain.ChangeAction(action)
		ch.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing pending change created_at: %w", err)
		}
		if payload.Valid && payload.String != "" {
			var rec domain.SessionRecord
			if err := json.Unmarshal([]byte(payload.String), &rec); err != nil {
				return nil, fmt.Errorf("decoding pending change payload: %w", err)
			}
			rec.Normalize()
			ch.Payload = &rec
		}
		changes = append(changes, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending changes: %w", err)
	}
	return changes, nil
}

func (q *SQLiteChangeQueue) ReplaceAll(ctx context.Context, changes []domain.PendingChange) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting queue transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_changes`); err != nil {
		return fmt.Errorf("clearing pending changes: %w", err)
	}

	for _, ch := range changes {
		var payload interface{}
		if ch.Payload != nil {
			data, err := json.Marshal(ch.Payload)
			if err != nil {
				return fmt.Errorf("encoding pending change payload: %w", err)
			}
			payload = string(data)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pending_changes (change_id, action, session_id, payload, created_at, retry_count)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ch.ChangeID,
			string(ch.Action),
			ch.SessionID,
			payload,
			ch.CreatedAt.UTC().Format(time.RFC3339Nano),
			ch.RetryCount,
		)
		if err != nil {
			return fmt.Errorf("inserting pending change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing queue transaction: %w", err)
	}
	committed = true
	return nil
}
