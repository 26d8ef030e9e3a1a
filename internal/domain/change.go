package domain

import "time"

// PendingChange is a queued, not-yet-acknowledged local mutation.
//
// At most one PendingChange exists per session id at any time; the last
// enqueue for a session wins. A delete is authoritative over earlier
// upserts: enqueuing it removes any pending upsert for the same id.
type PendingChange struct {
	ChangeID  string
	Action    ChangeAction
	SessionID string
	// Payload is the full record snapshot for upserts, nil for deletes.
	Payload    *SessionRecord
	CreatedAt  time.Time
	RetryCount int
}
