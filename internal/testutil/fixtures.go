package testutil

import (
	"fmt"
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/google/uuid"
)

// Record options
type RecordOption func(*domain.SessionRecord)

func WithUpdatedAt(t time.Time) RecordOption {
	return func(r *domain.SessionRecord) {
		r.UpdatedAt = t
	}
}

func WithRecordStatus(s domain.SessionStatus) RecordOption {
	return func(r *domain.SessionRecord) {
		r.Status = s
	}
}

// WithEvents populates n synthetic events spaced one second apart.
func WithEvents(n int) RecordOption {
	return func(r *domain.SessionRecord) {
		base := r.CreatedAt
		events := make([]domain.Event, 0, n)
		for i := 0; i < n; i++ {
			events = append(events, domain.Event{
				ID:        fmt.Sprintf("%s-evt-%d", r.SessionID, i+1),
				Type:      "cmd",
				Timestamp: base.Add(time.Duration(i) * time.Second),
			})
		}
		r.Events = events
	}
}

func WithDurations(total, rolling, notRolling float64) RecordOption {
	return func(r *domain.SessionRecord) {
		r.TotalDuration = total
		r.BallRollingTime = rolling
		r.BallNotRollingTime = notRolling
	}
}

func WithSessionNotes(notes string) RecordOption {
	return func(r *domain.SessionRecord) {
		r.SessionNotes = notes
	}
}

func WithObserverReflection(id, content string) RecordOption {
	return func(r *domain.SessionRecord) {
		r.ObserverReflections = append(r.ObserverReflections, domain.Reflection{
			ReflectionID: id,
			Content:      content,
			CreatedAt:    r.CreatedAt,
		})
	}
}

func WithBallLog(n int) RecordOption {
	return func(r *domain.SessionRecord) {
		log := make([]domain.BallInterval, 0, n)
		for i := 0; i < n; i++ {
			log = append(log, domain.BallInterval{
				Rolling: i%2 == 0,
				At:      r.CreatedAt.Add(time.Duration(i) * 30 * time.Second),
			})
		}
		r.BallRollingLog = log
	}
}

// NewTestRecord builds a normalized session record with stable defaults.
func NewTestRecord(name string, opts ...RecordOption) *domain.SessionRecord {
	now := time.Now().UTC().Truncate(time.Second)
	r := &domain.SessionRecord{
		SessionID:  "sess_" + uuid.New().String()[:8],
		Name:       name,
		ObserverID: "obs_test",
		Context:    domain.DefaultContext,
		Status:     domain.SessionDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Normalize()
	return r
}
