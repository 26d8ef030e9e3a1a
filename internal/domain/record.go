package domain

import "time"

// Event is a single timestamped observation entry recorded during a session.
type Event struct {
	ID        string
	Type      string
	PartID    string
	Timestamp time.Time
	Note      string
}

// SessionPart is a named timing sub-record within a session (e.g. "Warm Up").
type SessionPart struct {
	PartID    string
	Name      string
	IsDefault bool
	CreatedAt time.Time
}

// BallInterval marks a ball-state transition: the ball started or stopped
// rolling at the given instant.
type BallInterval struct {
	Rolling bool
	At      time.Time
}

// Reflection is one free-text reflection entry, authored either by the
// observer or by the coach being observed.
type Reflection struct {
	ReflectionID string
	AuthorID     string
	Content      string
	Rating       *int
	CreatedAt    time.Time
}

// Attachment is an opaque reference to an uploaded file. Upload itself is
// handled elsewhere; the sync engine only carries the reference.
type Attachment struct {
	ID   string
	Name string
	URL  string
}

// SessionRecord is the unit of synchronization: one observed coaching
// session, including everything captured on-device while offline.
//
// UpdatedAt must reflect the most recent mutation the originating replica
// is aware of; it is the sole ordering signal during conflict resolution.
type SessionRecord struct {
	SessionID    string
	Name         string
	CoachID      string
	CoachName    string
	ObserverID   string
	ObserverName string
	Context      string
	Status       SessionStatus
	PlannedDate  string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	SessionParts []SessionPart
	StartTime    *time.Time
	EndTime      *time.Time

	// Durations in seconds, accumulated monotonically while active.
	TotalDuration      float64
	BallRollingTime    float64
	BallNotRollingTime float64

	Events         []Event
	BallRollingLog []BallInterval

	ObserverReflections []Reflection
	CoachReflections    []Reflection

	SessionNotes string
	AISummary    string
	Attachments  []Attachment
}

// SessionSummary is the list-view projection of a SessionRecord, matching
// what the remote list endpoint returns.
type SessionSummary struct {
	SessionID     string
	Name          string
	CoachID       string
	CoachName     string
	Status        SessionStatus
	Context       string
	PlannedDate   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TotalDuration float64
	EventCount    int
}

// Normalize applies defaults exactly once so that readers never need to
// guard against zero values: empty slices instead of nil, default context,
// draft status when unset.
func (r *SessionRecord) Normalize() {
	if r.Context == "" {
		r.Context = DefaultContext
	}
	if r.Status == "" {
		r.Status = SessionDraft
	}
	if r.SessionParts == nil {
		r.SessionParts = []SessionPart{}
	}
	if r.Events == nil {
		r.Events = []Event{}
	}
	if r.BallRollingLog == nil {
		r.BallRollingLog = []BallInterval{}
	}
	if r.ObserverReflections == nil {
		r.ObserverReflections = []Reflection{}
	}
	if r.CoachReflections == nil {
		r.CoachReflections = []Reflection{}
	}
	if r.Attachments == nil {
		r.Attachments = []Attachment{}
	}
}

// EventCount returns the number of recorded events. Used by the conflict
// resolver as the completeness signal.
func (r *SessionRecord) EventCount() int {
	return len(r.Events)
}

// Summary projects the record down to its list-view fields.
func (r *SessionRecord) Summary() SessionSummary {
	return SessionSummary{
		SessionID:     r.SessionID,
		Name:          r.Name,
		CoachID:       r.CoachID,
		CoachName:     r.CoachName,
		Status:        r.Status,
		Context:       r.Context,
		PlannedDate:   r.PlannedDate,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		TotalDuration: r.TotalDuration,
		EventCount:    len(r.Events),
	}
}

// Clone returns a deep copy of the record. The queue stores payload
// snapshots, so later edits to a record must not leak into queued changes.
func (r *SessionRecord) Clone() *SessionRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.SessionParts = append([]SessionPart(nil), r.SessionParts...)
	c.Events = append([]Event(nil), r.Events...)
	c.BallRollingLog = append([]BallInterval(nil), r.BallRollingLog...)
	c.ObserverReflections = cloneReflections(r.ObserverReflections)
	c.CoachReflections = cloneReflections(r.CoachReflections)
	c.Attachments = append([]Attachment(nil), r.Attachments...)
	if r.StartTime != nil {
		t := *r.StartTime
		c.StartTime = &t
	}
	if r.EndTime != nil {
		t := *r.EndTime
		c.EndTime = &t
	}
	return &c
}

func cloneReflections(in []Reflection) []Reflection {
	out := append([]Reflection(nil), in...)
	for i := range out {
		if out[i].Rating != nil {
			v := *out[i].Rating
			out[i].Rating = &v
		}
	}
	return out
}
