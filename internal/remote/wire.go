package remote

import (
	"time"

	"github.com/fieldcoach/coachsync/internal/domain"
)

// Wire types mirror the remote service's snake_case JSON exactly. The
// projection between wire and domain shapes is total and reversible: every
// field round-trips without loss.

type wireEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	PartID    string    `json:"part_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

type wirePart struct {
	PartID    string    `json:"part_id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

type wireBallInterval struct {
	Rolling bool      `json:"rolling"`
	At      time.Time `json:"at"`
}

type wireReflection struct {
	ReflectionID string    `json:"reflection_id"`
	AuthorID     string    `json:"author_id,omitempty"`
	Content      string    `json:"content"`
	Rating       *int      `json:"self_assessment_rating,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type wireAttachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type wireRecord struct {
	SessionID          string             `json:"session_id"`
	Name               string             `json:"name"`
	CoachID            string             `json:"coach_id,omitempty"`
	CoachName          string             `json:"coach_name,omitempty"`
	ObserverID         string             `json:"observer_id,omitempty"`
	ObserverName       string             `json:"observer_name,omitempty"`
	Context            string             `json:"observation_context"`
	Status             string             `json:"status"`
	PlannedDate        string             `json:"planned_date,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	SessionParts       []wirePart         `json:"session_parts"`
	StartTime          *time.Time         `json:"start_time,omitempty"`
	EndTime            *time.Time         `json:"end_time,omitempty"`
	TotalDuration      float64            `json:"total_duration"`
	BallRollingTime    float64            `json:"ball_rolling_time"`
	BallNotRollingTime float64            `json:"ball_not_rolling_time"`
	Events             []wireEvent        `json:"events"`
	BallRollingLog     []wireBallInterval `json:"ball_rolling_log"`
	ObserverReflection []wireReflection   `json:"observer_reflections"`
	CoachReflections   []wireReflection   `json:"coach_reflections"`
	SessionNotes       string             `json:"session_notes"`
	AISummary          string             `json:"ai_summary"`
	Attachments        []wireAttachment   `json:"attachments"`
}

type wireSummary struct {
	SessionID     string    `json:"session_id"`
	Name          string    `json:"name"`
	CoachID       string    `json:"coach_id,omitempty"`
	CoachName     string    `json:"coach_name,omitempty"`
	Status        string    `json:"status"`
	Context       string    `json:"observation_context"`
	PlannedDate   string    `json:"planned_date,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	TotalDuration float64   `json:"total_duration"`
	EventCount    int       `json:"event_count"`
}

type wireUpsertResponse struct {
	Success   bool      `json:"success"`
	SessionID string    `json:"session_id"`
	SyncedAt  time.Time `json:"synced_at"`
}

type wireErrorBody struct {
	Detail string `json:"detail"`
}

func recordToWire(r *domain.SessionRecord) wireRecord {
	w := wireRecord{
		SessionID:          r.SessionID,
		Name:               r.Name,
		CoachID:            r.CoachID,
		CoachName:          r.CoachName,
		ObserverID:         r.ObserverID,
		ObserverName:       r.ObserverName,
		Context:            r.Context,
		Status:             string(r.Status),
		PlannedDate:        r.PlannedDate,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		TotalDuration:      r.TotalDuration,
		BallRollingTime:    r.BallRollingTime,
		BallNotRollingTime: r.BallNotRollingTime,
		SessionNotes:       r.SessionNotes,
		AISummary:          r.AISummary,
		SessionParts:       make([]wirePart, 0, len(r.SessionParts)),
		Events:             make([]wireEvent, 0, len(r.Events)),
		BallRollingLog:     make([]wireBallInterval, 0, len(r.BallRollingLog)),
		ObserverReflection: make([]wireReflection, 0, len(r.ObserverReflections)),
		CoachReflections:   make([]wireReflection, 0, len(r.CoachReflections)),
		Attachments:        make([]wireAttachment, 0, len(r.Attachments)),
	}
	for _, p := range r.SessionParts {
		w.SessionParts = append(w.SessionParts, wirePart{
			PartID: p.PartID, Name: p.Name, IsDefault: p.IsDefault, CreatedAt: p.CreatedAt,
		})
	}
	for _, e := range r.Events {
		w.Events = append(w.Events, wireEvent{
			ID: e.ID, Type: e.Type, PartID: e.PartID, Timestamp: e.Timestamp, Note: e.Note,
		})
	}
	for _, b := range r.BallRollingLog {
		w.BallRollingLog = append(w.BallRollingLog, wireBallInterval{Rolling: b.Rolling, At: b.At})
	}
	w.ObserverReflection = reflectionsToWire(r.ObserverReflections)
	w.CoachReflections = reflectionsToWire(r.CoachReflections)
	for _, a := range r.Attachments {
		w.Attachments = append(w.Attachments, wireAttachment{ID: a.ID, Name: a.Name, URL: a.URL})
	}
	return w
}

func wireToRecord(w wireRecord) *domain.SessionRecord {
	r := &domain.SessionRecord{
		SessionID:          w.SessionID,
		Name:               w.Name,
		CoachID:            w.CoachID,
		CoachName:          w.CoachName,
		ObserverID:         w.ObserverID,
		ObserverName:       w.ObserverName,
		Context:            w.Context,
		Status:             domain.SessionStatus(w.Status),
		PlannedDate:        w.PlannedDate,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
		StartTime:          w.StartTime,
		EndTime:            w.EndTime,
		TotalDuration:      w.TotalDuration,
		BallRollingTime:    w.BallRollingTime,
		BallNotRollingTime: w.BallNotRollingTime,
		SessionNotes:       w.SessionNotes,
		AISummary:          w.AISummary,
	}
	for _, p := range w.SessionParts {
		r.SessionParts = append(r.SessionParts, domain.SessionPart{
			PartID: p.PartID, Name: p.Name, IsDefault: p.IsDefault, CreatedAt: p.CreatedAt,
		})
	}
	for _, e := range w.Events {
		r.Events = append(r.Events, domain.Event{
			ID: e.ID, Type: e.Type, PartID: e.PartID, Timestamp: e.Timestamp, Note: e.Note,
		})
	}
	for _, b := range w.BallRollingLog {
		r.BallRollingLog = append(r.BallRollingLog, domain.BallInterval{Rolling: b.Rolling, At: b.At})
	}
	r.ObserverReflections = wireToReflections(w.ObserverReflection)
	r.CoachReflections = wireToReflections(w.CoachReflections)
	for _, a := range w.Attachments {
		r.Attachments = append(r.Attachments, domain.Attachment{ID: a.ID, Name: a.Name, URL: a.URL})
	}
	r.Normalize()
	return r
}

func reflectionsToWire(in []domain.Reflection) []wireReflection {
	out := make([]wireReflection, 0, len(in))
	for _, rf := range in {
		out = append(out, wireReflection{
			ReflectionID: rf.ReflectionID,
			AuthorID:     rf.AuthorID,
			Content:      rf.Content,
			Rating:       rf.Rating,
			CreatedAt:    rf.CreatedAt,
		})
	}
	return out
}

func wireToReflections(in []wireReflection) []domain.Reflection {
	var out []domain.Reflection
	for _, rf := range in {
		out = append(out, domain.Reflection{
			ReflectionID: rf.ReflectionID,
			AuthorID:     rf.AuthorID,
			Content:      rf.Content,
			Rating:       rf.Rating,
			CreatedAt:    rf.CreatedAt,
		})
	}
	return out
}

func summaryFromWire(w wireSummary) domain.SessionSummary {
	return domain.SessionSummary{
		SessionID:     w.SessionID,
		Name:          w.Name,
		CoachID:       w.CoachID,
		CoachName:     w.CoachName,
		Status:        domain.SessionStatus(w.Status),
		Context:       w.Context,
		PlannedDate:   w.PlannedDate,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
		TotalDuration: w.TotalDuration,
		EventCount:    w.EventCount,
	}
}
