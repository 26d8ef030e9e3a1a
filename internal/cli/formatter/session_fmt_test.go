package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldcoach/coachsync/internal/domain"
	"github.com/fieldcoach/coachsync/internal/syncer"
)

func TestSummaryTableEmpty(t *testing.T) {
	out := SummaryTable(nil)
	assert.Contains(t, out, "No sessions found")
}

func TestSummaryTableListsEverySession(t *testing.T) {
	out := SummaryTable([]domain.SessionSummary{
		{SessionID: "sess_aaaa1111", Name: "U12 Passing", CoachName: "Sam", Status: domain.SessionActive, EventCount: 7},
		{SessionID: "sess_bbbb2222", Name: "Scrimmage", Status: domain.SessionCompleted, TotalDuration: 3725},
	})
	assert.Contains(t, out, "U12 Passing")
	assert.Contains(t, out, "Scrimmage")
	assert.Contains(t, out, "Sam")
	assert.Contains(t, out, "1h 02m 05s")
}

func TestRecordDetailIncludesNotesAndTimings(t *testing.T) {
	rec := &domain.SessionRecord{
		SessionID:       "sess_detail",
		Name:            "Evening drills",
		Status:          domain.SessionCompleted,
		Context:         "match",
		CoachName:       "Alex",
		BallRollingTime: 95,
		SessionNotes:    "strong second half",
		UpdatedAt:       time.Now(),
	}
	out := RecordDetail(rec)
	assert.Contains(t, out, "Evening drills")
	assert.Contains(t, out, "Alex")
	assert.Contains(t, out, "1m 35s")
	assert.Contains(t, out, "strong second half")
}

func TestQueueTable(t *testing.T) {
	assert.Contains(t, QueueTable(nil), "Nothing pending")

	out := QueueTable([]domain.PendingChange{
		{ChangeID: "c1", SessionID: "sess_queued", Action: domain.ActionUpsert, CreatedAt: time.Now()},
		{ChangeID: "c2", SessionID: "sess_gone", Action: domain.ActionDelete, CreatedAt: time.Now(), RetryCount: 2},
	})
	assert.Contains(t, out, "upsert")
	assert.Contains(t, out, "delete")
	assert.Contains(t, out, "2")
}

func TestStatusView(t *testing.T) {
	out := StatusView(syncer.StateConflict, time.Now().Add(-2*time.Hour), 3, []string{"sess_x"})
	assert.Contains(t, out, "CONFLICT")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "sess_x")
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0s", FormatSeconds(0))
	assert.Equal(t, "45s", FormatSeconds(45.7))
	assert.Equal(t, "2m 05s", FormatSeconds(125))
	assert.Equal(t, "1h 00m 01s", FormatSeconds(3601))
}
