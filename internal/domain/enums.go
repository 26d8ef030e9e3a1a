package domain

type SessionStatus string

const (
	SessionDraft     SessionStatus = "draft"
	SessionPlanned   SessionStatus = "planned"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// ValidSessionStatuses is the canonical set of accepted session status strings.
var ValidSessionStatuses = map[string]bool{
	"draft": true, "planned": true, "active": true, "completed": true,
}

type ChangeAction string

const (
	ActionUpsert ChangeAction = "upsert"
	ActionDelete ChangeAction = "delete"
)

// DefaultContext is the observation context applied when none is set.
const DefaultContext = "training"
