package events

import "time"

const (
	ActionNoteCreated    = "note.created"
	ActionNoteUpdated    = "note.updated"
	ActionNoteDeleted    = "note.deleted"
	ActionPlanUpgraded   = "plan.upgraded"
	ActionPlanDowngraded = "plan.downgraded"
)

// Event is one audit record. SubjectID is the note or user the action was
// applied to; ActorID is the authenticated user who performed it.
type Event struct {
	ID        string    `msgpack:"id"`
	Action    string    `msgpack:"action"`
	TenantID  string    `msgpack:"tenant_id"`
	ActorID   string    `msgpack:"actor_id"`
	SubjectID string    `msgpack:"subject_id"`
	At        time.Time `msgpack:"at"`
}

type Publisher interface {
	Publish(ev Event) error
	Close() error
}

// Nop is used when no NATS_URL is configured.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
func (Nop) Close() error        { return nil }
