package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action is the kind of change an entry records.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry is one row of the audit trail: who changed what, when, and the
// before/after snapshots of the affected record.
type Entry struct {
	ID          uuid.UUID
	Module      string // "product", "sale", "order", ...
	Action      Action
	Table       string
	RecordID    string
	User        string
	OccurredAt  time.Time
	Before      json.RawMessage
	After       json.RawMessage
	Description string
	IPAddress   string
}

// Filter narrows an audit listing. Limit of zero means the default page
// size; results are newest first.
type Filter struct {
	Module *string
	Action *Action
	User   *string
	Start  *time.Time
	End    *time.Time
	Limit  int
	Offset int
}
