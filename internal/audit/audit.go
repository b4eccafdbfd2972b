package audit

import (
	"encoding/json"
	"time"
)

// Action describes what was done.
type Action string

const (
	ActionMeasureAdded       Action = "measure_added"
	ActionMeasureRemoved     Action = "measure_removed"
	ActionStepAdded          Action = "step_added"
	ActionStepRemoved        Action = "step_removed"
	ActionMeasuresReordered  Action = "measures_reordered"
	ActionWizardSubmitted    Action = "wizard_submitted"
	ActionAssignmentsCreated Action = "assignments_created"
	ActionRecordSaved        Action = "record_saved"
)

// EntityType names the kind of object an action touched.
type EntityType string

const (
	EntityCompany    EntityType = "company"
	EntityMeasure    EntityType = "measure"
	EntityStep       EntityType = "step"
	EntityAssignment EntityType = "assignment"
	EntityRecord     EntityType = "benchmark_record"
)

// Entry is a single activity log record.
type Entry struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Actor      string          `json:"actor"`
	Action     Action          `json:"action"`
	EntityType EntityType      `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Summary    string          `json:"summary"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}
