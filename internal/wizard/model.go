package wizard

import (
	"fmt"
	"strings"
)

// Field describes one measure input and the two hooks it can be looked up by.
// The block present in the initial page exposes identifier hooks; blocks
// cloned from the template only carry class hooks.
type Field struct {
	Key   string
	ID    string // identifier hook, e.g. "#m-0-name"
	Class string // class hook, e.g. ".m-name"
	Param string // array-style form field name, empty when not submitted
	Label string
}

// Measure fields in display order.
var (
	FieldName         = Field{Key: "name", ID: "#m-0-name", Class: ".m-name", Param: "measure_name[]", Label: "Name"}
	FieldDescription  = Field{Key: "description", ID: "#m-0-measure_detail", Class: ".m-detail", Param: "measure_description[]", Label: "Description"}
	FieldTarget       = Field{Key: "target", ID: "#m-0-target", Class: ".m-target", Param: "measure_target[]", Label: "Target"}
	FieldDepartments  = Field{Key: "departments", ID: "#m-0-departments", Class: ".m-departments", Param: "measure_departments[]", Label: "Departments"}
	FieldResponsible  = Field{Key: "responsible", ID: "#m-0-responsible", Class: ".m-responsible", Param: "measure_responsible[]", Label: "Responsible"}
	FieldParticipants = Field{Key: "participants", ID: "#m-0-participants", Class: ".m-participants", Param: "measure_participants[]", Label: "Participants"}
	FieldUrgency      = Field{Key: "urgency", ID: "#m-0-urgency", Class: ".m-urgency", Param: "measure_urgency[]", Label: "Urgency"}
	// Start date is shown in the form but the backend has no column for it.
	FieldStartDate = Field{Key: "start_date", ID: "#m-0-start-date", Class: ".m-start-date", Label: "Start date"}
	FieldEndDate   = Field{Key: "end_date", ID: "#m-0-end-date", Class: ".m-end-date", Param: ParamTimeframeDate, Label: "End date"}
)

// Fields lists every measure input.
var Fields = []Field{
	FieldName,
	FieldDescription,
	FieldTarget,
	FieldDepartments,
	FieldResponsible,
	FieldParticipants,
	FieldUrgency,
	FieldStartDate,
	FieldEndDate,
}

// FieldByKey returns the field with the given key.
func FieldByKey(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Measure is one measure block in the wizard.
type Measure struct {
	ID     string
	Order  int
	Static bool
	Steps  []*Step

	inputs   map[string]string // keyed by hook selector
	sortable bool
}

func newMeasure(id string, static bool) *Measure {
	return &Measure{ID: id, Static: static, inputs: make(map[string]string)}
}

// Label is the 1-based display label derived from Order.
func (m *Measure) Label() string {
	return fmt.Sprintf("Measure %d", m.Order+1)
}

// Set stores a raw input value under the hook this block exposes.
func (m *Measure) Set(f Field, value string) {
	if m.Static {
		m.inputs[f.ID] = value
		return
	}
	m.inputs[f.Class] = value
}

// Value looks the field up by identifier hook, then by class hook, and
// falls back to "". Values are trimmed.
func (m *Measure) Value(f Field) string {
	if v := strings.TrimSpace(m.inputs[f.ID]); v != "" {
		return v
	}
	return strings.TrimSpace(m.inputs[f.Class])
}

// Raw returns the untrimmed value for redisplay in the form.
func (m *Measure) Raw(f Field) string {
	if m.Static {
		return m.inputs[f.ID]
	}
	return m.inputs[f.Class]
}

// Hook returns the selector the block exposes for f.
func (m *Measure) Hook(f Field) string {
	if m.Static {
		return f.ID
	}
	return f.Class
}

// StepsSortable reports whether the step list has been registered for drag-and-drop.
func (m *Measure) StepsSortable() bool { return m.sortable }

func (m *Measure) stepIndex(id string) int {
	for i, s := range m.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Step is one ordered sub-task of a measure.
type Step struct {
	ID    string
	Order int
	Title string
}

// Label is the 1-based display label derived from Order.
func (s *Step) Label() string {
	return fmt.Sprintf("Step %d", s.Order+1)
}
