package wizard

import (
	"net/url"
	"strings"
)

// Array-style parameters that have no input of their own.
const (
	ParamDurationDays  = "measure_duration_days[]"
	ParamTimeframeDate = "measure_timeframe_date[]"
	ParamSteps         = "measure_steps[]"
)

// DefaultUrgency is submitted when the urgency input is blank.
const DefaultUrgency = "2"

// SubmittedParams lists every array-style parameter emitted per measure, in
// emission order.
var SubmittedParams = []string{
	FieldName.Param,
	FieldDescription.Param,
	FieldTarget.Param,
	FieldDepartments.Param,
	FieldResponsible.Param,
	FieldParticipants.Param,
	FieldUrgency.Param,
	ParamDurationDays,
	ParamTimeframeDate,
	ParamSteps,
}

// Serialize reindexes and flattens every measure, in display order, into
// positionally aligned array-style fields.
func (w *Wizard) Serialize() url.Values {
	w.Reindex()
	form := url.Values{}
	for _, m := range w.measures {
		appendMeasure(form, m)
	}
	return form
}

func appendMeasure(form url.Values, m *Measure) {
	urgency := m.Value(FieldUrgency)
	if urgency == "" {
		urgency = DefaultUrgency
	}

	form.Add(FieldName.Param, m.Value(FieldName))
	form.Add(FieldDescription.Param, m.Value(FieldDescription))
	form.Add(FieldTarget.Param, m.Value(FieldTarget))
	form.Add(FieldDepartments.Param, m.Value(FieldDepartments))
	form.Add(FieldResponsible.Param, m.Value(FieldResponsible))
	form.Add(FieldParticipants.Param, m.Value(FieldParticipants))
	form.Add(FieldUrgency.Param, urgency)
	// Duration stays empty; the backend derives the timeframe from the end date.
	form.Add(ParamDurationDays, "")
	form.Add(ParamTimeframeDate, m.Value(FieldEndDate))
	form.Add(ParamSteps, StepsBlob(m.Steps))
}

// StepsBlob joins trimmed, non-blank step titles with newlines.
func StepsBlob(steps []*Step) string {
	titles := make([]string, 0, len(steps))
	for _, s := range steps {
		if t := strings.TrimSpace(s.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return strings.Join(titles, "\n")
}
