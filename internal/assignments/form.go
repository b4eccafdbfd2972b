package assignments

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Array-style parameters of the measures form.
const (
	ParamName          = "measure_name[]"
	ParamDescription   = "measure_description[]"
	ParamTarget        = "measure_target[]"
	ParamDepartments   = "measure_departments[]"
	ParamResponsible   = "measure_responsible[]"
	ParamParticipants  = "measure_participants[]"
	ParamUrgency       = "measure_urgency[]"
	ParamDurationDays  = "measure_duration_days[]"
	ParamTimeframeDate = "measure_timeframe_date[]"
	ParamSteps         = "measure_steps[]"
)

// Params lists every parameter that must carry one value per measure.
var Params = []string{
	ParamName,
	ParamDescription,
	ParamTarget,
	ParamDepartments,
	ParamResponsible,
	ParamParticipants,
	ParamUrgency,
	ParamDurationDays,
	ParamTimeframeDate,
	ParamSteps,
}

// DateLayout is the format of the timeframe date.
const DateLayout = "2006-01-02"

// ErrMisaligned is returned when the parallel arrays differ in length.
var ErrMisaligned = errors.New("measure fields have different lengths")

// DecodeForm reads the parallel arrays into one Submission per position.
// Parameters that are absent entirely are treated as all blank.
func DecodeForm(form url.Values) ([]Submission, error) {
	n := len(form[ParamName])
	for _, p := range Params {
		if vals, ok := form[p]; ok && len(vals) != n {
			return nil, fmt.Errorf("%w: %s has %d values, %s has %d", ErrMisaligned, p, len(vals), ParamName, n)
		}
	}

	at := func(param string, i int) string {
		vals := form[param]
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	subs := make([]Submission, 0, n)
	for i := 0; i < n; i++ {
		sub := Submission{
			Name:         at(ParamName, i),
			Description:  at(ParamDescription, i),
			Target:       at(ParamTarget, i),
			Departments:  at(ParamDepartments, i),
			Responsible:  at(ParamResponsible, i),
			Participants: at(ParamParticipants, i),
			Urgency:      parseUrgency(at(ParamUrgency, i)),
			DurationDays: at(ParamDurationDays, i),
			Steps:        splitSteps(form[ParamSteps], i),
		}
		if raw := at(ParamTimeframeDate, i); raw != "" {
			t, err := time.Parse(DateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("measure %d: invalid timeframe date %q", i+1, raw)
			}
			sub.TimeframeDate = &t
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func parseUrgency(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 3 {
		return DefaultUrgency
	}
	return n
}

func splitSteps(vals []string, i int) []string {
	if i >= len(vals) {
		return nil
	}
	var steps []string
	for _, line := range strings.Split(vals[i], "\n") {
		if t := strings.TrimSpace(line); t != "" {
			steps = append(steps, t)
		}
	}
	return steps
}
