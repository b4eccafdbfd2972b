// Package wizard implements the multi-step measures wizard: an ordered list
// of measure blocks, each with an ordered list of steps, that is flattened
// into the legacy array-style form contract on submit.
package wizard

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a measure or step ID is unknown.
	ErrNotFound = errors.New("not found")
	// ErrNotImplemented is returned by features that are not available yet.
	ErrNotImplemented = errors.New("add existing measure: not implemented yet")
	// ErrNoPendingRequest is returned by Confirm when nothing awaits confirmation.
	ErrNoPendingRequest = errors.New("no deletion pending")
	// ErrInvalidOrder is returned when a reorder does not list exactly the current items.
	ErrInvalidOrder = errors.New("order does not match current items")
)

// Wizard holds the measures being edited. It is not safe for concurrent use;
// callers serialize access the way a page serializes its event handlers.
type Wizard struct {
	measures []*Measure
	confirm  *Coordinator
	sorter   Sorter
	newID    func() string
	onIndex  func()
	log      *slog.Logger
	static   bool
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithConfirmation sets the deletion affordances.
func WithConfirmation(toast Toast, prompt Prompter) Option {
	return func(w *Wizard) { w.confirm = NewCoordinator(toast, prompt) }
}

// WithSorter sets the drag-and-drop registrar.
func WithSorter(s Sorter) Option {
	return func(w *Wizard) { w.sorter = s }
}

// WithIDGenerator replaces uuid-based IDs.
func WithIDGenerator(fn func() string) Option {
	return func(w *Wizard) { w.newID = fn }
}

// WithReindexHook registers fn to run after every reindex.
func WithReindexHook(fn func()) Option {
	return func(w *Wizard) { w.onIndex = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Wizard) { w.log = l }
}

// WithStaticMeasure starts the wizard with the block that the initial page
// markup carries. That block is looked up by identifier hooks.
func WithStaticMeasure() Option {
	return func(w *Wizard) { w.static = true }
}

// New creates a Wizard, registers its container for reordering, wires the
// initial block and reindexes.
func New(opts ...Option) *Wizard {
	w := &Wizard{
		newID: func() string { return uuid.New().String() },
		log:   slog.Default().With("module", "wizard"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.confirm == nil {
		w.confirm = NewCoordinator(nil, nil)
	}

	if w.static {
		w.measures = append(w.measures, newMeasure(w.newID(), true))
	}
	if w.sorter != nil {
		w.sorter.Attach(containerTarget(), w.Reindex)
	}
	for _, m := range w.measures {
		w.wire(m)
	}
	w.Reindex()
	return w
}

// wire registers the measure's step list for reordering, at most once.
func (w *Wizard) wire(m *Measure) {
	if w.sorter == nil || m.sortable {
		return
	}
	w.sorter.Attach(stepTarget(m.ID), w.Reindex)
	m.sortable = true
}

// Reindex recomputes every order from list position.
func (w *Wizard) Reindex() {
	for mi, m := range w.measures {
		m.Order = mi
		for si, s := range m.Steps {
			s.Order = si
		}
	}
	if w.onIndex != nil {
		w.onIndex()
	}
}

// Len returns the number of measures.
func (w *Wizard) Len() int { return len(w.measures) }

// Measures returns the measures in display order.
func (w *Wizard) Measures() []*Measure {
	out := make([]*Measure, len(w.measures))
	copy(out, w.measures)
	return out
}

// Measure returns the measure with the given ID.
func (w *Wizard) Measure(id string) (*Measure, bool) {
	i := w.measureIndex(id)
	if i < 0 {
		return nil, false
	}
	return w.measures[i], true
}

func (w *Wizard) measureIndex(id string) int {
	for i, m := range w.measures {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// AddMeasure appends a block cloned from the template.
func (w *Wizard) AddMeasure() *Measure {
	m := newMeasure(w.newID(), false)
	w.measures = append(w.measures, m)
	w.wire(m)
	w.Reindex()
	w.log.Debug("measure added", "measure_id", m.ID, "count", len(w.measures))
	return m
}

// AddExistingMeasure is reserved for picking a measure from the catalogue.
// It changes nothing and reports ErrNotImplemented.
func (w *Wizard) AddExistingMeasure() error {
	return ErrNotImplemented
}

// AddStep appends an empty step to the measure.
func (w *Wizard) AddStep(measureID string) (*Step, error) {
	m, ok := w.Measure(measureID)
	if !ok {
		w.log.Warn("add step: measure not found", "measure_id", measureID)
		return nil, ErrNotFound
	}
	s := &Step{ID: w.newID()}
	m.Steps = append(m.Steps, s)
	w.wire(m)
	w.Reindex()
	return s, nil
}

// SetValue stores a field value on the measure.
func (w *Wizard) SetValue(measureID string, f Field, value string) error {
	m, ok := w.Measure(measureID)
	if !ok {
		return ErrNotFound
	}
	m.Set(f, value)
	return nil
}

// SetStepTitle stores a step title.
func (w *Wizard) SetStepTitle(measureID, stepID, title string) error {
	m, ok := w.Measure(measureID)
	if !ok {
		return ErrNotFound
	}
	i := m.stepIndex(stepID)
	if i < 0 {
		return ErrNotFound
	}
	m.Steps[i].Title = title
	return nil
}

// RequestRemoveMeasure asks for confirmation before removing the measure.
func (w *Wizard) RequestRemoveMeasure(measureID string) (Outcome, error) {
	if w.measureIndex(measureID) < 0 {
		return OutcomeDeclined, ErrNotFound
	}
	return w.confirm.Request(Request{
		Kind:      TargetMeasure,
		MeasureID: measureID,
		run: func() {
			if i := w.measureIndex(measureID); i >= 0 {
				w.measures = append(w.measures[:i], w.measures[i+1:]...)
				w.Reindex()
			}
		},
	}), nil
}

// RequestRemoveStep asks for confirmation before removing the step.
func (w *Wizard) RequestRemoveStep(measureID, stepID string) (Outcome, error) {
	m, ok := w.Measure(measureID)
	if !ok || m.stepIndex(stepID) < 0 {
		return OutcomeDeclined, ErrNotFound
	}
	return w.confirm.Request(Request{
		Kind:      TargetStep,
		MeasureID: measureID,
		StepID:    stepID,
		run: func() {
			if i := m.stepIndex(stepID); i >= 0 {
				m.Steps = append(m.Steps[:i], m.Steps[i+1:]...)
				w.Reindex()
			}
		},
	}), nil
}

// Pending returns the deletion awaiting confirmation.
func (w *Wizard) Pending() (Request, bool) { return w.confirm.Pending() }

// Confirm runs the pending deletion.
func (w *Wizard) Confirm() error { return w.confirm.Confirm() }

// Dismiss drops the pending deletion.
func (w *Wizard) Dismiss() { w.confirm.Dismiss() }

// MoveMeasure moves a measure to position to (clamped) and reindexes.
func (w *Wizard) MoveMeasure(measureID string, to int) error {
	from := w.measureIndex(measureID)
	if from < 0 {
		return ErrNotFound
	}
	w.measures = move(w.measures, from, to)
	w.Reindex()
	return nil
}

// MoveStep moves a step within its measure to position to (clamped) and reindexes.
func (w *Wizard) MoveStep(measureID, stepID string, to int) error {
	m, ok := w.Measure(measureID)
	if !ok {
		return ErrNotFound
	}
	from := m.stepIndex(stepID)
	if from < 0 {
		return ErrNotFound
	}
	m.Steps = move(m.Steps, from, to)
	w.Reindex()
	return nil
}

// ReorderMeasures applies a full drop order, as reported by the drag-and-drop
// library, and reindexes.
func (w *Wizard) ReorderMeasures(ids []string) error {
	reordered, err := permute(w.measures, ids, func(m *Measure) string { return m.ID })
	if err != nil {
		return err
	}
	w.measures = reordered
	w.Reindex()
	return nil
}

// ReorderSteps applies a full drop order to a measure's steps and reindexes.
func (w *Wizard) ReorderSteps(measureID string, ids []string) error {
	m, ok := w.Measure(measureID)
	if !ok {
		return ErrNotFound
	}
	reordered, err := permute(m.Steps, ids, func(s *Step) string { return s.ID })
	if err != nil {
		return err
	}
	m.Steps = reordered
	w.Reindex()
	return nil
}

func move[T any](items []T, from, to int) []T {
	if to < 0 {
		to = 0
	}
	if to > len(items)-1 {
		to = len(items) - 1
	}
	if from == to {
		return items
	}
	item := items[from]
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

func permute[T any](items []T, ids []string, idOf func(T) string) ([]T, error) {
	if len(ids) != len(items) {
		return nil, ErrInvalidOrder
	}
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	out := make([]T, 0, len(items))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, ErrInvalidOrder
		}
		delete(byID, id)
		out = append(out, it)
	}
	return out, nil
}
