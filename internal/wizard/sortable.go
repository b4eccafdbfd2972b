package wizard

// ContainerID is the list holding the measure blocks.
const ContainerID = "measures-container"

// SortTarget describes a list registered for drag-and-drop reordering.
type SortTarget struct {
	List   string // list element identifier
	Handle string // drag handle selector
	Ghost  string // class applied to the dragged placeholder
}

// Sorter registers lists with a drag-and-drop library. onEnd must be invoked
// synchronously after a drop has been applied.
type Sorter interface {
	Attach(target SortTarget, onEnd func())
}

// StepListID returns the identifier of a measure's step list.
func StepListID(measureID string) string {
	return "steps-" + measureID
}

func containerTarget() SortTarget {
	return SortTarget{List: ContainerID, Handle: ".card-title", Ghost: "dragging"}
}

func stepTarget(measureID string) SortTarget {
	return SortTarget{List: StepListID(measureID), Handle: ".step-number", Ghost: "dragging"}
}

// Registry is a Sorter that records registrations so a page can emit the
// matching drag-and-drop markup.
type Registry struct {
	targets map[string]SortTarget
	order   []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]SortTarget)}
}

// Attach records target. Registering the same list twice is a no-op.
func (r *Registry) Attach(target SortTarget, _ func()) {
	if _, ok := r.targets[target.List]; ok {
		return
	}
	r.targets[target.List] = target
	r.order = append(r.order, target.List)
}

// Lookup returns the registration for a list.
func (r *Registry) Lookup(list string) (SortTarget, bool) {
	t, ok := r.targets[list]
	return t, ok
}

// Targets returns registrations in attach order.
func (r *Registry) Targets() []SortTarget {
	out := make([]SortTarget, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.targets[id])
	}
	return out
}
