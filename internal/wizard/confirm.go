package wizard

// TargetKind discriminates what a deletion request removes.
type TargetKind string

const (
	TargetMeasure TargetKind = "measure"
	TargetStep    TargetKind = "step"
)

// DeleteMessage is shown by every confirmation affordance.
const DeleteMessage = "Are you sure you want to delete?"

// Request is a deletion awaiting confirmation. It carries the deferred
// removal so that confirming never has to look anything up again.
type Request struct {
	Kind      TargetKind
	MeasureID string
	StepID    string
	Message   string

	run func()
}

// Outcome reports what happened to a Request handed to the Coordinator.
type Outcome int

const (
	// OutcomePending means the request is waiting on the toast.
	OutcomePending Outcome = iota
	// OutcomeConfirmed means the removal ran.
	OutcomeConfirmed
	// OutcomeDeclined means the blocking prompt was refused.
	OutcomeDeclined
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeConfirmed:
		return "confirmed"
	default:
		return "declined"
	}
}

// Toast is a non-blocking confirmation affordance.
type Toast interface {
	Show(req Request)
	Hide()
}

// Prompter is a blocking yes/no confirmation.
type Prompter interface {
	Confirm(message string) bool
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(message string) bool

// Confirm calls f(message).
func (f PrompterFunc) Confirm(message string) bool { return f(message) }

// Coordinator tracks at most one pending deletion. When a toast is available
// requests wait on it; otherwise the prompter decides synchronously.
type Coordinator struct {
	toast   Toast
	prompt  Prompter
	pending *Request
}

// NewCoordinator creates a Coordinator. Either argument may be nil; with
// neither, every request is declined.
func NewCoordinator(toast Toast, prompt Prompter) *Coordinator {
	return &Coordinator{toast: toast, prompt: prompt}
}

// Request hands req to the toast, replacing any pending request, or asks the
// prompter and runs the removal immediately on approval.
func (c *Coordinator) Request(req Request) Outcome {
	if req.Message == "" {
		req.Message = DeleteMessage
	}
	if c.toast != nil {
		c.pending = &req
		c.toast.Show(req)
		return OutcomePending
	}
	if c.prompt != nil && c.prompt.Confirm(req.Message) {
		req.run()
		return OutcomeConfirmed
	}
	return OutcomeDeclined
}

// Pending returns the request waiting on the toast, if any.
func (c *Coordinator) Pending() (Request, bool) {
	if c.pending == nil {
		return Request{}, false
	}
	return *c.pending, true
}

// Confirm runs the pending removal once and clears it.
func (c *Coordinator) Confirm() error {
	if c.pending == nil {
		return ErrNoPendingRequest
	}
	req := c.pending
	c.pending = nil
	req.run()
	if c.toast != nil {
		c.toast.Hide()
	}
	return nil
}

// Dismiss clears the pending request without running it.
func (c *Coordinator) Dismiss() {
	c.pending = nil
	if c.toast != nil {
		c.toast.Hide()
	}
}

// Banner is a Toast for server-rendered pages: it only remembers what the
// next render should show.
type Banner struct {
	visible bool
	message string
	kind    TargetKind
}

// Show marks the banner visible for req.
func (b *Banner) Show(req Request) {
	b.visible = true
	b.message = req.Message
	b.kind = req.Kind
}

// Hide marks the banner hidden.
func (b *Banner) Hide() {
	b.visible = false
	b.message = ""
	b.kind = ""
}

// Visible reports whether the banner should be rendered.
func (b *Banner) Visible() bool { return b.visible }

// Message is the text of the visible banner.
func (b *Banner) Message() string { return b.message }

// Kind is the target kind of the visible banner.
func (b *Banner) Kind() TargetKind { return b.kind }
