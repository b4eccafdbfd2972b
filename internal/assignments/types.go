package assignments

import "time"

// StatusInProgress is the status of a newly assigned measure.
const StatusInProgress = "In Progress"

// DefaultUrgency applies when the submitted urgency is blank or out of range.
const DefaultUrgency = 2

// Assignment is a measure assigned to a company.
type Assignment struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"company_id"`
	Position      int        `json:"position"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Target        string     `json:"target"`
	Departments   string     `json:"departments"`
	Responsible   string     `json:"responsible"`
	Participants  string     `json:"participants"`
	Urgency       int        `json:"urgency"`
	TimeframeDate *time.Time `json:"timeframe_date,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	Steps         []Step     `json:"steps"`
}

// Step is one ordered sub-task of an assignment.
type Step struct {
	ID           string `json:"id"`
	AssignmentID string `json:"assignment_id"`
	Step         int    `json:"step"`
	Title        string `json:"title"`
	Completed    bool   `json:"is_completed"`
}

// Submission is one measure decoded from the array-style form.
type Submission struct {
	Name          string
	Description   string
	Target        string
	Departments   string
	Responsible   string
	Participants  string
	Urgency       int
	DurationDays  string
	TimeframeDate *time.Time
	Steps         []string
}
