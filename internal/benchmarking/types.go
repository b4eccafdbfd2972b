package benchmarking

import "time"

// Role is who entered a benchmark record.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCompany Role = "company"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleCompany }

// Company is a benchmarked company.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	Industry  string    `json:"industry"`
	CreatedAt time.Time `json:"created_at"`
}

// Record is one year of benchmark data for a company.
type Record struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	DataYear      int       `json:"data_year"`
	EnteredByRole Role      `json:"entered_by_role"`
	Turnover      string    `json:"turnover"`
	Employees     int       `json:"employees"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// YearCount is the number of records for one data year.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// EntrySource counts records by who entered them.
type EntrySource struct {
	Admin   int `json:"admin"`
	Company int `json:"company"`
}

// Stats summarizes the benchmarking data.
type Stats struct {
	Companies        int         `json:"companies"`
	Records          int         `json:"records"`
	YearDistribution []YearCount `json:"year_distribution"`
	EntrySource      EntrySource `json:"entry_source"`
}

// ListFilter narrows ListRecords.
type ListFilter struct {
	CompanyID string
	Year      int
	Role      Role
	Limit     int
}
