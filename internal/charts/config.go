package charts

// Display constants shared by every backend.
const (
	RecordsLabel        = "Records"
	AdminEnteredLabel   = "Admin Entered"
	CompanyEnteredLabel = "Company Entered"
	LegendBottom        = "bottom"
	PlaceholderText     = "No data available"
)

// BarConfig describes the year distribution chart independently of the
// charting library.
type BarConfig struct {
	Labels       []string
	Values       []float64
	DatasetLabel string
	BeginAtZero  bool
	StepSize     float64
	ShowLegend   bool
	Background   string
	Border       string
}

// DoughnutConfig describes the entry source chart.
type DoughnutConfig struct {
	Labels         []string
	Values         []int
	LegendPosition string
	Backgrounds    []string
	Borders        []string
}

// NewBarConfig builds the year distribution config from the anchor's attributes.
func NewBarConfig(el *Element) BarConfig {
	return BarConfig{
		Labels:       parseLabels(el.Dataset[AttrYearLabels]),
		Values:       parseValues(el.Dataset[AttrYearData]),
		DatasetLabel: RecordsLabel,
		BeginAtZero:  true,
		StepSize:     1,
		ShowLegend:   false,
		Background:   "rgba(54, 162, 235, 0.8)",
		Border:       "rgba(54, 162, 235, 1)",
	}
}

// NewDoughnutConfig builds the entry source config. It reports false when
// neither count is positive, in which case no chart should be drawn.
func NewDoughnutConfig(el *Element) (DoughnutConfig, bool) {
	admin := parseCount(el.Dataset[AttrAdminCount])
	company := parseCount(el.Dataset[AttrCompanyCount])
	if admin <= 0 && company <= 0 {
		return DoughnutConfig{}, false
	}
	return DoughnutConfig{
		Labels:         []string{AdminEnteredLabel, CompanyEnteredLabel},
		Values:         []int{admin, company},
		LegendPosition: LegendBottom,
		Backgrounds:    []string{"rgba(40, 167, 69, 0.8)", "rgba(23, 162, 184, 0.8)"},
		Borders:        []string{"rgba(40, 167, 69, 1)", "rgba(23, 162, 184, 1)"},
	}, true
}
