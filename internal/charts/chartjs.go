package charts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// ChartJSURL is the Chart.js build the page loads.
const ChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

// ChartJS draws on a canvas in the browser. The server only emits the
// config object Chart.js is constructed with.
type ChartJS struct{}

// NewChartJS returns the Chart.js backend.
func NewChartJS() *ChartJS { return &ChartJS{} }

// ChartJSConfig mirrors the subset of the Chart.js configuration in use.
type ChartJSConfig struct {
	Type    string         `json:"type"`
	Data    chartJSData    `json:"data"`
	Options chartJSOptions `json:"options"`
}

type chartJSData struct {
	Labels   []string         `json:"labels"`
	Datasets []chartJSDataset `json:"datasets"`
}

type chartJSDataset struct {
	Label           string `json:"label,omitempty"`
	Data            any    `json:"data"`
	BackgroundColor any    `json:"backgroundColor,omitempty"`
	BorderColor     any    `json:"borderColor,omitempty"`
	BorderWidth     int    `json:"borderWidth"`
}

type chartJSOptions struct {
	Responsive          bool           `json:"responsive"`
	MaintainAspectRatio bool           `json:"maintainAspectRatio"`
	Scales              *chartJSScales `json:"scales,omitempty"`
	Plugins             chartJSPlugins `json:"plugins"`
}

type chartJSScales struct {
	Y chartJSAxis `json:"y"`
}

type chartJSAxis struct {
	BeginAtZero bool         `json:"beginAtZero"`
	Ticks       chartJSTicks `json:"ticks"`
}

type chartJSTicks struct {
	StepSize float64 `json:"stepSize"`
}

type chartJSPlugins struct {
	Legend chartJSLegend `json:"legend"`
}

type chartJSLegend struct {
	Display  *bool  `json:"display,omitempty"`
	Position string `json:"position,omitempty"`
}

// BarChartJS converts cfg to a Chart.js bar configuration.
func BarChartJS(cfg BarConfig) ChartJSConfig {
	display := cfg.ShowLegend
	return ChartJSConfig{
		Type: "bar",
		Data: chartJSData{
			Labels: cfg.Labels,
			Datasets: []chartJSDataset{{
				Label:           cfg.DatasetLabel,
				Data:            cfg.Values,
				BackgroundColor: cfg.Background,
				BorderColor:     cfg.Border,
				BorderWidth:     1,
			}},
		},
		Options: chartJSOptions{
			Responsive: true,
			Scales: &chartJSScales{Y: chartJSAxis{
				BeginAtZero: cfg.BeginAtZero,
				Ticks:       chartJSTicks{StepSize: cfg.StepSize},
			}},
			Plugins: chartJSPlugins{Legend: chartJSLegend{Display: &display}},
		},
	}
}

// DoughnutChartJS converts cfg to a Chart.js doughnut configuration.
func DoughnutChartJS(cfg DoughnutConfig) ChartJSConfig {
	return ChartJSConfig{
		Type: "doughnut",
		Data: chartJSData{
			Labels: cfg.Labels,
			Datasets: []chartJSDataset{{
				Data:            cfg.Values,
				BackgroundColor: cfg.Backgrounds,
				BorderColor:     cfg.Borders,
				BorderWidth:     2,
			}},
		},
		Options: chartJSOptions{
			Responsive: true,
			Plugins:    chartJSPlugins{Legend: chartJSLegend{Position: cfg.LegendPosition}},
		},
	}
}

var canvasTmpl = template.Must(template.New("canvas").Parse(
	`<canvas id="{{.ID}}"></canvas>
<script>new Chart(document.getElementById({{.ID}}).getContext("2d"), {{.Config}});</script>`))

// Name implements Backend.
func (*ChartJS) Name() string { return "chartjs" }

// Assets implements Backend.
func (*ChartJS) Assets() template.HTML {
	return template.HTML(`<script src="` + ChartJSURL + `"></script>`)
}

// Bar implements Backend.
func (c *ChartJS) Bar(el *Element, cfg BarConfig) (template.HTML, error) {
	return c.canvas(el, BarChartJS(cfg))
}

// Doughnut implements Backend.
func (c *ChartJS) Doughnut(el *Element, cfg DoughnutConfig) (template.HTML, error) {
	return c.canvas(el, DoughnutChartJS(cfg))
}

func (*ChartJS) canvas(el *Element, cfg ChartJSConfig) (template.HTML, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding chart config: %w", err)
	}
	var buf bytes.Buffer
	err = canvasTmpl.Execute(&buf, struct {
		ID     string
		Config template.JS
	}{el.ID, template.JS(raw)})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
