package charts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	gocharts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EChartsURL is the ECharts build the page loads.
const EChartsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// ECharts builds the option object server-side with go-echarts and embeds it
// next to a sized container.
type ECharts struct {
	Width  string
	Height string
}

// NewECharts returns the ECharts backend with the default widget size.
func NewECharts() *ECharts {
	return &ECharts{Width: "100%", Height: "300px"}
}

var echartsTmpl = template.Must(template.New("echarts").Parse(
	`<div id="{{.ID}}" style="width:{{.Width}};height:{{.Height}};"></div>
<script>echarts.init(document.getElementById({{.ID}})).setOption({{.Option}});</script>`))

// Name implements Backend.
func (*ECharts) Name() string { return "echarts" }

// Assets implements Backend.
func (*ECharts) Assets() template.HTML {
	return template.HTML(`<script src="` + EChartsURL + `"></script>`)
}

func (e *ECharts) init(el *Element) gocharts.GlobalOpts {
	return gocharts.WithInitializationOpts(opts.Initialization{
		ChartID: el.ID,
		Width:   e.Width,
		Height:  e.Height,
	})
}

// NewEChartsBar builds the go-echarts bar for cfg.
func (e *ECharts) NewEChartsBar(el *Element, cfg BarConfig) *gocharts.Bar {
	bar := gocharts.NewBar()
	yAxis := opts.YAxis{Type: "value"}
	if cfg.BeginAtZero {
		yAxis.Min = 0
	}
	bar.SetGlobalOptions(
		e.init(el),
		gocharts.WithLegendOpts(opts.Legend{Show: opts.Bool(cfg.ShowLegend)}),
		gocharts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		gocharts.WithYAxisOpts(yAxis),
	)

	data := make([]opts.BarData, len(cfg.Values))
	for i, v := range cfg.Values {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(cfg.Labels).AddSeries(cfg.DatasetLabel, data,
		gocharts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Background, BorderColor: cfg.Border}),
	)
	return bar
}

// NewEChartsPie builds the go-echarts doughnut for cfg.
func (e *ECharts) NewEChartsPie(el *Element, cfg DoughnutConfig) *gocharts.Pie {
	pie := gocharts.NewPie()
	legend := opts.Legend{Show: opts.Bool(true)}
	if cfg.LegendPosition == LegendBottom {
		legend.Bottom = "0"
	}
	pie.SetGlobalOptions(
		e.init(el),
		gocharts.WithLegendOpts(legend),
		gocharts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.PieData, len(cfg.Values))
	for i, v := range cfg.Values {
		data[i] = opts.PieData{Name: cfg.Labels[i], Value: v}
		if i < len(cfg.Backgrounds) {
			data[i].ItemStyle = &opts.ItemStyle{Color: cfg.Backgrounds[i]}
		}
	}
	pie.AddSeries("Entries", data,
		gocharts.WithPieChartOpts(opts.PieChart{Radius: []string{"50%", "75%"}}),
	)
	return pie
}

// Bar implements Backend.
func (e *ECharts) Bar(el *Element, cfg BarConfig) (template.HTML, error) {
	bar := e.NewEChartsBar(el, cfg)
	bar.Validate()
	return e.snippet(el, bar.JSON())
}

// Doughnut implements Backend.
func (e *ECharts) Doughnut(el *Element, cfg DoughnutConfig) (template.HTML, error) {
	pie := e.NewEChartsPie(el, cfg)
	pie.Validate()
	return e.snippet(el, pie.JSON())
}

// snippet embeds the option in a script element. json.Marshal escapes <, >
// and &, so labels cannot close the element.
func (e *ECharts) snippet(el *Element, option map[string]interface{}) (template.HTML, error) {
	raw, err := json.Marshal(option)
	if err != nil {
		return "", fmt.Errorf("encoding echarts option: %w", err)
	}
	var buf bytes.Buffer
	err = echartsTmpl.Execute(&buf, struct {
		ID, Width, Height string
		Option            template.JS
	}{el.ID, e.Width, e.Height, template.JS(raw)})
	if err != nil {
		return "", fmt.Errorf("rendering echarts snippet: %w", err)
	}
	return template.HTML(buf.String()), nil
}
