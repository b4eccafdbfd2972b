package charts

import (
	"encoding/json"
	"errors"
	"html/template"
	"reflect"
	"strings"
	"testing"
)

type recordingBackend struct {
	bars      []BarConfig
	doughnuts []DoughnutConfig
	err       error
}

func (*recordingBackend) Name() string          { return "recording" }
func (*recordingBackend) Assets() template.HTML { return "" }

func (b *recordingBackend) Bar(el *Element, cfg BarConfig) (template.HTML, error) {
	if b.err != nil {
		return "", b.err
	}
	b.bars = append(b.bars, cfg)
	return template.HTML("bar:" + el.ID), nil
}

func (b *recordingBackend) Doughnut(el *Element, cfg DoughnutConfig) (template.HTML, error) {
	b.doughnuts = append(b.doughnuts, cfg)
	return template.HTML("doughnut:" + el.ID), nil
}

func historyPage(labels, data, admin, company string) *Page {
	return NewPage(
		NewElement(YearDistributionID, map[string]string{AttrYearLabels: labels, AttrYearData: data}),
		NewElement(EntrySourceID, map[string]string{AttrAdminCount: admin, AttrCompanyCount: company}),
	)
}

func TestRenderBarConfig(t *testing.T) {
	backend := &recordingBackend{}
	page := historyPage(`["2021","2022"]`, `[3,5]`, "1", "1")

	res, err := NewRenderer(backend).Render(page)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(backend.bars) != 1 {
		t.Fatalf("bars = %d, want 1", len(backend.bars))
	}
	bar := backend.bars[0]
	if !reflect.DeepEqual(bar.Labels, []string{"2021", "2022"}) {
		t.Errorf("labels = %v", bar.Labels)
	}
	if !reflect.DeepEqual(bar.Values, []float64{3, 5}) {
		t.Errorf("values = %v", bar.Values)
	}
	if bar.ShowLegend {
		t.Error("legend should be hidden")
	}
	if !bar.BeginAtZero || bar.StepSize != 1 || bar.DatasetLabel != RecordsLabel {
		t.Errorf("unexpected bar config %+v", bar)
	}
	if res.Bar == nil {
		t.Error("result should report the bar")
	}
	el, _ := page.Element(YearDistributionID)
	if el.Content != "bar:"+YearDistributionID {
		t.Errorf("content = %q", el.Content)
	}
}

func TestRenderDoughnut(t *testing.T) {
	tests := []struct {
		name        string
		admin       string
		company     string
		wantValues  []int
		placeholder bool
	}{
		{"both zero", "0", "0", nil, true},
		{"missing", "", "", nil, true},
		{"admin only", "4", "0", []int{4, 0}, false},
		{"both", "2", "7", []int{2, 7}, false},
		{"leading integer", "3 records", " 1", []int{3, 1}, false},
		{"not a number", "abc", "n/a", nil, true},
		{"negative", "-2", "0", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &recordingBackend{}
			page := historyPage(`[]`, `[]`, tt.admin, tt.company)

			res, err := NewRenderer(backend).Render(page)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			el, _ := page.Element(EntrySourceID)
			if tt.placeholder {
				if len(backend.doughnuts) != 0 {
					t.Error("no doughnut expected")
				}
				if !res.Placeholder || !strings.Contains(string(el.Content), PlaceholderText) {
					t.Errorf("expected placeholder, content %q", el.Content)
				}
				return
			}
			if len(backend.doughnuts) != 1 {
				t.Fatalf("doughnuts = %d, want 1", len(backend.doughnuts))
			}
			d := backend.doughnuts[0]
			if !reflect.DeepEqual(d.Values, tt.wantValues) {
				t.Errorf("values = %v, want %v", d.Values, tt.wantValues)
			}
			if !reflect.DeepEqual(d.Labels, []string{AdminEnteredLabel, CompanyEnteredLabel}) {
				t.Errorf("labels = %v", d.Labels)
			}
			if d.LegendPosition != LegendBottom {
				t.Errorf("legend = %q", d.LegendPosition)
			}
		})
	}
}

func TestRenderMissingAnchor(t *testing.T) {
	backend := &recordingBackend{}
	page := NewPage(NewElement(YearDistributionID, map[string]string{AttrYearLabels: `["2021"]`}))

	res, err := NewRenderer(backend).Render(page)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !res.Empty() {
		t.Errorf("result = %+v, want empty", res)
	}
	if len(backend.bars) != 0 {
		t.Error("nothing should be drawn when an anchor is missing")
	}
}

func TestRenderMalformedData(t *testing.T) {
	backend := &recordingBackend{}
	page := historyPage(`not json`, `{"a":1}`, "0", "3")

	if _, err := NewRenderer(backend).Render(page); err != nil {
		t.Fatalf("Render: %v", err)
	}
	bar := backend.bars[0]
	if len(bar.Labels) != 0 || len(bar.Values) != 0 {
		t.Errorf("malformed data should give empty arrays, got %v %v", bar.Labels, bar.Values)
	}
	if len(backend.doughnuts) != 1 {
		t.Error("doughnut should still render")
	}
}

func TestRenderBackendError(t *testing.T) {
	backend := &recordingBackend{err: errors.New("boom")}
	if _, err := NewRenderer(backend).Render(historyPage(`[]`, `[]`, "1", "0")); err == nil {
		t.Fatal("expected backend error")
	}
}

func TestParseHelpers(t *testing.T) {
	if got := parseLabels(`[2021, "2022", null]`); !reflect.DeepEqual(got, []string{"2021", "2022", ""}) {
		t.Errorf("parseLabels = %v", got)
	}
	if got := parseValues(`[1, "2.5", true]`); !reflect.DeepEqual(got, []float64{1, 2.5, 0}) {
		t.Errorf("parseValues = %v", got)
	}
	for in, want := range map[string]int{"": 0, "12": 12, "  7x": 7, "+3": 3, "-": 0, "x1": 0} {
		if got := parseCount(in); got != want {
			t.Errorf("parseCount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestChartJSBarConfig(t *testing.T) {
	cfg := BarChartJS(NewBarConfig(NewElement(YearDistributionID, map[string]string{
		AttrYearLabels: `["2021","2022"]`,
		AttrYearData:   `[3,5]`,
	})))

	raw, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type string `json:"type"`
		Data struct {
			Labels   []string `json:"labels"`
			Datasets []struct {
				Label string    `json:"label"`
				Data  []float64 `json:"data"`
			} `json:"datasets"`
		} `json:"data"`
		Options struct {
			Scales struct {
				Y struct {
					BeginAtZero bool `json:"beginAtZero"`
					Ticks       struct {
						StepSize float64 `json:"stepSize"`
					} `json:"ticks"`
				} `json:"y"`
			} `json:"scales"`
			Plugins struct {
				Legend struct {
					Display *bool `json:"display"`
				} `json:"legend"`
			} `json:"plugins"`
		} `json:"options"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "bar" || decoded.Data.Datasets[0].Label != RecordsLabel {
		t.Errorf("decoded = %+v", decoded)
	}
	if !reflect.DeepEqual(decoded.Data.Datasets[0].Data, []float64{3, 5}) {
		t.Errorf("data = %v", decoded.Data.Datasets[0].Data)
	}
	if !decoded.Options.Scales.Y.BeginAtZero || decoded.Options.Scales.Y.Ticks.StepSize != 1 {
		t.Error("y axis should begin at zero with step 1")
	}
	if d := decoded.Options.Plugins.Legend.Display; d == nil || *d {
		t.Error("legend display should be false")
	}
}

func TestChartJSMarkup(t *testing.T) {
	r := NewRenderer(NewChartJS())
	page := historyPage(`["2021"]`, `[2]`, "4", "0")
	if _, err := r.Render(page); err != nil {
		t.Fatalf("Render: %v", err)
	}
	year, _ := page.Element(YearDistributionID)
	entry, _ := page.Element(EntrySourceID)
	if !strings.Contains(string(year.Content), `<canvas id="yearDistributionChart">`) {
		t.Errorf("bar markup = %s", year.Content)
	}
	if !strings.Contains(string(entry.Content), `"type":"doughnut"`) || !strings.Contains(string(entry.Content), `"position":"bottom"`) {
		t.Errorf("doughnut markup = %s", entry.Content)
	}
	if !strings.Contains(string(r.Backend().Assets()), ChartJSURL) {
		t.Error("assets should load Chart.js")
	}
}

func TestEChartsMarkup(t *testing.T) {
	r := NewRenderer(NewECharts())
	page := historyPage(`["2021","2022"]`, `[3,5]`, "4", "1")
	if _, err := r.Render(page); err != nil {
		t.Fatalf("Render: %v", err)
	}
	year, _ := page.Element(YearDistributionID)
	entry, _ := page.Element(EntrySourceID)
	if !strings.Contains(string(year.Content), `id="yearDistributionChart"`) || !strings.Contains(string(year.Content), "2022") {
		t.Errorf("bar markup = %s", year.Content)
	}
	if !strings.Contains(string(entry.Content), AdminEnteredLabel) {
		t.Errorf("pie markup = %s", entry.Content)
	}
}

func TestBackendsEscapeScriptLabels(t *testing.T) {
	labels := `["</script><script>alert(1)</script>"]`
	for _, backend := range []Backend{NewChartJS(), NewECharts()} {
		t.Run(backend.Name(), func(t *testing.T) {
			page := historyPage(labels, `[1]`, "1", "0")
			if _, err := NewRenderer(backend).Render(page); err != nil {
				t.Fatalf("Render: %v", err)
			}
			year, _ := page.Element(YearDistributionID)
			out := string(year.Content)
			if strings.Contains(out, "<script>alert(1)") {
				t.Errorf("label broke out of the script element:\n%s", out)
			}
			if strings.Count(out, "</script>") != 1 {
				t.Errorf("expected exactly one closing script tag:\n%s", out)
			}
			if !strings.Contains(out, `\u003c/script\u003e`) {
				t.Errorf("expected the label to be escaped:\n%s", out)
			}
		})
	}
}
