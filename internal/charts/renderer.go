// Package charts renders the benchmarking history charts from the data
// attributes of their anchor elements.
package charts

import (
	"fmt"
	"html/template"
	"log/slog"
)

// Backend turns a library-neutral config into widget markup.
type Backend interface {
	Name() string
	// Assets returns the markup the page needs once, such as script tags.
	Assets() template.HTML
	Bar(el *Element, cfg BarConfig) (template.HTML, error)
	Doughnut(el *Element, cfg DoughnutConfig) (template.HTML, error)
}

// Result reports what Render drew.
type Result struct {
	Bar         *BarConfig
	Doughnut    *DoughnutConfig
	Placeholder bool
}

// Empty reports whether nothing was rendered.
func (r Result) Empty() bool {
	return r.Bar == nil && r.Doughnut == nil && !r.Placeholder
}

// Renderer draws both history charts once per page.
type Renderer struct {
	backend Backend
	log     *slog.Logger
}

// NewRenderer creates a Renderer drawing through backend.
func NewRenderer(backend Backend) *Renderer {
	return &Renderer{
		backend: backend,
		log:     slog.Default().With("module", "charts"),
	}
}

// Backend returns the backend charts are drawn with.
func (r *Renderer) Backend() Backend { return r.backend }

// Render locates both anchors and draws into them. When either anchor is
// missing it logs a warning and draws nothing. Attribute data never causes an
// error; only a failing backend does.
func (r *Renderer) Render(page *Page) (Result, error) {
	yearEl, okYear := page.Element(YearDistributionID)
	entryEl, okEntry := page.Element(EntrySourceID)
	if !okYear || !okEntry {
		r.log.Warn("chart elements not found", "year_distribution", okYear, "entry_source", okEntry)
		return Result{}, nil
	}

	var res Result

	bar := NewBarConfig(yearEl)
	html, err := r.backend.Bar(yearEl, bar)
	if err != nil {
		return res, fmt.Errorf("rendering %s with %s: %w", YearDistributionID, r.backend.Name(), err)
	}
	yearEl.Content = html
	res.Bar = &bar

	doughnut, ok := NewDoughnutConfig(entryEl)
	if !ok {
		entryEl.Content = Placeholder()
		res.Placeholder = true
		return res, nil
	}
	html, err = r.backend.Doughnut(entryEl, doughnut)
	if err != nil {
		return res, fmt.Errorf("rendering %s with %s: %w", EntrySourceID, r.backend.Name(), err)
	}
	entryEl.Content = html
	res.Doughnut = &doughnut
	return res, nil
}

// Placeholder is the markup shown instead of an empty doughnut.
func Placeholder() template.HTML {
	return template.HTML(`<div class="text-center text-muted py-4 chart-placeholder">` + PlaceholderText + `</div>`)
}
