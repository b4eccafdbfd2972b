package dashboard

import (
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ziadkadry99/benchdesk/internal/audit"
	"github.com/ziadkadry99/benchdesk/internal/benchmarking"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type indexView struct {
	Stats     statsResponse
	Companies []benchmarking.Company
	Recent    []audit.Entry
}

// ServeIndex renders the landing page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := d.stats(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	companies, err := d.benchmarks.ListCompanies(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	recent, err := d.recent(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, indexView{Stats: stats, Companies: companies, Recent: recent}); err != nil {
		slog.Default().With("module", "dashboard").Error("rendering index", "error", err)
	}
}
