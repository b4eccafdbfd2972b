package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/benchdesk/internal/assignments"
	"github.com/ziadkadry99/benchdesk/internal/audit"
	"github.com/ziadkadry99/benchdesk/internal/benchmarking"
)

// Dashboard serves the landing page and its summary endpoints.
type Dashboard struct {
	benchmarks  *benchmarking.Store
	assignments *assignments.Store
	activity    *audit.Store
}

// New creates a new Dashboard.
func New(benchmarks *benchmarking.Store, assignmentStore *assignments.Store, activity *audit.Store) *Dashboard {
	return &Dashboard{
		benchmarks:  benchmarks,
		assignments: assignmentStore,
		activity:    activity,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/api/dashboard/recent", d.handleRecent)
}
