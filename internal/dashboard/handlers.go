package dashboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/benchdesk/internal/audit"
)

// recentLimit caps the recent activity list.
const recentLimit = 10

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	Companies    int `json:"companies"`
	Records      int `json:"records"`
	AdminEntered int `json:"admin_entered"`
	Assignments  int `json:"assignments"`
}

func (d *Dashboard) stats(ctx context.Context) (statsResponse, error) {
	st, err := d.benchmarks.Stats(ctx, "")
	if err != nil {
		return statsResponse{}, err
	}
	resp := statsResponse{
		Companies:    st.Companies,
		Records:      st.Records,
		AdminEntered: st.EntrySource.Admin,
	}
	if d.assignments != nil {
		if resp.Assignments, err = d.assignments.Count(ctx); err != nil {
			return statsResponse{}, err
		}
	}
	return resp, nil
}

func (d *Dashboard) recent(ctx context.Context) ([]audit.Entry, error) {
	if d.activity == nil {
		return []audit.Entry{}, nil
	}
	entries, err := d.activity.Query(ctx, audit.QueryFilter{Limit: recentLimit})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return entries, nil
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	resp, err := d.stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (d *Dashboard) handleRecent(w http.ResponseWriter, r *http.Request) {
	entries, err := d.recent(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
