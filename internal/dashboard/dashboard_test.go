package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/benchdesk/internal/assignments"
	"github.com/ziadkadry99/benchdesk/internal/audit"
	"github.com/ziadkadry99/benchdesk/internal/benchmarking"
	"github.com/ziadkadry99/benchdesk/internal/db"
)

type fixture struct {
	bench    *benchmarking.Store
	assign   *assignments.Store
	activity *audit.Store
	router   chi.Router
}

func setupTest(t *testing.T) *fixture {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	f := &fixture{
		bench:    benchmarking.NewStore(database),
		assign:   assignments.NewStore(database),
		activity: audit.NewStore(database),
		router:   chi.NewRouter(),
	}
	New(f.bench, f.assign, f.activity).RegisterRoutes(f.router)
	return f
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestStatsEndpoint(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()

	f.bench.CreateCompany(ctx, benchmarking.Company{ID: "c1", Name: "Acme"})
	f.bench.UpsertRecord(ctx, benchmarking.Record{CompanyID: "c1", DataYear: 2022, EnteredByRole: benchmarking.RoleAdmin})
	f.bench.UpsertRecord(ctx, benchmarking.Record{CompanyID: "c1", DataYear: 2023, EnteredByRole: benchmarking.RoleCompany})
	f.assign.CreateFromSubmission(ctx, "c1", []assignments.Submission{{Name: "Measure"}})

	rec := f.get("/api/dashboard/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp statsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Companies != 1 || resp.Records != 2 || resp.AdminEntered != 1 || resp.Assignments != 1 {
		t.Errorf("stats = %+v", resp)
	}
}

func TestRecentEndpoint(t *testing.T) {
	f := setupTest(t)
	ctx := context.Background()

	for i := 0; i < recentLimit+5; i++ {
		f.activity.Log(ctx, audit.Entry{Action: audit.ActionMeasureAdded, EntityType: audit.EntityMeasure})
	}

	rec := f.get("/api/dashboard/recent")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []audit.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != recentLimit {
		t.Errorf("expected %d entries, got %d", recentLimit, len(entries))
	}
}

func TestRecentEndpointEmpty(t *testing.T) {
	f := setupTest(t)

	rec := f.get("/api/dashboard/recent")
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestServeIndex(t *testing.T) {
	f := setupTest(t)
	f.bench.CreateCompany(context.Background(), benchmarking.Company{ID: "c1", Name: "Acme"})

	rec := f.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Acme", "/companies/c1/wizard", "/benchmarking/history?company=c1"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}
