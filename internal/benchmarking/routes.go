package benchmarking

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/benchdesk/internal/audit"
	"github.com/ziadkadry99/benchdesk/internal/charts"
)

//go:embed history.html
var historyHTML string

var historyTmpl = template.Must(template.New("history").Parse(historyHTML))

// Handler serves the benchmarking API and history page.
type Handler struct {
	store    *Store
	renderer *charts.Renderer
	audit    *audit.Store
	log      *slog.Logger
}

// NewHandler creates a Handler. auditStore may be nil.
func NewHandler(store *Store, renderer *charts.Renderer, auditStore *audit.Store) *Handler {
	return &Handler{
		store:    store,
		renderer: renderer,
		audit:    auditStore,
		log:      slog.Default().With("module", "benchmarking"),
	}
}

// RegisterRoutes mounts the benchmarking endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/benchmarking", func(r chi.Router) {
		r.Get("/companies", h.handleListCompanies)
		r.Post("/companies", h.handleCreateCompany)
		r.Get("/records", h.handleListRecords)
		r.Post("/records", h.handleUpsertRecord)
		r.Get("/stats", h.handleStats)
	})
	r.Get("/benchmarking/history", h.handleHistory)
}

func (h *Handler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []Company{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var c Company
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.store.CreateCompany(r.Context(), c)
	if errors.Is(err, ErrInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		CompanyID: q.Get("company"),
		Role:      Role(q.Get("role")),
	}
	if v := q.Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Year = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	list, err := h.store.ListRecords(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []Record{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleUpsertRecord(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := h.store.UpsertRecord(r.Context(), rec)
	switch {
	case errors.Is(err, ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "company not found")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.audit != nil {
		summary := fmt.Sprintf("saved %d record (%s)", saved.DataYear, saved.EnteredByRole)
		if err := h.audit.Record(r.Context(), audit.ActionRecordSaved, audit.EntityRecord, saved.ID, summary, nil); err != nil {
			h.log.Warn("recording activity", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Stats(r.Context(), r.URL.Query().Get("company"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type historyView struct {
	Company *Company
	Records []Record
	Assets  template.HTML
	Year    *charts.Element
	Entry   *charts.Element
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := r.URL.Query().Get("company")

	view := historyView{Assets: h.renderer.Backend().Assets()}
	if companyID != "" {
		c, err := h.store.GetCompany(ctx, companyID)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "company not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		view.Company = c
	}

	records, err := h.store.ListRecords(ctx, ListFilter{CompanyID: companyID})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	view.Records = records

	page, err := h.store.ChartPage(ctx, companyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := h.renderer.Render(page); err != nil {
		h.log.Error("rendering charts", "error", err)
	}
	view.Year, _ = page.Element(charts.YearDistributionID)
	view.Entry, _ = page.Element(charts.EntrySourceID)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := historyTmpl.Execute(w, view); err != nil {
		h.log.Error("rendering history page", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
