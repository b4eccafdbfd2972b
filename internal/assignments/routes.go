package assignments

import (
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

//go:embed assignments.html
var pageHTML string

var pageTmpl = template.Must(template.New("assignments").Funcs(template.FuncMap{
	"markdown": RenderDescription,
}).Parse(pageHTML))

// RegisterRoutes mounts the measures endpoints.
func RegisterRoutes(r chi.Router, store *Store, receiver *Receiver) {
	r.Post("/companies/{companyID}/measures", handleCreate(receiver))
	r.Get("/companies/{companyID}/assignments", handlePage(store))
	r.Get("/api/companies/{companyID}/assignments", handleList(store))
	r.Put("/api/assignments/steps/{stepID}", handleStepCompleted(store))
}

// handleCreate accepts the native array-style form POST.
func handleCreate(receiver *Receiver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		companyID := chi.URLParam(r, "companyID")
		if _, err := receiver.Submit(r.Context(), companyID, r.PostForm); err != nil {
			switch {
			case errors.Is(err, ErrMisaligned):
				writeError(w, http.StatusBadRequest, err.Error())
				return
			case errors.Is(err, ErrUnknownCompany):
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		http.Redirect(w, r, "/companies/"+url.PathEscape(companyID)+"/assignments", http.StatusSeeOther)
	}
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context(), chi.URLParam(r, "companyID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if list == nil {
			list = []Assignment{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handlePage(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := chi.URLParam(r, "companyID")
		list, err := store.List(r.Context(), companyID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = pageTmpl.Execute(w, struct {
			CompanyID   string
			Assignments []Assignment
		}{companyID, list})
		if err != nil {
			slog.Default().With("module", "assignments").Error("rendering assignments page", "error", err)
		}
	}
}

func handleStepCompleted(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Completed bool `json:"is_completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		err := store.SetStepCompleted(r.Context(), chi.URLParam(r, "stepID"), body.Completed)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "step not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"is_completed": body.Completed})
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
