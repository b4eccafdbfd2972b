package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ziadkadry99/benchdesk/internal/audit"
)

// SessionCookie carries the browser session that owns a wizard.
const SessionCookie = "benchdesk_wizard"

// NotImplementedNotice is shown when a placeholder action is used.
const NotImplementedNotice = "Add existing measure: not implemented yet."

// Submitter receives the serialized array-style form.
type Submitter interface {
	Submit(ctx context.Context, companyID string, form url.Values) (int, error)
}

// Auditor records wizard activity. *audit.Store satisfies it.
type Auditor interface {
	Record(ctx context.Context, action audit.Action, entityType audit.EntityType, entityID, summary string, detail any) error
}

// CompanyChecker reports whether a company exists. *benchmarking.Store
// satisfies it.
type CompanyChecker interface {
	CompanyExists(ctx context.Context, id string) (bool, error)
}

// Handler serves the wizard pages.
type Handler struct {
	sessions  *SessionStore
	submitter Submitter
	auditor   Auditor
	companies CompanyChecker
	log       *slog.Logger
}

// NewHandler creates a Handler. auditor and companies may be nil; without a
// checker every company ID is accepted.
func NewHandler(sessions *SessionStore, submitter Submitter, auditor Auditor, companies CompanyChecker) *Handler {
	return &Handler{
		sessions:  sessions,
		submitter: submitter,
		auditor:   auditor,
		companies: companies,
		log:       slog.Default().With("module", "wizard"),
	}
}

// RegisterRoutes mounts the wizard under /companies/{companyID}/wizard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies/{companyID}/wizard", func(r chi.Router) {
		r.Use(h.requireCompany)
		r.Get("/", h.handlePage)
		r.Post("/fields", h.handleFields)
		r.Post("/measures", h.handleAddMeasure)
		r.Post("/measures/existing", h.handleAddExisting)
		r.Post("/measures/{measureID}/delete", h.handleDeleteMeasure)
		r.Post("/measures/{measureID}/move", h.handleMoveMeasure)
		r.Post("/measures/{measureID}/steps", h.handleAddStep)
		r.Post("/measures/{measureID}/steps/{stepID}/delete", h.handleDeleteStep)
		r.Post("/measures/{measureID}/steps/{stepID}/move", h.handleMoveStep)
		r.Post("/confirm", h.handleConfirm)
		r.Post("/dismiss", h.handleDismiss)
		r.Post("/reorder", h.handleReorder)
		r.Post("/submit", h.handleSubmit)
	})
}

// requireCompany answers 404 before a session is created for an unknown company.
func (h *Handler) requireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.companies != nil {
			companyID := chi.URLParam(r, "companyID")
			ok, err := h.companies.CompanyExists(r.Context(), companyID)
			if err != nil {
				h.log.Error("checking company", "company_id", companyID, "error", err)
				writeError(w, http.StatusInternalServerError, "checking company")
				return
			}
			if !ok {
				writeError(w, http.StatusNotFound, "company not found")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// session resolves and locks the caller's session. The caller must Unlock.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	sid := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		sid = c.Value
	}
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	sess := h.sessions.Get(sid, chi.URLParam(r, "companyID"))
	sess.Lock()
	return sess
}

// edit locks the session and applies posted input values before an action.
func (h *Handler) edit(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return nil, false
	}
	sess := h.session(w, r)
	ApplyEdits(sess.Wizard, r.PostForm)
	return sess, true
}

// InputName is the form name of a measure input on the page.
func InputName(measureID string, f Field) string {
	return "m-" + measureID + "-" + f.Key
}

// StepInputName is the form name of a step title input on the page.
func StepInputName(measureID, stepID string) string {
	return "s-" + measureID + "-" + stepID
}

// ApplyEdits copies posted input values into the model. Inputs that were not
// posted keep their current value.
func ApplyEdits(w *Wizard, form url.Values) {
	for _, m := range w.measures {
		for _, f := range Fields {
			if vals, ok := form[InputName(m.ID, f)]; ok && len(vals) > 0 {
				m.Set(f, vals[0])
			}
		}
		for _, s := range m.Steps {
			if vals, ok := form[StepInputName(m.ID, s.ID)]; ok && len(vals) > 0 {
				s.Title = vals[0]
			}
		}
	}
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	defer sess.Unlock()
	h.render(w, http.StatusOK, sess, sess.TakeNotice())
}

func (h *Handler) handleFields(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()
	h.redirect(w, r, sess)
}

func (h *Handler) handleAddMeasure(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	m := sess.Wizard.AddMeasure()
	h.record(r.Context(), audit.ActionMeasureAdded, audit.EntityMeasure, m.ID,
		fmt.Sprintf("added %s for company %s", m.Label(), sess.CompanyID), nil)
	h.redirect(w, r, sess)
}

func (h *Handler) handleAddExisting(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	if err := sess.Wizard.AddExistingMeasure(); errors.Is(err, ErrNotImplemented) {
		sess.Notice = NotImplementedNotice
	}
	h.redirect(w, r, sess)
}

func (h *Handler) handleDeleteMeasure(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	measureID := chi.URLParam(r, "measureID")
	outcome, err := sess.Wizard.RequestRemoveMeasure(measureID)
	if err != nil {
		h.log.Warn("remove measure: not found", "measure_id", measureID)
	} else if outcome == OutcomeConfirmed {
		h.recordRemoval(r.Context(), Request{Kind: TargetMeasure, MeasureID: measureID})
	}
	h.redirect(w, r, sess)
}

func (h *Handler) handleDeleteStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	measureID, stepID := chi.URLParam(r, "measureID"), chi.URLParam(r, "stepID")
	outcome, err := sess.Wizard.RequestRemoveStep(measureID, stepID)
	if err != nil {
		h.log.Warn("remove step: not found", "measure_id", measureID, "step_id", stepID)
	} else if outcome == OutcomeConfirmed {
		h.recordRemoval(r.Context(), Request{Kind: TargetStep, MeasureID: measureID, StepID: stepID})
	}
	h.redirect(w, r, sess)
}

func (h *Handler) handleAddStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	measureID := chi.URLParam(r, "measureID")
	if s, err := sess.Wizard.AddStep(measureID); err == nil {
		h.record(r.Context(), audit.ActionStepAdded, audit.EntityStep, s.ID,
			fmt.Sprintf("added %s", s.Label()), map[string]string{"measure_id": measureID})
	}
	h.redirect(w, r, sess)
}

func (h *Handler) handleMoveMeasure(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	to, err := strconv.Atoi(r.PostForm.Get("to"))
	if err == nil {
		err = sess.Wizard.MoveMeasure(chi.URLParam(r, "measureID"), to)
	}
	if err == nil {
		h.recordReorder(r.Context(), sess)
	}
	h.redirect(w, r, sess)
}

func (h *Handler) handleMoveStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	to, err := strconv.Atoi(r.PostForm.Get("to"))
	if err == nil {
		err = sess.Wizard.MoveStep(chi.URLParam(r, "measureID"), chi.URLParam(r, "stepID"), to)
	}
	if err == nil {
		h.recordReorder(r.Context(), sess)
	}
	h.redirect(w, r, sess)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	req, pending := sess.Wizard.Pending()
	if err := sess.Wizard.Confirm(); err != nil {
		h.log.Debug("confirm without pending deletion")
	} else if pending {
		h.recordRemoval(r.Context(), req)
	}
	h.redirect(w, r, sess)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	sess.Wizard.Dismiss()
	h.redirect(w, r, sess)
}

// reorderItem is one entry of the reorder response.
type reorderItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// handleReorder applies a drag-and-drop end event. The body names the list
// that changed and its full item order; the reply carries the new labels.
func (h *Handler) handleReorder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	sess := h.session(w, r)
	defer sess.Unlock()

	list := r.PostForm.Get("list")
	order := r.PostForm["order"]
	if _, ok := sess.Sortables.Lookup(list); !ok {
		writeError(w, http.StatusNotFound, "unknown list")
		return
	}

	var items []reorderItem
	if list == ContainerID {
		if err := sess.Wizard.ReorderMeasures(order); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		for _, m := range sess.Wizard.Measures() {
			items = append(items, reorderItem{ID: m.ID, Label: m.Label()})
		}
	} else {
		m := measureForList(sess.Wizard, list)
		if m == nil {
			writeError(w, http.StatusNotFound, "unknown list")
			return
		}
		if err := sess.Wizard.ReorderSteps(m.ID, order); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		for _, s := range m.Steps {
			items = append(items, reorderItem{ID: s.ID, Label: s.Label()})
		}
	}

	h.recordReorder(r.Context(), sess)
	writeJSON(w, http.StatusOK, map[string]any{"list": list, "items": items})
}

func measureForList(w *Wizard, list string) *Measure {
	for _, m := range w.measures {
		if StepListID(m.ID) == list {
			return m
		}
	}
	return nil
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.edit(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	form := sess.Wizard.Serialize()
	n, err := h.submitter.Submit(r.Context(), sess.CompanyID, form)
	if err != nil {
		h.log.Error("submit measures", "company_id", sess.CompanyID, "error", err)
		h.render(w, http.StatusUnprocessableEntity, sess, "Could not save measures: "+err.Error())
		return
	}

	h.record(r.Context(), audit.ActionWizardSubmitted, audit.EntityCompany, sess.CompanyID,
		fmt.Sprintf("submitted %d measures", n), map[string]int{"measures": n})
	h.sessions.Reset(sess)
	http.Redirect(w, r, "/companies/"+url.PathEscape(sess.CompanyID)+"/assignments", http.StatusSeeOther)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, sess *Session) {
	http.Redirect(w, r, pagePath(sess.CompanyID), http.StatusSeeOther)
}

func pagePath(companyID string) string {
	return "/companies/" + url.PathEscape(companyID) + "/wizard"
}

func (h *Handler) recordRemoval(ctx context.Context, req Request) {
	if req.Kind == TargetStep {
		h.record(ctx, audit.ActionStepRemoved, audit.EntityStep, req.StepID, "removed step",
			map[string]string{"measure_id": req.MeasureID})
		return
	}
	h.record(ctx, audit.ActionMeasureRemoved, audit.EntityMeasure, req.MeasureID, "removed measure", nil)
}

func (h *Handler) recordReorder(ctx context.Context, sess *Session) {
	h.record(ctx, audit.ActionMeasuresReordered, audit.EntityCompany, sess.CompanyID,
		"reordered measures", map[string]int{"measures": sess.Wizard.Len()})
}

func (h *Handler) record(ctx context.Context, action audit.Action, et audit.EntityType, id, summary string, detail any) {
	if h.auditor == nil {
		return
	}
	if err := h.auditor.Record(ctx, action, et, id, summary, detail); err != nil {
		h.log.Warn("recording activity", "action", action, "error", err)
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
