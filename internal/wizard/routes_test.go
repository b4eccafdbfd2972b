package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/benchdesk/internal/audit"
)

type fakeSubmitter struct {
	companyID string
	form      url.Values
	err       error
}

func (f *fakeSubmitter) Submit(_ context.Context, companyID string, form url.Values) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.companyID = companyID
	f.form = form
	return len(form[FieldName.Param]), nil
}

type fakeAuditor struct {
	actions []audit.Action
}

func (f *fakeAuditor) Record(_ context.Context, action audit.Action, _ audit.EntityType, _, _ string, _ any) error {
	f.actions = append(f.actions, action)
	return nil
}

type testClient struct {
	t        *testing.T
	router   chi.Router
	sessions *SessionStore
	sub      *fakeSubmitter
	auditor  *fakeAuditor
	cookie   *http.Cookie
}

func newTestClient(t *testing.T, toast bool) *testClient {
	t.Helper()
	c := &testClient{
		t:        t,
		router:   chi.NewRouter(),
		sessions: NewSessionStore(toast, 0),
		sub:      &fakeSubmitter{},
		auditor:  &fakeAuditor{},
	}
	NewHandler(c.sessions, c.sub, c.auditor, nil).RegisterRoutes(c.router)
	c.get("/companies/c1/wizard")
	if c.cookie == nil {
		t.Fatal("expected a session cookie")
	}
	return c
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) wizard() *Wizard {
	return c.sessions.Get(c.cookie.Value, "c1").Wizard
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestPageRendersStaticBlock(t *testing.T) {
	c := newTestClient(t, true)

	rec := c.get("/companies/c1/wizard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Measure 1", `id="m-0-name"`, `id="m-0-measure_detail"`, `id="measures-container"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if c.sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", c.sessions.Len())
	}
}

func TestAddMeasureUsesClassHooks(t *testing.T) {
	c := newTestClient(t, true)

	expectRedirect(t, c.post("/companies/c1/wizard/measures", nil), "/companies/c1/wizard")

	body := c.get("/companies/c1/wizard").Body.String()
	if !strings.Contains(body, "Measure 2") || !strings.Contains(body, `class="m-name"`) {
		t.Error("expected a templated second block")
	}
	if c.wizard().Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.wizard().Len())
	}
	if len(c.auditor.actions) != 1 || c.auditor.actions[0] != audit.ActionMeasureAdded {
		t.Errorf("actions = %v", c.auditor.actions)
	}
}

func TestActionsApplyPostedEdits(t *testing.T) {
	c := newTestClient(t, true)
	m := c.wizard().Measures()[0]

	form := url.Values{}
	form.Set(InputName(m.ID, FieldName), "Cut scrap")
	c.post("/companies/c1/wizard/measures", form)

	if got := c.wizard().Measures()[0].Value(FieldName); got != "Cut scrap" {
		t.Errorf("name = %q, want Cut scrap", got)
	}
	if !strings.Contains(c.get("/companies/c1/wizard").Body.String(), `value="Cut scrap"`) {
		t.Error("edited value should be redisplayed")
	}
}

func TestToastDeleteDismissAndConfirm(t *testing.T) {
	c := newTestClient(t, true)
	c.post("/companies/c1/wizard/measures", nil)
	target := c.wizard().Measures()[1]

	c.post("/companies/c1/wizard/measures/"+target.ID+"/delete", nil)
	if c.wizard().Len() != 2 {
		t.Fatal("deletion must wait for confirmation")
	}
	if body := c.get("/companies/c1/wizard").Body.String(); !strings.Contains(body, DeleteMessage) {
		t.Error("expected the confirmation toast")
	}

	c.post("/companies/c1/wizard/dismiss", nil)
	if c.wizard().Len() != 2 {
		t.Error("dismiss must not delete")
	}
	if body := c.get("/companies/c1/wizard").Body.String(); strings.Contains(body, DeleteMessage) {
		t.Error("toast should be hidden after dismiss")
	}

	c.post("/companies/c1/wizard/measures/"+target.ID+"/delete", nil)
	c.post("/companies/c1/wizard/confirm", nil)
	if c.wizard().Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.wizard().Len())
	}
	if _, ok := c.wizard().Measure(target.ID); ok {
		t.Error("confirmed measure should be gone")
	}
	last := c.auditor.actions[len(c.auditor.actions)-1]
	if last != audit.ActionMeasureRemoved {
		t.Errorf("last action = %s, want %s", last, audit.ActionMeasureRemoved)
	}
}

func TestPromptModeDeletesImmediately(t *testing.T) {
	c := newTestClient(t, false)
	m := c.wizard().Measures()[0]
	c.post("/companies/c1/wizard/measures/"+m.ID+"/steps", nil)
	c.post("/companies/c1/wizard/measures/"+m.ID+"/steps", nil)
	step := m.Steps[0]

	body := c.get("/companies/c1/wizard").Body.String()
	if !strings.Contains(body, "return confirm(") {
		t.Error("prompt mode should guard delete buttons with confirm()")
	}

	c.post("/companies/c1/wizard/measures/"+m.ID+"/steps/"+step.ID+"/delete", nil)
	if len(m.Steps) != 1 || m.Steps[0].Label() != "Step 1" {
		t.Errorf("steps after delete: %d, first label %q", len(m.Steps), m.Steps[0].Label())
	}
}

func TestAddExistingShowsNoticeOnce(t *testing.T) {
	c := newTestClient(t, true)

	c.post("/companies/c1/wizard/measures/existing", nil)
	if !strings.Contains(c.get("/companies/c1/wizard").Body.String(), NotImplementedNotice) {
		t.Error("expected not-implemented notice")
	}
	if strings.Contains(c.get("/companies/c1/wizard").Body.String(), NotImplementedNotice) {
		t.Error("notice should only be shown once")
	}
	if c.wizard().Len() != 1 {
		t.Error("add existing must not change the wizard")
	}
}

func TestHTTPAddStepUnknownMeasure(t *testing.T) {
	c := newTestClient(t, true)
	expectRedirect(t, c.post("/companies/c1/wizard/measures/missing/steps", nil), "/companies/c1/wizard")
	if len(c.auditor.actions) != 0 {
		t.Errorf("actions = %v, want none", c.auditor.actions)
	}
}

func TestReorderMeasures(t *testing.T) {
	c := newTestClient(t, true)
	c.post("/companies/c1/wizard/measures", nil)
	c.post("/companies/c1/wizard/measures", nil)
	ms := c.wizard().Measures()

	form := url.Values{"list": {ContainerID}, "order": {ms[2].ID, ms[0].ID, ms[1].ID}}
	rec := c.post("/companies/c1/wizard/reorder", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Items []reorderItem `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 3 || resp.Items[0].ID != ms[2].ID || resp.Items[0].Label != "Measure 1" {
		t.Errorf("items = %+v", resp.Items)
	}
	if ms[0].Label() != "Measure 2" {
		t.Errorf("former first block label = %q, want Measure 2", ms[0].Label())
	}
}

func TestReorderSteps(t *testing.T) {
	c := newTestClient(t, true)
	m := c.wizard().Measures()[0]
	c.post("/companies/c1/wizard/measures/"+m.ID+"/steps", nil)
	c.post("/companies/c1/wizard/measures/"+m.ID+"/steps", nil)
	a, b := m.Steps[0], m.Steps[1]

	rec := c.post("/companies/c1/wizard/reorder", url.Values{"list": {StepListID(m.ID)}, "order": {b.ID, a.ID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if b.Label() != "Step 1" || a.Label() != "Step 2" {
		t.Errorf("labels = %q, %q", b.Label(), a.Label())
	}
}

func TestReorderRejectsBadInput(t *testing.T) {
	c := newTestClient(t, true)
	m := c.wizard().Measures()[0]

	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{"unknown list", url.Values{"list": {"nope"}, "order": {m.ID}}, http.StatusNotFound},
		{"unregistered step list", url.Values{"list": {StepListID("ghost")}}, http.StatusNotFound},
		{"stale order", url.Values{"list": {ContainerID}, "order": {"other"}}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := c.post("/companies/c1/wizard/reorder", tt.form); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMoveButtons(t *testing.T) {
	c := newTestClient(t, true)
	c.post("/companies/c1/wizard/measures", nil)
	ms := c.wizard().Measures()

	c.post("/companies/c1/wizard/measures/"+ms[1].ID+"/move", url.Values{"to": {"0"}})
	if got := c.wizard().Measures()[0].ID; got != ms[1].ID {
		t.Errorf("first measure = %s, want %s", got, ms[1].ID)
	}
}

func TestSubmitSerializesAndResets(t *testing.T) {
	c := newTestClient(t, true)
	c.post("/companies/c1/wizard/measures", nil)
	ms := c.wizard().Measures()
	c.post("/companies/c1/wizard/measures/"+ms[1].ID+"/steps", nil)
	step := ms[1].Steps[0]

	form := url.Values{}
	form.Set(InputName(ms[0].ID, FieldName), "First")
	form.Set(InputName(ms[1].ID, FieldName), "Second")
	form.Set(InputName(ms[1].ID, FieldEndDate), "2025-01-01")
	form.Set(StepInputName(ms[1].ID, step.ID), "Kick-off")

	expectRedirect(t, c.post("/companies/c1/wizard/submit", form), "/companies/c1/assignments")

	if c.sub.companyID != "c1" {
		t.Errorf("companyID = %q", c.sub.companyID)
	}
	for _, param := range SubmittedParams {
		if len(c.sub.form[param]) != 2 {
			t.Errorf("%s has %d values, want 2", param, len(c.sub.form[param]))
		}
	}
	if got := c.sub.form[ParamSteps]; got[0] != "" || got[1] != "Kick-off" {
		t.Errorf("steps = %q", got)
	}
	if got := c.sub.form[ParamTimeframeDate][1]; got != "2025-01-01" {
		t.Errorf("timeframe = %q", got)
	}
	if c.wizard().Len() != 1 {
		t.Errorf("wizard should be reset after submit, Len() = %d", c.wizard().Len())
	}
}

func TestSubmitFailureKeepsWizard(t *testing.T) {
	c := newTestClient(t, true)
	c.sub.err = errors.New("company not found")

	rec := c.post("/companies/c1/wizard/submit", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if !strings.Contains(rec.Body.String(), "company not found") {
		t.Error("expected the error to be shown")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newTestClient(t, true)
	b := &testClient{t: t, router: a.router, sessions: a.sessions}
	b.get("/companies/c1/wizard")

	a.post("/companies/c1/wizard/measures", nil)
	if b.wizard().Len() != 1 {
		t.Errorf("other session Len() = %d, want 1", b.wizard().Len())
	}
	if a.sessions.Len() != 2 {
		t.Errorf("sessions = %d, want 2", a.sessions.Len())
	}
}

type fakeCompanies map[string]bool

func (f fakeCompanies) CompanyExists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

func TestUnknownCompanyIsRejected(t *testing.T) {
	sessions := NewSessionStore(true, 0)
	sub := &fakeSubmitter{}
	r := chi.NewRouter()
	NewHandler(sessions, sub, nil, fakeCompanies{"c1": true}).RegisterRoutes(r)

	form := url.Values{InputName("ghost", FieldName): {"Ghost measure"}}
	req := httptest.NewRequest(http.MethodPost, "/companies/ghost/wizard/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("submit status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if sub.form != nil {
		t.Error("nothing should reach the submitter for an unknown company")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/ghost/wizard", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("page status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if sessions.Len() != 0 {
		t.Errorf("sessions = %d, want none for an unknown company", sessions.Len())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/c1/wizard", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("known company status = %d, want %d", rec.Code, http.StatusOK)
	}
}
