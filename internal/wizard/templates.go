package wizard

import (
	_ "embed"
	"html/template"
	"net/http"
	"strings"
)

//go:embed wizard.html
var pageHTML string

var pageTmpl = template.Must(template.New("wizard").Parse(pageHTML))

type pageView struct {
	CompanyID string
	Action    string
	Container string
	ToastMode bool
	Message   string
	Notice    string
	Banner    *bannerView
	Measures  []measureView
}

type bannerView struct {
	Message string
	Kind    TargetKind
}

type measureView struct {
	ID       string
	Label    string
	Static   bool
	First    bool
	Last     bool
	Up       int
	Down     int
	StepList string
	Sortable bool
	Inputs   []inputView
	Steps    []stepView
}

type inputView struct {
	Name  string
	ID    string
	Class string
	Label string
	Kind  string
	Value string
}

type stepView struct {
	ID    string
	Label string
	Name  string
	Title string
	First bool
	Last  bool
	Up    int
	Down  int
}

var inputKinds = map[string]string{
	FieldDescription.Key: "textarea",
	FieldUrgency.Key:     "urgency",
	FieldStartDate.Key:   "date",
	FieldEndDate.Key:     "date",
}

func newPageView(sess *Session, toast bool, notice string) pageView {
	view := pageView{
		CompanyID: sess.CompanyID,
		Action:    pagePath(sess.CompanyID),
		Container: ContainerID,
		ToastMode: toast,
		Message:   DeleteMessage,
		Notice:    notice,
	}
	if sess.Banner.Visible() {
		view.Banner = &bannerView{Message: sess.Banner.Message(), Kind: sess.Banner.Kind()}
	}

	measures := sess.Wizard.Measures()
	for i, m := range measures {
		mv := measureView{
			ID:       m.ID,
			Label:    m.Label(),
			Static:   m.Static,
			First:    i == 0,
			Last:     i == len(measures)-1,
			Up:       i - 1,
			Down:     i + 1,
			StepList: StepListID(m.ID),
			Sortable: m.StepsSortable(),
		}
		for _, f := range Fields {
			in := inputView{
				Name:  InputName(m.ID, f),
				Label: f.Label,
				Kind:  inputKinds[f.Key],
				Value: m.Raw(f),
			}
			if in.Kind == "" {
				in.Kind = "text"
			}
			if m.Static {
				in.ID = strings.TrimPrefix(f.ID, "#")
			} else {
				in.Class = strings.TrimPrefix(f.Class, ".")
			}
			mv.Inputs = append(mv.Inputs, in)
		}
		for si, s := range m.Steps {
			mv.Steps = append(mv.Steps, stepView{
				ID:    s.ID,
				Label: s.Label(),
				Name:  StepInputName(m.ID, s.ID),
				Title: s.Title,
				First: si == 0,
				Last:  si == len(m.Steps)-1,
				Up:    si - 1,
				Down:  si + 1,
			})
		}
		view.Measures = append(view.Measures, mv)
	}
	return view
}

func (h *Handler) render(w http.ResponseWriter, status int, sess *Session, notice string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, newPageView(sess, h.sessions.UsesToast(), notice)); err != nil {
		h.log.Error("rendering wizard page", "error", err)
	}
}
