package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/benchdesk/internal/wizard"
)

var previewJSON bool

// previewFile is the YAML layout accepted by `benchdesk preview`:
//
//	measures:
//	  - name: Reduce scrap
//	    urgency: 3
//	    end_date: 2025-06-30
//	    steps: [Audit line 2, Retrain operators]
type previewFile struct {
	Measures []previewMeasure `yaml:"measures"`
}

type previewMeasure struct {
	Fields map[string]string `yaml:",inline"`
	Steps  []string          `yaml:"steps"`
}

var previewCmd = &cobra.Command{
	Use:   "preview <measures.yml>",
	Short: "Show the form fields the measure wizard would submit",
	Long: `Builds measures from a YAML file the same way the wizard does and prints
the array-style form fields that would be posted to the server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		w, err := buildPreview(f)
		if err != nil {
			return err
		}
		form := w.Serialize()

		if previewJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(form)
		}
		writePreview(cmd.OutOrStdout(), form, w.Len())
		return nil
	},
}

// buildPreview decodes a preview file and replays it through a wizard.
func buildPreview(r io.Reader) (*wizard.Wizard, error) {
	var file previewFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing measures: %w", err)
	}

	w := wizard.New(wizard.WithStaticMeasure())
	for i, pm := range file.Measures {
		var m *wizard.Measure
		if i == 0 {
			m = w.Measures()[0]
		} else {
			m = w.AddMeasure()
		}

		keys := make([]string, 0, len(pm.Fields))
		for k := range pm.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			field, ok := wizard.FieldByKey(key)
			if !ok {
				return nil, fmt.Errorf("measure %d: unknown field %q", i+1, key)
			}
			if err := w.SetValue(m.ID, field, pm.Fields[key]); err != nil {
				return nil, err
			}
		}

		for _, title := range pm.Steps {
			step, err := w.AddStep(m.ID)
			if err != nil {
				return nil, err
			}
			if err := w.SetStepTitle(m.ID, step.ID, title); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}

// writePreview prints the submitted fields grouped by measure.
func writePreview(out io.Writer, form url.Values, measures int) {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	param := color.New(color.FgYellow).SprintFunc()
	empty := color.New(color.Faint).SprintFunc()

	for i := 0; i < measures; i++ {
		fmt.Fprintln(out, header(fmt.Sprintf("Measure %d", i+1)))
		for _, p := range wizard.SubmittedParams {
			values := form[p]
			if i >= len(values) {
				continue
			}
			v := strings.ReplaceAll(values[i], "\n", `\n`)
			if v == "" {
				v = empty(`""`)
			}
			fmt.Fprintf(out, "  %s %s\n", param(p), v)
		}
	}
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "print the fields as JSON")
	rootCmd.AddCommand(previewCmd)
}
