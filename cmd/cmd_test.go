package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/ziadkadry99/benchdesk/internal/audit"
	"github.com/ziadkadry99/benchdesk/internal/charts"
	"github.com/ziadkadry99/benchdesk/internal/config"
	"github.com/ziadkadry99/benchdesk/internal/db"
	"github.com/ziadkadry99/benchdesk/internal/wizard"
)

const previewYAML = `
measures:
  - name: Reduce scrap
    urgency: 3
    end_date: 2025-06-30
    steps:
      - Audit line 2
      - "  "
      - Retrain operators
  - name: Energy audit
    target: -10% kWh
`

func TestBuildPreview(t *testing.T) {
	w, err := buildPreview(strings.NewReader(previewYAML))
	if err != nil {
		t.Fatalf("buildPreview: %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("expected 2 measures, got %d", w.Len())
	}

	form := w.Serialize()
	names := form[wizard.FieldName.Param]
	if len(names) != 2 || names[0] != "Reduce scrap" || names[1] != "Energy audit" {
		t.Errorf("unexpected names %v", names)
	}
	if got := form[wizard.FieldUrgency.Param]; got[0] != "3" || got[1] != wizard.DefaultUrgency {
		t.Errorf("unexpected urgencies %v", got)
	}
	if got := form[wizard.ParamTimeframeDate][0]; got != "2025-06-30" {
		t.Errorf("expected end date 2025-06-30, got %q", got)
	}
	if got := form[wizard.ParamSteps][0]; got != "Audit line 2\nRetrain operators" {
		t.Errorf("unexpected steps blob %q", got)
	}
	if got := form[wizard.FieldTarget.Param][1]; got != "-10% kWh" {
		t.Errorf("unexpected target %q", got)
	}
}

func TestBuildPreviewEmptyFile(t *testing.T) {
	w, err := buildPreview(strings.NewReader(""))
	if err != nil {
		t.Fatalf("buildPreview: %v", err)
	}
	if w.Len() != 1 {
		t.Errorf("expected the initial measure only, got %d", w.Len())
	}
}

func TestBuildPreviewUnknownField(t *testing.T) {
	_, err := buildPreview(strings.NewReader("measures:\n  - colour: red\n"))
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestWritePreview(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	w, err := buildPreview(strings.NewReader(previewYAML))
	if err != nil {
		t.Fatalf("buildPreview: %v", err)
	}
	var buf bytes.Buffer
	writePreview(&buf, w.Serialize(), w.Len())
	out := buf.String()

	for _, want := range []string{
		"Measure 1",
		"Measure 2",
		"measure_name[] Reduce scrap",
		`measure_steps[] Audit line 2\nRetrain operators`,
		`measure_duration_days[] ""`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	cfg := config.DefaultConfig()
	cfg.LogLevel = "warn"
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "benchdesk.log")

	var stderr bytes.Buffer
	closeLog, err := setupLogger(cfg, &stderr)
	if err != nil {
		t.Fatalf("setupLogger: %v", err)
	}
	slog.Info("hidden")
	slog.Warn("visible", "k", "v")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if strings.Contains(stderr.String(), "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(stderr.String(), "visible") {
		t.Errorf("expected warn record on stderr, got %q", stderr.String())
	}
	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "k=v") {
		t.Errorf("expected record in log file, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestChartBackend(t *testing.T) {
	if _, ok := chartBackend(config.ChartBackendECharts).(*charts.ECharts); !ok {
		t.Error("expected ECharts backend")
	}
	if _, ok := chartBackend(config.ChartBackendChartJS).(*charts.ChartJS); !ok {
		t.Error("expected Chart.js backend")
	}
}

func TestPruneActivity(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	store := audit.NewStore(database)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := store.Record(ctx, audit.ActionMeasureAdded, audit.EntityMeasure, "m", "added", nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	// Disabled retention keeps everything, even far in the future.
	if n, err := pruneActivity(ctx, store, 0, time.Now().AddDate(1, 0, 0)); err != nil || n != 0 {
		t.Errorf("retention 0: deleted %d, err %v", n, err)
	}
	// Fresh entries are inside the window.
	if n, err := pruneActivity(ctx, store, 30, time.Now()); err != nil || n != 0 {
		t.Errorf("fresh entries: deleted %d, err %v", n, err)
	}
	// Forty days later they are outside it.
	n, err := pruneActivity(ctx, store, 30, time.Now().AddDate(0, 0, 40))
	if err != nil {
		t.Fatalf("pruneActivity: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d, want 3", n)
	}
	left, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("entries left = %d, want 0", len(left))
	}
}
