package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/benchdesk/internal/assignments"
	"github.com/ziadkadry99/benchdesk/internal/audit"
	"github.com/ziadkadry99/benchdesk/internal/benchmarking"
	"github.com/ziadkadry99/benchdesk/internal/charts"
	"github.com/ziadkadry99/benchdesk/internal/config"
	"github.com/ziadkadry99/benchdesk/internal/dashboard"
	"github.com/ziadkadry99/benchdesk/internal/db"
	"github.com/ziadkadry99/benchdesk/internal/server"
	"github.com/ziadkadry99/benchdesk/internal/wizard"
)

// wizardSessionTTL is how long an idle wizard survives in memory.
const wizardSessionTTL = 12 * time.Hour

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the benchdesk web server",
	Long:  `Starts the benchdesk server with the benchmarking API, history charts, the measure wizard and the dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		closeLog, err := setupLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, database)

		auditStore := registerAllRoutes(srv, cfg)
		if _, err := pruneActivity(cmd.Context(), auditStore, cfg.Log.ActivityRetentionDays, time.Now()); err != nil {
			slog.Warn("pruning activity log", "error", err)
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			slog.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		slog.Info("benchdesk server starting",
			"version", Version,
			"port", cfg.Port,
			"database", database.Path(),
			"charts", cfg.ChartBackend,
			"confirm_mode", cfg.ConfirmMode,
		)

		return srv.Start()
	},
}

// registerAllRoutes wires every feature onto the server router and returns
// the activity log shared by them.
func registerAllRoutes(srv *server.Server, cfg *config.Config) *audit.Store {
	database := srv.Database()
	r := srv.Router()

	// Activity log
	auditStore := audit.NewStore(database)
	audit.RegisterRoutes(r, auditStore)

	// Measure assignments
	assignmentStore := assignments.NewStore(database)
	receiver := assignments.NewReceiver(assignmentStore, auditStore)
	assignments.RegisterRoutes(r, assignmentStore, receiver)

	// Benchmarking records and history charts
	benchStore := benchmarking.NewStore(database)
	renderer := charts.NewRenderer(chartBackend(cfg.ChartBackend))

	// Measure wizard
	sessions := wizard.NewSessionStore(cfg.ConfirmMode != config.ConfirmPrompt, wizardSessionTTL)

	srv.Mount(
		benchmarking.NewHandler(benchStore, renderer, auditStore),
		wizard.NewHandler(sessions, receiver, auditStore, benchStore),
		dashboard.New(benchStore, assignmentStore, auditStore),
	)
	return auditStore
}

// pruneActivity deletes activity entries older than days. Zero days keeps
// everything.
func pruneActivity(ctx context.Context, store *audit.Store, days int, now time.Time) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -days)
	n, err := store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("pruned activity log", "deleted", n, "before", cutoff.Format(time.DateOnly))
	}
	return n, nil
}

func chartBackend(name config.ChartBackend) charts.Backend {
	if name == config.ChartBackendECharts {
		return charts.NewECharts()
	}
	return charts.NewChartJS()
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
