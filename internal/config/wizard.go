package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to benchdesk! Let's configure your server.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(defaults.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(strings.TrimSpace(portStr))

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite database)",
		Default: defaults.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Chart backend.
	backendPrompt := promptui.Select{
		Label: "Select chart backend",
		Items: []string{
			"chartjs (rendered in the browser by Chart.js)",
			"echarts (rendered server-side with go-echarts)",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chart backend selection: %w", err)
	}
	backends := []ChartBackend{ChartBackendChartJS, ChartBackendECharts}

	// 4. Delete confirmation style.
	confirmPrompt := promptui.Select{
		Label: "How should deletions in the measure wizard be confirmed?",
		Items: []string{
			"toast (inline confirmation banner)",
			"prompt (browser confirm() dialog)",
		},
	}
	confirmIdx, _, err := confirmPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("confirm mode selection: %w", err)
	}
	modes := []ConfirmMode{ConfirmToast, ConfirmPrompt}

	cfg := DefaultConfig()
	cfg.Port = port
	cfg.DataDir = strings.TrimSpace(dataDir)
	cfg.ChartBackend = backends[backendIdx]
	cfg.ConfirmMode = modes[confirmIdx]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n <= 0 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
