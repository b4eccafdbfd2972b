package config

// ChartBackend selects the charting library used to build benchmarking charts.
type ChartBackend string

const (
	ChartBackendChartJS ChartBackend = "chartjs"
	ChartBackendECharts ChartBackend = "echarts"
)

// ConfirmMode selects how deletions in the measure wizard are confirmed.
type ConfirmMode string

const (
	// ConfirmToast renders a non-blocking confirmation toast.
	ConfirmToast ConfirmMode = "toast"
	// ConfirmPrompt relies on the browser's blocking confirm() dialog.
	ConfirmPrompt ConfirmMode = "prompt"
)

// Config is the top-level benchdesk configuration, corresponding to .benchdesk.yml.
type Config struct {
	Port            int          `yaml:"port" koanf:"port"`
	DataDir         string       `yaml:"data_dir" koanf:"data_dir"`
	LogLevel        string       `yaml:"log_level" koanf:"log_level"`
	LogFile         string       `yaml:"log_file" koanf:"log_file"`
	ChartBackend    ChartBackend `yaml:"chart_backend" koanf:"chart_backend"`
	ConfirmMode     ConfirmMode  `yaml:"confirm_mode" koanf:"confirm_mode"`
	AllowAllOrigins bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Log             LogConfig    `yaml:"log" koanf:"log"`
}

// LogConfig holds log rotation settings.
type LogConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" koanf:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" koanf:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" koanf:"max_age_days"`
	Compress   bool `yaml:"compress" koanf:"compress"`
	// ActivityRetentionDays prunes older activity entries at server start.
	// Zero keeps everything.
	ActivityRetentionDays int `yaml:"activity_retention_days" koanf:"activity_retention_days"`
}
