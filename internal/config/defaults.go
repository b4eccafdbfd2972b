package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".benchdesk.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		DataDir:      "data",
		LogLevel:     "info",
		LogFile:      "logs/benchdesk.log",
		ChartBackend: ChartBackendChartJS,
		ConfirmMode:  ConfirmToast,
		Log: LogConfig{
			MaxSizeMB:  25,
			MaxBackups: 10,
			MaxAgeDays: 14,
			Compress:   true,

			ActivityRetentionDays: 365,
		},
	}
}
