package config

const (
	defaultModel             = "default"
	defaultReportFormat      = "auto"
	defaultOutputDir         = "~/.local/share/creatorpay/reports"
	defaultInstagramPlatform = "instagram"
	defaultServerBind        = "127.0.0.1:7488"
	defaultMaxUploadMB       = 32
	defaultReadTimeout       = 30
	defaultLockDir           = "~/.local/state/creatorpay"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Report: Report{
			Model:             defaultModel,
			Format:            defaultReportFormat,
			OutputDir:         defaultOutputDir,
			InstagramPlatform: defaultInstagramPlatform,
		},
		Server: Server{
			Bind:               defaultServerBind,
			MaxUploadMB:        defaultMaxUploadMB,
			ReadTimeoutSeconds: defaultReadTimeout,
			LockDir:            defaultLockDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
