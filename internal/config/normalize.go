package config

import (
	"fmt"
	"os"
	"strings"

	"creatorpay/internal/platform"
)

// Environment variables consulted when the matching config key is unset or
// still at its default.
const (
	EnvLogLevel   = "CREATORPAY_LOG_LEVEL"
	EnvLogFormat  = "CREATORPAY_LOG_FORMAT"
	EnvDirectory  = "CREATORPAY_DIRECTORY"
	EnvModel      = "CREATORPAY_MODEL"
	EnvServerBind = "CREATORPAY_SERVER_BIND"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeReport()
	c.normalizeServer()
	c.normalizeLogging()
	c.normalizeModels()
	return nil
}

func (c *Config) applyEnv() {
	envFallback(&c.Logging.Level, EnvLogLevel, defaultLogLevel)
	envFallback(&c.Logging.Format, EnvLogFormat, defaultLogFormat)
	envFallback(&c.Directory.Path, EnvDirectory, "")
	envFallback(&c.Report.Model, EnvModel, defaultModel)
	envFallback(&c.Server.Bind, EnvServerBind, defaultServerBind)
}

// envFallback replaces *field with the environment value when the field is
// empty or still holds its default.
func envFallback(field *string, key, def string) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return
	}
	current := strings.TrimSpace(*field)
	if current == "" || current == def {
		*field = strings.TrimSpace(value)
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Directory.Path, err = expandPath(strings.TrimSpace(c.Directory.Path)); err != nil {
		return fmt.Errorf("directory.path: %w", err)
	}
	if strings.TrimSpace(c.Report.OutputDir) == "" {
		c.Report.OutputDir = defaultOutputDir
	}
	if c.Report.OutputDir, err = expandPath(strings.TrimSpace(c.Report.OutputDir)); err != nil {
		return fmt.Errorf("report.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Server.LockDir) == "" {
		c.Server.LockDir = defaultLockDir
	}
	if c.Server.LockDir, err = expandPath(strings.TrimSpace(c.Server.LockDir)); err != nil {
		return fmt.Errorf("server.lock_dir: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeReport() {
	c.Report.Model = strings.TrimSpace(c.Report.Model)
	if c.Report.Model == "" {
		c.Report.Model = defaultModel
	}
	c.Report.Format = strings.ToLower(strings.TrimSpace(c.Report.Format))
	if c.Report.Format == "" {
		c.Report.Format = defaultReportFormat
	}
	c.Report.InstagramPlatform = string(platform.Normalize(c.Report.InstagramPlatform))
	if c.Report.InstagramPlatform == "" {
		c.Report.InstagramPlatform = defaultInstagramPlatform
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = defaultMaxUploadMB
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = defaultReadTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeModels() {
	for i := range c.Models {
		c.Models[i].Name = strings.TrimSpace(c.Models[i].Name)
		c.Models[i].Kind = strings.ToLower(strings.TrimSpace(c.Models[i].Kind))
		c.Models[i].Source = strings.ToLower(strings.TrimSpace(c.Models[i].Source))
		c.Models[i].BonusScope = strings.ToLower(strings.TrimSpace(c.Models[i].BonusScope))
	}
}
