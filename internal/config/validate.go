package config

import (
	"errors"
	"fmt"
	"strings"

	"creatorpay/internal/platform"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateModels()
}

func (c *Config) validateReport() error {
	switch c.Report.Format {
	case "auto", "table", "json":
	default:
		return fmt.Errorf("report.format must be auto, table, or json (got %q)", c.Report.Format)
	}
	if !platform.Platform(c.Report.InstagramPlatform).IsKnown() {
		return fmt.Errorf("report.instagram_platform must be instagram, tiktok, or youtube (got %q)", c.Report.InstagramPlatform)
	}
	if strings.TrimSpace(c.Report.OutputDir) == "" {
		return errors.New("report.output_dir must be set")
	}
	return nil
}

func (c *Config) validateServer() error {
	if !strings.Contains(c.Server.Bind, ":") {
		return fmt.Errorf("server.bind must be host:port (got %q)", c.Server.Bind)
	}
	if c.Server.MaxUploadMB < 0 {
		return errors.New("server.max_upload_mb must be positive")
	}
	if c.Server.ReadTimeoutSeconds < 0 {
		return errors.New("server.read_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateModels() error {
	catalog, err := c.Catalog()
	if err != nil {
		return fmt.Errorf("models: %w", err)
	}
	if _, err := catalog.Lookup(c.Report.Model); err != nil {
		return fmt.Errorf("report.model: %w", err)
	}
	return nil
}
