package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"creatorpay/internal/compensation"
	"creatorpay/internal/config"
	"creatorpay/internal/directory"
	"creatorpay/internal/logging"
	"creatorpay/internal/pipeline"
	"creatorpay/internal/platform"
	"creatorpay/internal/resolver"
)

type rootFlags struct {
	config    string
	envFile   string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *rootFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	dirOnce sync.Once
	dir     *directory.Directory
	dirErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if _, _, err := config.LoadEnvFile(strings.TrimSpace(c.flags.envFile)); err != nil {
			c.configErr = err
			return
		}
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := strings.TrimSpace(c.flags.logFormat); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureDirectory() (*directory.Directory, error) {
	c.dirOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.dirErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.dirErr = err
			return
		}
		if path := cfg.Directory.Path; path != "" {
			c.dir, c.dirErr = directory.Load(path, logger)
			return
		}
		c.dir, c.dirErr = directory.Default(logger)
	})
	return c.dir, c.dirErr
}

func (c *commandContext) resolver() (*resolver.Resolver, error) {
	dir, err := c.ensureDirectory()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return resolver.New(dir, logger), nil
}

func (c *commandContext) pipeline() (*pipeline.Pipeline, error) {
	r, err := c.resolver()
	if err != nil {
		return nil, err
	}
	cfg, _ := c.ensureConfig()
	logger, _ := c.ensureLogger()
	return pipeline.New(r, pipeline.Options{
		QualifyingPlatform: platform.Platform(cfg.Report.InstagramPlatform),
	}, logger), nil
}

func (c *commandContext) catalog() (*compensation.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Catalog()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
