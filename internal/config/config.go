package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"creatorpay/internal/compensation"
	"creatorpay/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Directory configures where the creator roster is read from.
type Directory struct {
	// Path is a TSV or YAML roster. Empty uses the embedded roster.
	Path string `toml:"path"`
}

// Report configures report generation.
type Report struct {
	Model             string `toml:"model"`
	Format            string `toml:"format"`
	OutputDir         string `toml:"output_dir"`
	InstagramPlatform string `toml:"instagram_platform"`
}

// Server configures the HTTP upload endpoint.
type Server struct {
	Bind               string `toml:"bind"`
	MaxUploadMB        int    `toml:"max_upload_mb"`
	ReadTimeoutSeconds int    `toml:"read_timeout_seconds"`
	// LockDir holds the single-instance lock file.
	LockDir string `toml:"lock_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for creatorpay.
//
// Configuration sections:
//   - Directory: creator roster location
//   - Report: default model, output format and export directory
//   - Server: HTTP bind address and upload limits
//   - Logging: log format, level and optional file directory
//   - Models: custom compensation models added to the presets
type Config struct {
	Directory Directory                 `toml:"directory"`
	Report    Report                    `toml:"report"`
	Server    Server                    `toml:"server"`
	Logging   Logging                   `toml:"logging"`
	Models    []compensation.Definition `toml:"models"`
}

const (
	defaultConfigPath  = "~/.config/creatorpay/config.toml"
	projectConfigFile  = "creatorpay.toml"
	defaultEnvFileName = ".env"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LoadEnvFile reads KEY=value pairs from path into the process environment
// without overriding variables that are already set. An empty path tries
// ./.env and silently ignores its absence; an explicit path must exist.
func LoadEnvFile(path string) (string, bool, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultEnvFileName
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(expanded); err != nil {
		return "", false, fmt.Errorf("load env file: %w", err)
	}
	return expanded, true, nil
}

// Catalog returns the preset models plus any [[models]] definitions.
func (c *Config) Catalog() (*compensation.Catalog, error) {
	return compensation.NewCatalog(c.Models)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
