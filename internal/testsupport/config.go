package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"creatorpay/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The roster fixture is written and referenced, logs are quiet, and output
// defaults to JSON so command output can be decoded.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Directory.Path = WriteRoster(t, base)
	cfgVal.Report.Format = "json"
	cfgVal.Report.OutputDir = filepath.Join(base, "reports")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Server.LockDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithModel sets the default report model.
func WithModel(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.Model = name
	}
}

// WithLogDir enables the log file under the test's temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = filepath.Join(b.baseDir, "logs")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Report.OutputDir)
}

// WriteConfig encodes cfg as TOML next to its temp directories and returns
// the file path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "creatorpay.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// IsolateEnv points HOME at a temp directory and blanks every CREATORPAY_*
// fallback so the developer's own settings cannot leak into a test.
func IsolateEnv(t testing.TB) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		config.EnvLogLevel,
		config.EnvLogFormat,
		config.EnvDirectory,
		config.EnvModel,
		config.EnvServerBind,
	} {
		t.Setenv(key, "")
	}
}
