package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"creatorpay/internal/compensation"
	"creatorpay/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{config.EnvLogLevel, config.EnvLogFormat, config.EnvDirectory, config.EnvModel, config.EnvServerBind} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "creatorpay", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(home, ".local", "share", "creatorpay", "reports"); cfg.Report.OutputDir != want {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Report.OutputDir, want)
	}
	if cfg.Report.Model != "default" || cfg.Report.Format != "auto" || cfg.Report.InstagramPlatform != "instagram" {
		t.Fatalf("unexpected report defaults: %+v", cfg.Report)
	}
	if cfg.Server.Bind != "127.0.0.1:7488" || cfg.Server.MaxUploadMB != 32 {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Directory.Path != "" {
		t.Fatalf("expected embedded roster by default, got %q", cfg.Directory.Path)
	}
}

func TestLoadCustomFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[directory]
path = "~/rosters/creators.yaml"

[report]
model = "Viral_Only"
format = "JSON"
instagram_platform = "TikTok"

[logging]
level = "DEBUG"

[[models]]
name = "viral_only"
kind = "performance"
floor = 100000
tiers = [
  { min_views = 100000, bonus = 250 },
  { min_views = 1000000, bonus = 1500 },
]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q %v", resolved, exists)
	}
	if !strings.HasSuffix(cfg.Directory.Path, filepath.Join("rosters", "creators.yaml")) || !filepath.IsAbs(cfg.Directory.Path) {
		t.Fatalf("directory path not expanded: %q", cfg.Directory.Path)
	}
	if cfg.Report.Format != "json" || cfg.Report.InstagramPlatform != "tiktok" || cfg.Logging.Level != "debug" {
		t.Fatalf("values not normalized: %+v %+v", cfg.Report, cfg.Logging)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	model, err := catalog.Lookup(cfg.Report.Model)
	if err != nil {
		t.Fatalf("lookup custom model: %v", err)
	}
	if model.Kind() != compensation.KindPerformance {
		t.Fatalf("unexpected kind %s", model.Kind())
	}
}

func TestLoadProjectFile(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("creatorpay.toml", []byte("[report]\nmodel = \"cpm\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "creatorpay.toml" {
		t.Fatalf("expected project config, got %q %v", resolved, exists)
	}
	if cfg.Report.Model != "cpm" {
		t.Fatalf("unexpected model %q", cfg.Report.Model)
	}
}

func TestEnvFallbacks(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvModel, "summed")
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvServerBind, "0.0.0.0:9000")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Report.Model != "summed" || cfg.Logging.Level != "warn" || cfg.Server.Bind != "0.0.0.0:9000" {
		t.Fatalf("env not applied: %+v %+v %+v", cfg.Report, cfg.Logging, cfg.Server)
	}
}

func TestEnvDoesNotOverrideFile(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvModel, "summed")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[report]\nmodel = \"hybrid\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Report.Model != "hybrid" {
		t.Fatalf("file value should win, got %q", cfg.Report.Model)
	}
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	if _, loaded, err := config.LoadEnvFile(""); err != nil || loaded {
		t.Fatalf("missing default .env should be ignored: %v %v", loaded, err)
	}
	if _, _, err := config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("explicit missing env file should fail")
	}
	if err := os.WriteFile(".env", []byte(config.EnvModel+"=performance\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	os.Unsetenv(config.EnvModel)
	if _, loaded, err := config.LoadEnvFile(""); err != nil || !loaded {
		t.Fatalf("expected .env to load: %v %v", loaded, err)
	}
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Report.Model != "performance" {
		t.Fatalf("model from .env not applied: %q", cfg.Report.Model)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"format", func(c *config.Config) { c.Report.Format = "xml" }, "report.format"},
		{"platform", func(c *config.Config) { c.Report.InstagramPlatform = "myspace" }, "report.instagram_platform"},
		{"bind", func(c *config.Config) { c.Server.Bind = "localhost" }, "server.bind"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"unknown model", func(c *config.Config) { c.Report.Model = "nope" }, "report.model"},
		{"bad custom model", func(c *config.Config) {
			c.Models = []compensation.Definition{{Name: "broken", Kind: "cpm"}}
		}, "models"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Report.OutputDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error: got %v want substring %q", err, tc.want)
			}
		})
	}

	cfg := config.Default()
	cfg.Report.Model = "nope"
	if err := cfg.Validate(); !errors.Is(err, compensation.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample does not parse: %v", err)
	}
	if decoded.Report.Model != config.Default().Report.Model {
		t.Fatalf("sample model %q differs from default", decoded.Report.Model)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample does not load: %v", err)
	}
}
