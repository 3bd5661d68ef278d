package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creatorpay/internal/compensation"
	"creatorpay/internal/pipeline"
	"creatorpay/internal/testsupport"
)

type cliEnv struct {
	dir        string
	configPath string
	exportPath string
}

func setupCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	testsupport.IsolateEnv(t)
	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	return cliEnv{
		dir:        base,
		configPath: testsupport.WriteConfig(t, cfg),
		exportPath: testsupport.WriteExport(t, base),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestReportCommandJSON(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"report", env.exportPath, "--model", "summed", "--unmatched"}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var got reportOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("report output is not json: %v\n%s", err, out)
	}
	if got.Rows != 4 || got.Matched != 3 || got.UnmatchedRows != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if len(got.Reports) != 1 || got.Reports[0].Model != "summed" {
		t.Fatalf("unexpected reports %+v", got.Reports)
	}
	// Each creator has one summed video between 50K and 100K: $30 + $170.
	if total := got.Reports[0].Totals.TotalCost; total != 400 {
		t.Fatalf("unexpected total: got %v want 400", total)
	}
	if len(got.Unmatched) != 1 || got.Unmatched[0].Key != "stranger" {
		t.Fatalf("unexpected unmatched %+v", got.Unmatched)
	}
	if got.Export != nil {
		t.Fatalf("nothing should be exported without --out or --save")
	}
}

func TestReportCommandTable(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"report", env.exportPath, "-m", "hybrid,summed", "--format", "table"}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "Creator")
	requireContains(t, out, "Riley")
	requireContains(t, out, "70,000")
	requireContains(t, out, "2 creators")
}

func TestReportCommandExports(t *testing.T) {
	env := setupCLIEnv(t)
	outDir := filepath.Join(env.dir, "out")
	out, _, err := runCLI(t, []string{"report", env.exportPath, "--all", "--out", outDir}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var got reportOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("report output is not json: %v", err)
	}
	if got.Export == nil || len(got.Export.Reports) != len(compensation.Presets()) {
		t.Fatalf("unexpected export paths %+v", got.Export)
	}
	if filepath.Dir(got.Export.Dir) != outDir {
		t.Fatalf("export dir %s is not under %s", got.Export.Dir, outDir)
	}
	for _, path := range append(got.Export.Reports, got.Export.Summary, got.Export.Videos) {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}
}

func TestReportCommandStdin(t *testing.T) {
	env := setupCLIEnv(t)
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(testsupport.Export))
	cmd.SetArgs([]string{"--config", env.configPath, "report", "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("report from stdin: %v", err)
	}
	requireContains(t, stdout.String(), `"model": "default"`)
}

func TestReportCommandErrors(t *testing.T) {
	env := setupCLIEnv(t)

	noMatch := filepath.Join(env.dir, "nomatch.csv")
	testsupport.WriteFile(t, noMatch, testsupport.UnmatchedExport)
	_, _, err := runCLI(t, []string{"report", noMatch}, env.configPath)
	if !errors.Is(err, pipeline.ErrNoCreators) {
		t.Fatalf("expected ErrNoCreators, got %v", err)
	}

	_, _, err = runCLI(t, []string{"report", env.exportPath, "--model", "nope"}, env.configPath)
	if !errors.Is(err, compensation.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}

	_, _, err = runCLI(t, []string{"report", env.exportPath, "--format", "xml"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestResolveCommand(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"resolve", "--url", "https://www.tiktok.com/@xmathstok/video/9", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var got resolveOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("resolve output is not json: %v", err)
	}
	if !got.Matched || got.Creator != "X" {
		t.Fatalf("unexpected match %+v", got)
	}

	out, _, err = runCLI(t, []string{"resolve", "--handle", "nobody-here"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "No creator matched")

	if _, _, err := runCLI(t, []string{"resolve"}, env.configPath); err == nil {
		t.Fatalf("expected an error without query flags")
	}
}

func TestDedupeCommand(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"dedupe", env.exportPath, "--policy", "sum", "--creator", "x"}, env.configPath)
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	var got dedupeOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("dedupe output is not json: %v", err)
	}
	if len(got.Creators) != 1 {
		t.Fatalf("unexpected creators %+v", got.Creators)
	}
	c := got.Creators[0]
	if c.RawVideos != 2 || c.Unique != 1 || c.Views != 85000 {
		t.Fatalf("unexpected dedupe result %+v", c)
	}

	if _, _, err := runCLI(t, []string{"dedupe", env.exportPath, "--policy", "bogus"}, env.configPath); err == nil {
		t.Fatalf("expected an error for an unknown policy")
	}
}

func TestCreatorsCommand(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"creators", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("creators: %v", err)
	}
	var got creatorsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("creators output is not json: %v", err)
	}
	if got.Count != 2 || got.Creators[0].Name != "X" {
		t.Fatalf("unexpected creators %+v", got)
	}

	out, _, err = runCLI(t, []string{"creators", "--collisions"}, env.configPath)
	if err != nil {
		t.Fatalf("creators --collisions: %v", err)
	}
	requireContains(t, out, "No index collisions")
}

func TestModelsCommand(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"models", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	var defs []compensation.Definition
	if err := json.Unmarshal([]byte(out), &defs); err != nil {
		t.Fatalf("models output is not json: %v", err)
	}
	if len(defs) != len(compensation.Presets()) {
		t.Fatalf("unexpected model count %d", len(defs))
	}

	out, _, err = runCLI(t, []string{"models", "cpm"}, env.configPath)
	if err != nil {
		t.Fatalf("models cpm: %v", err)
	}
	requireContains(t, out, "capped at")

	out, _, err = runCLI(t, []string{"models"}, env.configPath)
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	requireContains(t, out, "default *")
}

func TestSimulateCommand(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"simulate", "--creators", "4", "--videos", "10", "--viral", "0.05"}, env.configPath)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var got simulateOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("simulate output is not json: %v", err)
	}
	if got.Seed != 42 || got.Creators != 4 {
		t.Fatalf("unexpected header %+v", got)
	}
	if len(got.Reports) != 2 || got.Reports[0].Model != "hybrid" || got.Reports[1].Model != "summed" {
		t.Fatalf("unexpected reports %+v", got.Reports)
	}
	if got.Projection == nil || len(got.Projected) != 2 {
		t.Fatalf("expected a projection")
	}
	if got.Reports[0].Totals.Views != got.Views {
		t.Fatalf("report views %d differ from generated %d", got.Reports[0].Totals.Views, got.Views)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "2 creators")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatalf("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLIEnv(t)
	bad := filepath.Join(env.dir, "bad.toml")
	testsupport.WriteFile(t, bad, "[report]\nformat = \"xml\"\n")
	if _, _, err := runCLI(t, []string{"models"}, bad); err == nil {
		t.Fatalf("expected invalid config to fail")
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		flag, configured, want string
	}{
		{flag: "", configured: "auto", want: formatJSON},
		{flag: "table", configured: "json", want: formatTable},
		{flag: "", configured: "table", want: formatTable},
		{flag: "JSON", configured: "table", want: formatJSON},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.configured, &buf)
		if err != nil {
			t.Fatalf("resolveFormat(%q, %q): %v", tt.flag, tt.configured, err)
		}
		if got != tt.want {
			t.Fatalf("resolveFormat(%q, %q): got %q want %q", tt.flag, tt.configured, got, tt.want)
		}
	}
}
