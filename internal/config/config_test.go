package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	got := DefaultConfig()
	want := &Config{
		Defaults: Defaults{Count: 3, LogLevel: "warn"},
		Aliases:  map[string]string{},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echocheck.yaml")
	data := `
defaults:
  count: 5
  json: true
  log_level: debug
aliases:
  gw: 192.168.1.1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	want := &Config{
		Defaults: Defaults{Count: 5, JSON: true, LogLevel: "debug"},
		Aliases:  map[string]string{"gw": "192.168.1.1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadFrom() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFrom_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echocheck.yaml")
	if err := os.WriteFile(path, []byte("defaults:\n  quiet: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Defaults.Count != 3 || got.Defaults.LogLevel != "warn" || !got.Defaults.Quiet {
		t.Errorf("Defaults = %+v, want count 3, log level warn, quiet", got.Defaults)
	}
	if got.Aliases == nil {
		t.Error("Aliases = nil, want an empty map")
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFrom(filepath.Join(dir, "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("LoadFrom(missing) error = %v, want not-exist", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("defaults: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(bad); err == nil {
		t.Error("LoadFrom(bad) error = nil, want a parse error")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Defaults.Count = 7
	cfg.Defaults.NoColor = true
	cfg.Aliases["dns"] = "8.8.8.8"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_UsesXDGConfigHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Windows config location")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := DefaultConfig().Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	want := filepath.Join(dir, "echocheck", "config.yaml")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestResolveAliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Aliases["gw"] = "192.168.1.1"
	cfg.Aliases["DNS"] = "8.8.8.8"

	got := cfg.ResolveAliases([]string{"gw", "dns", "example.com"})
	want := []string{"192.168.1.1", "8.8.8.8", "example.com"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveAliases() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateExample_Parses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	if err := os.WriteFile(path, []byte(GenerateExample()), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("example does not parse: %v", err)
	}
	if got.Defaults.Count != 3 {
		t.Errorf("example count = %d, want 3", got.Defaults.Count)
	}
	if got.ResolveAlias("cf") != "1.1.1.1" {
		t.Errorf("example alias cf = %q", got.ResolveAlias("cf"))
	}
}
