package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	l := &Loader{searchPaths: []string{filepath.Join(t.TempDir(), "missing.yaml")}}
	cfg, err := l.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scanner.MaxFiles != 2000 {
		t.Errorf("MaxFiles = %d, want 2000", cfg.Scanner.MaxFiles)
	}
	if cfg.Limits.MaxFileBytes != 1_000_000 {
		t.Errorf("MaxFileBytes = %d, want 1000000", cfg.Limits.MaxFileBytes)
	}
	if !cfg.Scanner.RespectGitignore {
		t.Error("RespectGitignore should default to true")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	t.Setenv("LEGACY_ANALYZER_TEST_WORKERS", "3")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
scanner:
  max_files: 50
  ignore_dirs: [generated]
concurrency:
  workers: ${LEGACY_ANALYZER_TEST_WORKERS}
limits:
  timeout: 30s
severity:
  min_severity: ${LEGACY_ANALYZER_UNSET:-medium}
  overrides:
    py-str-format: MEDIUM
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scanner.MaxFiles != 50 {
		t.Errorf("MaxFiles = %d, want 50", cfg.Scanner.MaxFiles)
	}
	if len(cfg.Scanner.IgnoreDirs) != 1 || cfg.Scanner.IgnoreDirs[0] != "generated" {
		t.Errorf("IgnoreDirs = %v", cfg.Scanner.IgnoreDirs)
	}
	if cfg.Concurrency.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Concurrency.Workers)
	}
	if cfg.Limits.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Limits.Timeout)
	}
	if cfg.Severity.MinSeverity != "medium" {
		t.Errorf("MinSeverity = %q, want medium", cfg.Severity.MinSeverity)
	}
	if cfg.Severity.Overrides["py-str-format"] != "MEDIUM" {
		t.Errorf("Overrides = %v", cfg.Severity.Overrides)
	}
	// untouched sections keep defaults
	if cfg.Output.HotspotsTopN != 10 {
		t.Errorf("HotspotsTopN = %d, want 10", cfg.Output.HotspotsTopN)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scanner: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader().Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LEGACY_ANALYZER_SET", "value")

	cases := []struct {
		in   string
		want string
	}{
		{"${LEGACY_ANALYZER_SET}", "value"},
		{"${LEGACY_ANALYZER_MISSING}", ""},
		{"${LEGACY_ANALYZER_MISSING:-fallback}", "fallback"},
		{"${LEGACY_ANALYZER_SET:-fallback}", "value"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := expandEnvVars(tc.in); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
