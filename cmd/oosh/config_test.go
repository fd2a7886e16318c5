package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gnostr-org/tcl/oo"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadShellConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadShellConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(defaultShellConfig(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadShellConfigFormats(t *testing.T) {
	want := &shellConfig{
		Prompt:       "tcl% ",
		HistorySize:  50,
		CloneMode:    "deep",
		MaxCallDepth: 64,
		Startup:      []string{"::oo::class create Base"},
		LogLevel:     "debug",
	}

	yamlPath := writeConfig(t, "oosh.yaml", `prompt: "tcl% "
history_size: 50
clone_mode: deep
max_call_depth: 64
startup:
  - "::oo::class create Base"
log_level: debug
`)
	tomlPath := writeConfig(t, "oosh.toml", `prompt = "tcl% "
history_size = 50
clone_mode = "deep"
max_call_depth = 64
startup = ["::oo::class create Base"]
log_level = "debug"
`)

	for _, path := range []string{yamlPath, tomlPath} {
		cfg, err := loadShellConfig(path)
		if err != nil {
			t.Fatalf("load %s: %v", filepath.Base(path), err)
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Fatalf("%s: unexpected config (-want +got):\n%s", filepath.Base(path), diff)
		}
	}
}

func TestLoadShellConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "oosh.yaml", "prompt: file> \nhistory_size: 10\n")
	t.Setenv("OOSH_PROMPT", "env> ")
	t.Setenv("OOSH_HISTORY_SIZE", "99")
	t.Setenv("OOSH_CLONE_MODE", "deep")
	t.Setenv("OOSH_MAX_CALL_DEPTH", "12")

	cfg, err := loadShellConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Prompt != "env> " || cfg.HistorySize != 99 || cfg.MaxCallDepth != 12 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if got := cfg.interpConfig(); got.CloneMode != oo.CloneDeep || got.MaxCallDepth != 12 {
		t.Fatalf("unexpected interp config %+v", got)
	}

	t.Setenv("OOSH_HISTORY_SIZE", "lots")
	if _, err := loadShellConfig(path); err == nil || !strings.Contains(err.Error(), "OOSH_HISTORY_SIZE") {
		t.Fatalf("expected history size error, got %v", err)
	}
}

func TestLoadShellConfigRejectsInvalidValues(t *testing.T) {
	for name, tc := range map[string]struct {
		file string
		body string
		want string
	}{
		"clone mode": {file: "a.yaml", body: "clone_mode: sideways\n", want: "unknown clone mode"},
		"log level":  {file: "b.yaml", body: "log_level: loud\n", want: "log level"},
		"history":    {file: "c.yaml", body: "history_size: -1\n", want: "must not be negative"},
		"format":     {file: "d.ini", body: "prompt=x\n", want: "unsupported config format"},
		"syntax":     {file: "e.toml", body: "prompt = \n", want: "parse error"},
	} {
		_, err := loadShellConfig(writeConfig(t, tc.file, tc.body))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", name, tc.want, err)
		}
	}
}
