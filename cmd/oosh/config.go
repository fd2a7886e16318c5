package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/gnostr-org/tcl/oo"
)

// shellConfig holds the settings read from oosh.yaml or oosh.toml.
type shellConfig struct {
	Prompt       string   `yaml:"prompt" toml:"prompt"`
	HistorySize  int      `yaml:"history_size" toml:"history_size"`
	CloneMode    string   `yaml:"clone_mode" toml:"clone_mode"`
	MaxCallDepth int      `yaml:"max_call_depth" toml:"max_call_depth"`
	Startup      []string `yaml:"startup" toml:"startup"`
	LogLevel     string   `yaml:"log_level" toml:"log_level"`
}

func defaultShellConfig() *shellConfig {
	return &shellConfig{
		Prompt:       "oo> ",
		HistorySize:  200,
		CloneMode:    "shallow",
		MaxCallDepth: 1000,
		LogLevel:     "warn",
	}
}

// loadShellConfig reads path, picking the decoder by extension. A missing
// file yields the defaults. Environment overrides apply either way.
func loadShellConfig(path string) (*shellConfig, error) {
	cfg := defaultShellConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := decodeShellConfig(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeShellConfig(path string, data []byte, cfg *shellConfig) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse error in %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse error in %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

func (c *shellConfig) applyEnvOverrides() error {
	if v := os.Getenv("OOSH_PROMPT"); v != "" {
		c.Prompt = v
	}
	if v := os.Getenv("OOSH_CLONE_MODE"); v != "" {
		c.CloneMode = v
	}
	if v := os.Getenv("OOSH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OOSH_HISTORY_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OOSH_HISTORY_SIZE: %w", err)
		}
		c.HistorySize = n
	}
	if v := os.Getenv("OOSH_MAX_CALL_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OOSH_MAX_CALL_DEPTH: %w", err)
		}
		c.MaxCallDepth = n
	}
	return nil
}

func (c *shellConfig) validate() error {
	if _, err := oo.ParseCloneMode(c.CloneMode); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history size must not be negative, got %d", c.HistorySize)
	}
	return nil
}

// interpConfig converts the shell settings into library settings.
func (c *shellConfig) interpConfig() oo.Config {
	mode, _ := oo.ParseCloneMode(c.CloneMode)
	return oo.Config{CloneMode: mode, MaxCallDepth: c.MaxCallDepth}
}
