package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/psout/internal/powershell"
	"github.com/tidwall/sjson"
)

const (
	appName            = "psout"
	defaultLogFilename = "psout.log"
)

type Options struct {
	Debug         bool   `json:"debug,omitempty"`
	DataDirectory string `json:"data_directory,omitempty"`
}

// Config holds the defaults applied to every psout run.
type Config struct {
	// Architecture is i386, x86_64 or empty for the process default.
	Architecture string `json:"architecture,omitempty"`
	// Timeout in seconds. Zero disables it.
	Timeout    int               `json:"timeout,omitempty"`
	WorkingDir string            `json:"working_dir,omitempty"`
	Env        map[string]string `json:"env,omitempty"`

	Options *Options `json:"options,omitempty"`

	// Internal
	path string
	arch powershell.Architecture
}

// Path is the file the config was loaded from and is written back to.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Arch() powershell.Architecture {
	return c.arch
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// EnvList returns Env as sorted KEY=VALUE entries.
func (c *Config) EnvList() []string {
	keys := slices.Sorted(maps.Keys(c.Env))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+c.Env[k])
	}
	return env
}

// LogFile is where the CLI writes its log.
func (c *Config) LogFile() string {
	return filepath.Join(c.Options.DataDirectory, "logs", defaultLogFilename)
}

// RunOptions converts the config into executor options.
func (c *Config) RunOptions() powershell.Options {
	return powershell.Options{
		Architecture: c.arch,
		RunOptions: powershell.RunOptions{
			Dir:     c.WorkingDir,
			Env:     c.EnvList(),
			Timeout: c.TimeoutDuration(),
		},
	}
}

func (c *Config) SetConfigField(key string, value any) error {
	return SetField(c.path, key, value)
}

// SetField writes key into the JSON file at path without validating the rest
// of the file, so a broken config can still be repaired.
func SetField(path, key string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ParseFieldValue converts a command-line value for key into the JSON type the
// config expects.
func ParseFieldValue(key, raw string) (any, error) {
	switch key {
	case "architecture":
		if _, err := powershell.ParseArchitecture(raw); err != nil {
			return nil, err
		}
		return raw, nil
	case "timeout":
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("timeout must be a non-negative number of seconds, got %q", raw)
		}
		return n, nil
	case "options.debug":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("options.debug must be a boolean, got %q", raw)
		}
		return b, nil
	case "working_dir", "options.data_directory":
		return raw, nil
	}
	if name, ok := strings.CutPrefix(key, "env."); ok && name != "" {
		return raw, nil
	}
	return nil, fmt.Errorf("unknown config field %q", key)
}
