package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/psout/internal/powershell"
)

const (
	EnvGlobalConfig = "PSOUT_GLOBAL_CONFIG"
	EnvArchitecture = "PSOUT_ARCHITECTURE"
	EnvTimeout      = "PSOUT_TIMEOUT"
	EnvDebug        = "PSOUT_DEBUG"
)

// Load reads the config at path, or the global config when path is empty. A
// missing file yields the defaults. Environment variables override the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GlobalConfig()
	}
	cfg := &Config{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvArchitecture); ok && v != "" {
		c.Architecture = v
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = n
	}
	if v, ok := os.LookupEnv(EnvDebug); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)
		}
		if c.Options == nil {
			c.Options = &Options{}
		}
		c.Options.Debug = debug
	}
	return nil
}

func (c *Config) setDefaults() error {
	arch, err := powershell.ParseArchitecture(c.Architecture)
	if err != nil {
		return fmt.Errorf("invalid architecture in config: %w", err)
	}
	c.arch = arch

	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout in config: %d", c.Timeout)
	}
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = GlobalDataDir()
	}
	if c.Env == nil {
		c.Env = make(map[string]string)
	}
	return nil
}

// GlobalConfig returns the path to the main config file.
func GlobalConfig() string {
	if path := os.Getenv(EnvGlobalConfig); path != "" {
		return path
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, appName+".json")
	}

	// for windows, it should be in `%LOCALAPPDATA%/psout/`
	// for linux and macOS, it should be in `$HOME/.config/psout/`
	if runtime.GOOS == "windows" {
		return filepath.Join(localAppData(), appName, appName+".json")
	}
	return filepath.Join(homeDir(), ".config", appName, appName+".json")
}

// GlobalDataDir returns the directory for logs and other runtime data.
func GlobalDataDir() string {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(localAppData(), appName, "data")
	}
	return filepath.Join(homeDir(), ".local", "share", appName)
}

func localAppData() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
