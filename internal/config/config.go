// Package config loads the CLI configuration. A missing config file is not
// an error: defaults apply, and a partial file overlays them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultConfigDir is the default config directory name under $HOME.
	DefaultConfigDir = ".wasmbox"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.json"
)

// Config holds host-side settings shared by all commands.
type Config struct {
	// EngineBinary is the external sandbox engine executable.
	EngineBinary string `json:"engine_binary"`
	// DataDir holds engine instance directories and the pulled-image cache.
	DataDir string `json:"data_dir"`
	// RegistryPath is the deployment/run registry database. Empty disables
	// recording.
	RegistryPath string `json:"registry_path"`
	// EngineMemoryMB caps guest memory. Zero uses the engine default.
	EngineMemoryMB int `json:"engine_memory_mb"`
	// EngineTimeoutSec caps one run. Zero means no cap.
	EngineTimeoutSec int `json:"engine_timeout_sec"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		EngineBinary:     "wasmbox-engine",
		DataDir:          "/var/lib/wasmbox",
		RegistryPath:     "/var/lib/wasmbox/wasmbox.db",
		EngineMemoryMB:   0,
		EngineTimeoutSec: 0,
	}
}

// Path returns the default config file location (~/.wasmbox/config.json).
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultConfigDir, DefaultConfigFile)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// Load reads the configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// EngineTimeout returns the run cap as a duration.
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.EngineTimeoutSec) * time.Second
}

// InstanceDir is where engine instance directories are created.
func (c *Config) InstanceDir() string {
	return filepath.Join(c.DataDir, "instances")
}

// ImageCacheDir is where registry-pulled images are cached.
func (c *Config) ImageCacheDir() string {
	return filepath.Join(c.DataDir, "images")
}
