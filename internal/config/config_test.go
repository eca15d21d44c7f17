package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EngineBinary != "wasmbox-engine" {
		t.Errorf("EngineBinary = %q", cfg.EngineBinary)
	}
	if cfg.DataDir != "/var/lib/wasmbox" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"engine_binary": "/opt/engine/bin/run", "engine_timeout_sec": 30}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EngineBinary != "/opt/engine/bin/run" {
		t.Errorf("EngineBinary = %q", cfg.EngineBinary)
	}
	if cfg.EngineTimeout() != 30*time.Second {
		t.Errorf("EngineTimeout = %v", cfg.EngineTimeout())
	}
	// untouched fields keep their defaults
	if cfg.DataDir != "/var/lib/wasmbox" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected malformed config to fail")
	}
}

func TestDerivedDirs(t *testing.T) {
	cfg := &Config{DataDir: "/srv/wb"}
	if cfg.InstanceDir() != "/srv/wb/instances" {
		t.Errorf("InstanceDir = %q", cfg.InstanceDir())
	}
	if cfg.ImageCacheDir() != "/srv/wb/images" {
		t.Errorf("ImageCacheDir = %q", cfg.ImageCacheDir())
	}
}
