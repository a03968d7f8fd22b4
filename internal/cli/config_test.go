package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Textrux/textrux/pkg/structure"
)

func TestLoadConfigDefaults(t *testing.T) {
	// An empty path with no file at the default location yields defaults.
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Margin != structure.DefaultMargin {
		t.Errorf("Margin = %d, want %d", cfg.Analysis.Margin, structure.DefaultMargin)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
cache_dir = "/tmp/textrux-cache"

[analysis]
margin = 3
sub_margin = 2
clip_to_bounds = true

[server]
addr = ":9090"
store = "file"
cache = "redis"
redis_addr = "redis.internal:6379"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Margin != 3 || cfg.Analysis.SubMargin != 2 {
		t.Errorf("Analysis = %+v, want margin 3, sub-margin 2", cfg.Analysis)
	}
	if !cfg.Analysis.ClipToBounds {
		t.Error("ClipToBounds should be true")
	}
	if cfg.CacheDir != "/tmp/textrux-cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Store != "file" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.RedisAddr != "redis.internal:6379" {
		t.Errorf("RedisAddr = %q", cfg.Server.RedisAddr)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nmargin = 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Margin != 4 {
		t.Errorf("Margin = %d, want 4", cfg.Analysis.Margin)
	}
	// Unset fields keep their defaults.
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default :8080", cfg.Server.Addr)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("explicitly given missing file should error")
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid TOML should error")
	}
}
