package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/7azmi/hr-finder/internal/config"
)

func TestDefaultReproducesReferenceBehavior(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	if cfg.Category != "hr" {
		t.Errorf("category: want hr got %q", cfg.Category)
	}
	if cfg.Timeout != 180*time.Second {
		t.Errorf("timeout: want 180s got %s", cfg.Timeout)
	}
	if cfg.Workers != 1 || cfg.MaxRetries != 0 {
		t.Errorf("expected sequential single-attempt defaults, got workers=%d retries=%d", cfg.Workers, cfg.MaxRetries)
	}
	if cfg.RateLimitRPS != 10 {
		t.Errorf("rate limit: want 10 got %g", cfg.RateLimitRPS)
	}
}

func TestLoadFileOverridesOnlyNamedKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hrfinder.yaml")
	err := os.WriteFile(path, []byte(
		"category: sales\ntimeout: 30s\nworkers: 4\n",
	), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadFile(path, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Category != "sales" || cfg.Timeout != 30*time.Second || cfg.Workers != 4 {
		t.Fatalf("overrides not applied: %#v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.InputPath != "domains.txt" || cfg.RateLimitRPS != 10 {
		t.Fatalf("defaults clobbered: %#v", cfg)
	}
}

func TestLoadFileRejectsBadTimeout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hrfinder.yaml")
	if err := os.WriteFile(path, []byte("timeout: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.LoadFile(path, config.Default()); err == nil {
		t.Fatal("expected error for unparsable timeout")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HRFINDER_CATEGORY", "finance")
	t.Setenv("HRFINDER_WORKERS", "3")
	t.Setenv("HRFINDER_FAIL_FAST", "true")
	t.Setenv("HRFINDER_TIMEOUT", "45s")

	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Category != "finance" || cfg.Workers != 3 || !cfg.FailFast || cfg.Timeout != 45*time.Second {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("HRFINDER_WORKERS", "many")

	if _, err := config.FromEnv(config.Default()); err == nil {
		t.Fatal("expected error for invalid HRFINDER_WORKERS")
	}
}
