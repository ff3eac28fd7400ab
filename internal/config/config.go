// Package config assembles the immutable run configuration. Precedence is
// flags > environment > config file > defaults; the dispatcher only ever
// sees the final value, never the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full set of knobs for one run.
type Config struct {
	InputPath  string
	OutputPath string

	// Category is fixed for the entire run; it is not per-domain.
	Category string

	BaseURL string
	Timeout time.Duration

	// RateLimitRPS paces requests globally. The default of 10 reproduces the
	// reference ~0.1s courtesy delay at a single worker.
	RateLimitRPS float64
	Workers      int
	MaxRetries   int
	FailFast     bool

	// Resume reuses successful rows from a prior output file instead of
	// re-querying those domains.
	Resume bool
}

// Default returns the configuration that reproduces the reference behavior:
// sequential, one attempt per domain, 180s timeout, category "hr".
func Default() Config {
	return Config{
		InputPath:    "domains.txt",
		OutputPath:   "hr_emails_results_bulk.csv",
		Category:     "hr",
		Timeout:      180 * time.Second,
		RateLimitRPS: 10,
		Workers:      1,
		MaxRetries:   0,
	}
}

// fileConfig mirrors the YAML config file. Pointers distinguish "absent"
// from zero values so the file only overrides what it names.
type fileConfig struct {
	Input        *string  `yaml:"input"`
	Output       *string  `yaml:"output"`
	Category     *string  `yaml:"category"`
	BaseURL      *string  `yaml:"base_url"`
	Timeout      *string  `yaml:"timeout"`
	RateLimitRPS *float64 `yaml:"rate_limit_rps"`
	Workers      *int     `yaml:"workers"`
	MaxRetries   *int     `yaml:"max_retries"`
	FailFast     *bool    `yaml:"fail_fast"`
	Resume       *bool    `yaml:"resume"`
}

// LoadFile applies a YAML config file on top of base.
func LoadFile(path string, base Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	out := base
	if fc.Input != nil {
		out.InputPath = strings.TrimSpace(*fc.Input)
	}
	if fc.Output != nil {
		out.OutputPath = strings.TrimSpace(*fc.Output)
	}
	if fc.Category != nil {
		out.Category = strings.TrimSpace(*fc.Category)
	}
	if fc.BaseURL != nil {
		out.BaseURL = strings.TrimSpace(*fc.BaseURL)
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*fc.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("invalid timeout in config file: %w", err)
		}
		out.Timeout = d
	}
	if fc.RateLimitRPS != nil {
		out.RateLimitRPS = *fc.RateLimitRPS
	}
	if fc.Workers != nil {
		out.Workers = *fc.Workers
	}
	if fc.MaxRetries != nil {
		out.MaxRetries = *fc.MaxRetries
	}
	if fc.FailFast != nil {
		out.FailFast = *fc.FailFast
	}
	if fc.Resume != nil {
		out.Resume = *fc.Resume
	}
	return out, nil
}

// FromEnv applies HRFINDER_* environment overrides on top of base.
func FromEnv(base Config) (Config, error) {
	out := base

	if v := strings.TrimSpace(os.Getenv("HRFINDER_INPUT")); v != "" {
		out.InputPath = v
	}
	if v := strings.TrimSpace(os.Getenv("HRFINDER_OUTPUT")); v != "" {
		out.OutputPath = v
	}
	if v := strings.TrimSpace(os.Getenv("HRFINDER_CATEGORY")); v != "" {
		out.Category = v
	}
	if v := strings.TrimSpace(os.Getenv("HRFINDER_BASE_URL")); v != "" {
		out.BaseURL = v
	}

	var err error
	if out.Timeout, err = envDuration("HRFINDER_TIMEOUT", base.Timeout); err != nil {
		return Config{}, err
	}
	if out.RateLimitRPS, err = envFloat("HRFINDER_RATE_LIMIT_RPS", base.RateLimitRPS); err != nil {
		return Config{}, err
	}
	if out.Workers, err = envInt("HRFINDER_WORKERS", base.Workers); err != nil {
		return Config{}, err
	}
	if out.MaxRetries, err = envInt("HRFINDER_MAX_RETRIES", base.MaxRetries); err != nil {
		return Config{}, err
	}
	if out.FailFast, err = envBool("HRFINDER_FAIL_FAST", base.FailFast); err != nil {
		return Config{}, err
	}
	if out.Resume, err = envBool("HRFINDER_RESUME", base.Resume); err != nil {
		return Config{}, err
	}
	return out, nil
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envBool(varName string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
