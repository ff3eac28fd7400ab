package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/7azmi/hr-finder/internal/anymailfinder"
	"github.com/7azmi/hr-finder/internal/app"
	"github.com/7azmi/hr-finder/internal/config"
	"github.com/7azmi/hr-finder/internal/util"
	"github.com/7azmi/hr-finder/internal/version"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	// Best effort: a .env file is optional.
	_ = godotenv.Load()

	defaults := config.Default()

	fs := flag.NewFlagSet("hrfinder", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { usage(os.Stderr, fs) }

	configPath := fs.String("config", strings.TrimSpace(os.Getenv("HRFINDER_CONFIG")), "Optional YAML config file (env: HRFINDER_CONFIG)")
	input := fs.String("input", defaults.InputPath, "Input text file, one domain per line (env: HRFINDER_INPUT)")
	output := fs.String("output", defaults.OutputPath, "Output CSV file path (env: HRFINDER_OUTPUT)")
	category := fs.String("category", defaults.Category, "Decision-maker category for the whole run (env: HRFINDER_CATEGORY)")
	baseURL := fs.String("base-url", defaults.BaseURL, "API base URL override, e.g. a mock server (env: HRFINDER_BASE_URL)")
	timeout := fs.Duration("timeout", defaults.Timeout, "Per-request timeout (env: HRFINDER_TIMEOUT)")
	rateLimitRPS := fs.Float64("rate-limit-rps", defaults.RateLimitRPS, "Courtesy pacing between requests, 0 disables (env: HRFINDER_RATE_LIMIT_RPS)")
	workers := fs.Int("workers", defaults.Workers, "Concurrent lookup workers (env: HRFINDER_WORKERS)")
	maxRetries := fs.Int("max-retries", defaults.MaxRetries, "Retries for transient transport faults (env: HRFINDER_MAX_RETRIES)")
	failFast := fs.Bool("fail-fast", defaults.FailFast, "Abort the run on the first lookup failure (env: HRFINDER_FAIL_FAST)")
	resume := fs.Bool("resume", defaults.Resume, "Reuse successful rows from a prior output file (env: HRFINDER_RESUME)")
	showVersion := fs.Bool("version", false, "Print the version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		_, _ = fmt.Fprintf(os.Stdout, "hrfinder %s\n", version.Current)
		return 0
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath, cfg)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", util.RedactSecrets(err.Error()))
			return 2
		}
	}
	cfg, err := config.FromEnv(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	// Flags the user set explicitly win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *input
		case "output":
			cfg.OutputPath = *output
		case "category":
			cfg.Category = *category
		case "base-url":
			cfg.BaseURL = *baseURL
		case "timeout":
			cfg.Timeout = *timeout
		case "rate-limit-rps":
			cfg.RateLimitRPS = *rateLimitRPS
		case "workers":
			cfg.Workers = *workers
		case "max-retries":
			cfg.MaxRetries = *maxRetries
		case "fail-fast":
			cfg.FailFast = *failFast
		case "resume":
			cfg.Resume = *resume
		}
	})

	apiKey, err := resolveAPIKey(os.Stdin, os.Stderr)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
		return 2
	}

	client, err := anymailfinder.New(anymailfinder.Config{
		APIKey:  apiKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "client error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	summary, err := app.Run(ctx, cfg, client, logger, os.Stdout)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "run failed: %s\n", util.RedactSecrets(err.Error()))
		return 1
	}

	_, _ = fmt.Fprintf(os.Stdout, "\nFinished: %d domains, %d found, %d failed (in %s). Results saved to %s\n",
		summary.Total,
		summary.Found,
		summary.Failed,
		summary.Elapsed.Round(time.Second),
		cfg.OutputPath,
	)
	return 0
}

// resolveAPIKey prefers the environment variable and falls back to an
// interactive prompt. The dispatcher itself never touches stdin; credential
// acquisition ends here.
func resolveAPIKey(in *os.File, promptW *os.File) (string, error) {
	if key := strings.TrimSpace(os.Getenv("ANYMAILFINDER_API_KEY")); key != "" {
		return key, nil
	}

	_, _ = fmt.Fprint(promptW, "Please enter your Anymailfinder API Key: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("API key is required (set ANYMAILFINDER_API_KEY)")
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return "", fmt.Errorf("API key is required (set ANYMAILFINDER_API_KEY)")
	}
	return key, nil
}

func usage(w *os.File, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, `hrfinder: batch decision-maker lookup over a list of company domains

Reads domains (one per line), queries the Anymailfinder decision-maker API
for each unique domain, and writes a CSV of results.

Usage:
  hrfinder [flags]

Environment:
  ANYMAILFINDER_API_KEY  Bearer token for the API (prompted for when unset)
  HRFINDER_*             Mirrors each flag; flags take precedence

Flags:
`)
	fs.PrintDefaults()
}
