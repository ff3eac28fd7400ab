// Package app orchestrates a full batch run: load domains, look each one up,
// stream rows to the output CSV, and report a summary.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/7azmi/hr-finder/internal/config"
	"github.com/7azmi/hr-finder/internal/domain"
	"github.com/7azmi/hr-finder/internal/lookup"
	"github.com/7azmi/hr-finder/internal/pipeline"
)

// Summary aggregates the outcome of one run.
type Summary struct {
	Total   int
	Found   int
	Failed  int
	Reused  int
	Elapsed time.Duration
}

// Run executes one batch lookup run.
//
// Per-domain failures become output rows and never abort the run. The errors
// Run does return are the fatal preconditions (unreadable input, empty domain
// set, unwritable output) plus context cancellation and fail-fast.
func Run(ctx context.Context, cfg config.Config, searcher lookup.Searcher, logger *log.Logger, progressW io.Writer) (Summary, error) {
	start := time.Now()

	domains, err := domain.LoadFile(cfg.InputPath)
	if err != nil {
		return Summary{}, err
	}
	if len(domains) == 0 {
		return Summary{}, fmt.Errorf("no valid domains found in %s after cleaning", cfg.InputPath)
	}
	logger.Printf("read and cleaned %d unique domains from %s", len(domains), cfg.InputPath)

	var prior map[string]pipeline.Row
	if cfg.Resume {
		prior, err = loadPriorRows(cfg.OutputPath)
		if err != nil {
			return Summary{}, err
		}
		logger.Printf("resume: %d prior successful rows available from %s", len(prior), cfg.OutputPath)
	}

	outF, err := os.Create(cfg.OutputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		_ = outF.Close()
	}()

	w := pipeline.NewCSVWriter(outF)
	if err := w.WriteHeader(); err != nil {
		return Summary{}, err
	}

	opts := pipeline.Options{
		Workers:        cfg.Workers,
		MaxRetries:     cfg.MaxRetries,
		RequestTimeout: cfg.Timeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		FailFast:       cfg.FailFast,
	}
	progress := newProgressPrinter(progressW, len(domains))

	var rows []pipeline.Row
	reused := 0
	if len(prior) > 0 {
		rows, reused, err = lookupWithResume(ctx, domains, prior, cfg.Category, searcher, opts, progress, w)
		if err != nil {
			return Summary{}, err
		}
	} else {
		// Each row hits the file the moment its domain is classified, so an
		// interrupted run keeps everything resolved so far.
		rows, err = pipeline.LookupDomainsStream(ctx, domains, cfg.Category, searcher, opts, func(r pipeline.Row) error {
			progress.row(r)
			return w.WriteRow(r)
		})
		if err != nil {
			return Summary{}, err
		}
	}

	if err := outF.Close(); err != nil {
		return Summary{}, fmt.Errorf("close output file: %w", err)
	}

	summary := Summary{
		Total:   len(rows),
		Reused:  reused,
		Elapsed: time.Since(start),
	}
	for _, r := range rows {
		if r.SearchSuccess == "True" {
			summary.Found++
		} else {
			summary.Failed++
		}
	}
	logger.Printf(
		"run complete: total=%d found=%d failed=%d reused=%d duration=%s output=%s",
		summary.Total,
		summary.Found,
		summary.Failed,
		summary.Reused,
		summary.Elapsed.Round(time.Millisecond),
		cfg.OutputPath,
	)
	return summary, nil
}

// lookupWithResume reuses prior successful rows and only queries the rest.
//
// Reused rows hit the file before the first lookup starts and fresh rows are
// written as they resolve, so a failed or killed resume run never holds fewer
// durable rows than the prior output it started from.
func lookupWithResume(
	ctx context.Context,
	domains []string,
	prior map[string]pipeline.Row,
	category string,
	searcher lookup.Searcher,
	opts pipeline.Options,
	progress *progressPrinter,
	w *pipeline.CSVWriter,
) ([]pipeline.Row, int, error) {
	rows := make([]pipeline.Row, 0, len(domains))
	var pending []string
	for _, d := range domains {
		r, ok := prior[d]
		if !ok {
			pending = append(pending, d)
			continue
		}
		progress.reusedRow(r)
		if err := w.WriteRow(r); err != nil {
			return nil, 0, err
		}
		rows = append(rows, r)
	}
	reused := len(rows)

	if len(pending) > 0 {
		fresh, err := pipeline.LookupDomainsStream(ctx, pending, category, searcher, opts, func(r pipeline.Row) error {
			progress.row(r)
			return w.WriteRow(r)
		})
		if err != nil {
			return nil, reused, err
		}
		rows = append(rows, fresh...)
	}
	return rows, reused, nil
}

// loadPriorRows reads a prior output file and indexes its successful rows by
// domain. A missing file is not an error; a first run simply has no prior.
func loadPriorRows(path string) (map[string]pipeline.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]pipeline.Row{}, nil
		}
		return nil, fmt.Errorf("open prior output: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := pipeline.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse prior output: %w", err)
	}

	out := make(map[string]pipeline.Row, len(rows))
	for _, r := range rows {
		if r.Domain == "" || r.SearchSuccess != "True" {
			continue
		}
		out[r.Domain] = r
	}
	return out, nil
}
