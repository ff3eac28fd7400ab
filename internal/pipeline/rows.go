// Package pipeline maps lookup outcomes onto the stable CSV output contract
// and drives the batch over the worker pool.
package pipeline

import (
	"context"
	"time"

	"github.com/7azmi/hr-finder/internal/lookup"
	"github.com/7azmi/hr-finder/internal/worker"
)

// NotAvailable is the sentinel written for absent fields.
const NotAvailable = "N/A"

// Row is the stable output schema: one row per deduplicated domain.
type Row struct {
	Domain   string
	Category string

	FoundName     string
	FoundEmail    string
	EmailVerified string
	JobTitle      string
	LinkedInURL   string

	SearchSuccess       string
	APIErrorType        string
	APIErrorExplanation string
}

type Options struct {
	Workers        int
	MaxRetries     int
	RequestTimeout time.Duration
	RateLimitRPS   float64
	FailFast       bool
}

// Header returns the stable CSV header for Row.
func Header() []string {
	return []string{
		"Domain Searched",
		"Category Searched",
		"Found Name",
		"Found Email",
		"Email Verified",
		"Job Title",
		"LinkedIn URL",
		"Search Success",
		"API Error Type",
		"API Error Explanation",
	}
}

// RowFor flattens one classified lookup outcome into a Row.
func RowFor(domain, category string, res lookup.Result) Row {
	row := Row{
		Domain:   domain,
		Category: category,

		FoundName:     NotAvailable,
		FoundEmail:    NotAvailable,
		EmailVerified: NotAvailable,
		JobTitle:      NotAvailable,
		LinkedInURL:   NotAvailable,

		SearchSuccess:       "False",
		APIErrorType:        NotAvailable,
		APIErrorExplanation: NotAvailable,
	}

	switch res.Outcome {
	case lookup.OutcomeFound:
		row.SearchSuccess = "True"
		row.FoundName = orNA(res.Person.FullName)
		row.FoundEmail = orNA(res.Person.Email)
		row.EmailVerified = boolString(res.Person.EmailVerified)
		row.JobTitle = orNA(res.Person.JobTitle)
		row.LinkedInURL = orNA(res.Person.LinkedInURL)
	case lookup.OutcomeAPIError, lookup.OutcomeNoResult:
		row.APIErrorType = orNA(res.ErrorKind)
		row.APIErrorExplanation = orNA(res.ErrorExplanation)
	}
	return row
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// LookupDomains runs the searcher over all domains and returns one row per
// domain, in input order. Per-domain failures become rows, never run errors.
func LookupDomains(ctx context.Context, domains []string, category string, searcher lookup.Searcher, opts Options) ([]Row, error) {
	return LookupDomainsStream(ctx, domains, category, searcher, opts, nil)
}

// LookupDomainsStream is LookupDomains with a per-row callback invoked in
// completion order as each domain resolves, so callers can persist rows
// immediately. The returned slice is still in input order.
func LookupDomainsStream(
	ctx context.Context,
	domains []string,
	category string,
	searcher lookup.Searcher,
	opts Options,
	onRow func(Row) error,
) ([]Row, error) {
	policy := worker.FailurePolicyPartialOutput
	if opts.FailFast {
		policy = worker.FailurePolicyFailFast
	}

	processor := func(reqCtx context.Context, domain string) (lookup.Result, error) {
		return searcher.Search(reqCtx, domain, category)
	}

	var callback func(worker.Result[string, lookup.Result]) error
	if onRow != nil {
		callback = func(item worker.Result[string, lookup.Result]) error {
			return onRow(rowForItem(category, item))
		}
	}

	out, err := worker.ProcessAllWithCallback(ctx, domains, processor, callback, worker.Options{
		Workers:        opts.Workers,
		MaxRetries:     opts.MaxRetries,
		RequestTimeout: opts.RequestTimeout,
		RateLimitRPS:   opts.RateLimitRPS,
		FailurePolicy:  policy,
		BackoffInitial: 200 * time.Millisecond,
		BackoffMax:     2 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(out))
	for _, item := range out {
		rows = append(rows, rowForItem(category, item))
	}
	return rows, nil
}

func rowForItem(category string, item worker.Result[string, lookup.Result]) Row {
	if item.Err != nil {
		// Retries (if any) are exhausted; fold the transport fault into the
		// taxonomy so the run keeps going.
		return RowFor(item.Input, category, lookup.Classify(item.Err))
	}
	return RowFor(item.Input, category, item.Output)
}
