// Package lookup defines the closed result taxonomy for a single
// decision-maker search: a lookup either found a person, surfaced an API
// error, or completed with no match. Classification happens exactly once,
// in the API client; everything downstream switches on Outcome.
package lookup

import (
	"context"
	"errors"

	"github.com/7azmi/hr-finder/internal/util"
)

// Outcome tags the variant of a Result.
type Outcome int

const (
	// OutcomeFound means the API returned a decision-maker match.
	OutcomeFound Outcome = iota
	// OutcomeAPIError covers transport faults and API-reported errors alike.
	OutcomeAPIError
	// OutcomeNoResult means the call succeeded but nothing matched.
	OutcomeNoResult
)

// Error kinds produced by classification. API-reported codes (e.g.
// "not_found", "payment_needed") are passed through verbatim and are not
// enumerated here.
const (
	KindTimeout         = "timeout"
	KindConnectionError = "connection_error"
	KindAPIError        = "api_error"
	KindUnexpectedError = "unexpected_error"
	KindNoResultFound   = "no_result_found"
)

// Defaults used when the API reports failure without naming a reason.
const (
	UnknownErrorKind      = "Unknown"
	NoExplanationProvided = "No explanation provided."
	noResultExplanation   = "API call successful but no result found or unexpected response structure."
)

// Person is the decision-maker payload of a successful lookup. Missing
// fields stay empty; the output layer renders them as "N/A".
type Person struct {
	FullName      string
	Email         string
	EmailVerified bool
	JobTitle      string
	LinkedInURL   string
}

// Result is the tagged outcome of one lookup.
type Result struct {
	Outcome Outcome
	Person  Person

	// ErrorKind and ErrorExplanation are set for OutcomeAPIError and
	// OutcomeNoResult variants.
	ErrorKind        string
	ErrorExplanation string
}

// Found wraps a matched person.
func Found(p Person) Result {
	return Result{Outcome: OutcomeFound, Person: p}
}

// APIError builds an error result, applying the documented defaults when the
// API omitted the fields.
func APIError(kind, explanation string) Result {
	if kind == "" {
		kind = UnknownErrorKind
	}
	if explanation == "" {
		explanation = NoExplanationProvided
	}
	return Result{Outcome: OutcomeAPIError, ErrorKind: kind, ErrorExplanation: explanation}
}

// NoResult marks a successful call that matched nobody.
func NoResult() Result {
	return Result{
		Outcome:          OutcomeNoResult,
		ErrorKind:        KindNoResultFound,
		ErrorExplanation: noResultExplanation,
	}
}

// Searcher looks up a decision maker for one normalized domain.
type Searcher interface {
	Search(ctx context.Context, domain, category string) (Result, error)
}

// TransientError marks a transport-level fault as retryable.
//
// With the default zero retry budget each domain is still attempted exactly
// once; the marker only matters when retries are explicitly enabled.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindedError tags a transport fault with its taxonomy kind so the error can
// be folded back into a Result once retries are exhausted.
type KindedError struct {
	Kind        string
	Explanation string
	Err         error
}

func (e *KindedError) Error() string {
	if e.Err != nil {
		return e.Kind + ": " + e.Err.Error()
	}
	return e.Kind
}

func (e *KindedError) Unwrap() error { return e.Err }

// Classify converts an error from a Searcher into an APIError result so a
// run can record the failure as a row and continue.
func Classify(err error) Result {
	var ke *KindedError
	if errors.As(err, &ke) {
		return APIError(ke.Kind, ke.Explanation)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return APIError(KindTimeout, "Request timed out.")
	}
	return APIError(KindUnexpectedError, util.RedactSecrets(err.Error()))
}
