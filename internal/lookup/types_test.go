package lookup_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/7azmi/hr-finder/internal/lookup"
)

func TestAPIErrorAppliesDefaults(t *testing.T) {
	t.Parallel()

	res := lookup.APIError("", "")
	if res.ErrorKind != lookup.UnknownErrorKind {
		t.Errorf("kind: want %q got %q", lookup.UnknownErrorKind, res.ErrorKind)
	}
	if res.ErrorExplanation != lookup.NoExplanationProvided {
		t.Errorf("explanation: want %q got %q", lookup.NoExplanationProvided, res.ErrorExplanation)
	}

	res = lookup.APIError("payment_needed", "Out of credits.")
	if res.ErrorKind != "payment_needed" || res.ErrorExplanation != "Out of credits." {
		t.Errorf("explicit fields clobbered: %#v", res)
	}
}

func TestClassifyKindedError(t *testing.T) {
	t.Parallel()

	err := &lookup.TransientError{Err: &lookup.KindedError{
		Kind:        lookup.KindConnectionError,
		Explanation: "Connection error.",
		Err:         errors.New("dial tcp: connection refused"),
	}}

	res := lookup.Classify(err)
	if res.Outcome != lookup.OutcomeAPIError || res.ErrorKind != lookup.KindConnectionError {
		t.Fatalf("unexpected result: %#v", res)
	}
	if res.ErrorExplanation != "Connection error." {
		t.Fatalf("unexpected explanation: %q", res.ErrorExplanation)
	}
}

func TestClassifyDeadlineExceeded(t *testing.T) {
	t.Parallel()

	res := lookup.Classify(context.DeadlineExceeded)
	if res.ErrorKind != lookup.KindTimeout {
		t.Fatalf("expected timeout kind, got %#v", res)
	}
}

func TestClassifyUnknownErrorRedactsSecrets(t *testing.T) {
	t.Parallel()

	res := lookup.Classify(errors.New(`request failed: Authorization: Bearer sk-live-12345`))
	if res.ErrorKind != lookup.KindUnexpectedError {
		t.Fatalf("expected unexpected_error kind, got %#v", res)
	}
	if !strings.Contains(res.ErrorExplanation, "Bearer <redacted>") {
		t.Fatalf("explanation not redacted: %q", res.ErrorExplanation)
	}
	if strings.Contains(res.ErrorExplanation, "sk-live-12345") {
		t.Fatalf("token leaked into explanation: %q", res.ErrorExplanation)
	}
}
