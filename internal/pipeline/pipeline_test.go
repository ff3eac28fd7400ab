package pipeline_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/7azmi/hr-finder/internal/lookup"
	"github.com/7azmi/hr-finder/internal/pipeline"
)

type testSearcher struct{}

func (testSearcher) Search(_ context.Context, domain, _ string) (lookup.Result, error) {
	switch {
	case strings.HasSuffix(domain, ".fail"):
		return lookup.APIError("not_found", "No decision maker found"), nil
	case strings.HasSuffix(domain, ".empty"):
		return lookup.NoResult(), nil
	default:
		return lookup.Found(lookup.Person{
			FullName:      "Jane Doe",
			Email:         "jane@" + domain,
			EmailVerified: true,
			JobTitle:      "HR Manager",
		}), nil
	}
}

func TestLookupDomains(t *testing.T) {
	t.Parallel()

	rows, err := pipeline.LookupDomains(
		context.Background(),
		[]string{"a.com", "b.fail", "c.empty"},
		"hr",
		testSearcher{},
		pipeline.Options{},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	found := rows[0]
	if found.Domain != "a.com" || found.SearchSuccess != "True" {
		t.Fatalf("unexpected row[0]: %#v", found)
	}
	if found.FoundEmail != "jane@a.com" || found.EmailVerified != "True" {
		t.Fatalf("unexpected row[0] fields: %#v", found)
	}
	// LinkedIn was absent from the fixture; it must render as the sentinel.
	if found.LinkedInURL != pipeline.NotAvailable {
		t.Fatalf("expected N/A linkedin, got %q", found.LinkedInURL)
	}
	if found.APIErrorType != pipeline.NotAvailable {
		t.Fatalf("expected N/A error type on success, got %q", found.APIErrorType)
	}

	apiErr := rows[1]
	if apiErr.SearchSuccess != "False" || apiErr.APIErrorType != "not_found" {
		t.Fatalf("unexpected row[1]: %#v", apiErr)
	}
	if apiErr.FoundEmail != pipeline.NotAvailable {
		t.Fatalf("expected N/A email on failure, got %q", apiErr.FoundEmail)
	}

	noRes := rows[2]
	if noRes.SearchSuccess != "False" || noRes.APIErrorType != lookup.KindNoResultFound {
		t.Fatalf("unexpected row[2]: %#v", noRes)
	}
}

type erroringSearcher struct{}

func (erroringSearcher) Search(context.Context, string, string) (lookup.Result, error) {
	return lookup.Result{}, &lookup.TransientError{Err: errors.New("dial tcp: connection refused")}
}

func TestLookupDomainsFoldsTransportErrorsIntoRows(t *testing.T) {
	t.Parallel()

	rows, err := pipeline.LookupDomains(context.Background(), []string{"a.com"}, "hr", erroringSearcher{}, pipeline.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].SearchSuccess != "False" || rows[0].APIErrorType == pipeline.NotAvailable {
		t.Fatalf("expected classified failure row, got %#v", rows[0])
	}
}

func TestLookupDomainsStreamCallback(t *testing.T) {
	t.Parallel()

	var streamed []pipeline.Row
	rows, err := pipeline.LookupDomainsStream(
		context.Background(),
		[]string{"a.com", "b.com"},
		"hr",
		testSearcher{},
		pipeline.Options{Workers: 1},
		func(r pipeline.Row) error {
			streamed = append(streamed, r)
			return nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streamed) != len(rows) {
		t.Fatalf("callback saw %d rows, return had %d", len(streamed), len(rows))
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := pipeline.WriteCSV(&buf, []pipeline.Row{
		pipeline.RowFor("a.com", "hr", lookup.Found(lookup.Person{
			FullName: "Jane Doe",
			Email:    "jane@a.com",
		})),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cr := csv.NewReader(bytes.NewReader(buf.Bytes()))
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}

	wantHeader := pipeline.Header()
	for i := range wantHeader {
		if records[0][i] != wantHeader[i] {
			t.Fatalf("header[%d]: want %q got %q", i, wantHeader[i], records[0][i])
		}
	}
	if records[1][0] != "a.com" || records[1][7] != "True" {
		t.Fatalf("unexpected row: %#v", records[1])
	}
	// Unverified email renders False, not N/A, on found rows.
	if records[1][4] != "False" {
		t.Fatalf("unexpected email verified cell: %q", records[1][4])
	}
}

func TestReadCSVRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	want := []pipeline.Row{
		pipeline.RowFor("a.com", "hr", lookup.Found(lookup.Person{Email: "jane@a.com", EmailVerified: true})),
		pipeline.RowFor("b.com", "hr", lookup.APIError("not_found", "No decision maker found")),
	}
	if err := pipeline.WriteCSV(&buf, want); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := pipeline.ReadCSV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row[%d] mismatch: want %#v got %#v", i, want[i], got[i])
		}
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	t.Parallel()

	if _, err := pipeline.ReadCSV(strings.NewReader("Domain Searched,Category Searched\n")); err == nil {
		t.Fatal("expected error for missing columns")
	}
}
