package domain_test

import (
	"strings"
	"testing"

	"github.com/7azmi/hr-finder/internal/domain"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"http://example.com", "example.com"},
		{"https://www.example.com/", "example.com"},
		{"https://www.example.com/careers", "example.com"},
		{"  example.com  ", "example.com"},
		{"example.com/", "example.com"},
		{"", ""},
		{"   ", ""},
		// Case is preserved, not folded.
		{"https://www.Example.com/", "Example.com"},
		{"Example.com", "Example.com"},
		// Ports survive authority extraction.
		{"example.com:8080", "example.com:8080"},
	}

	for _, tc := range cases {
		if got := domain.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q): want %q got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeSchemelessMatchesExplicitScheme(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"example.com", "www.example.com", "sub.example.com/path", "Example.ORG"} {
		bare := domain.Normalize(raw)
		explicit := domain.Normalize("http://" + raw)
		if bare != explicit {
			t.Errorf("Normalize(%q)=%q differs from Normalize with explicit scheme %q", raw, bare, explicit)
		}
	}
}

func TestReadListDedupes(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"a.com",
		"a.com",
		"www.a.com",
		"",
		"https://b.com/",
		"b.com",
		"   ",
		"c.com",
	}, "\n")

	got, err := domain.ReadList(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a.com", "b.com", "c.com"}
	if len(got) != len(want) {
		t.Fatalf("expected %d domains, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("domains[%d]: want %q got %q", i, want[i], got[i])
		}
	}
}

func TestReadListPreservesCaseDistinctDomains(t *testing.T) {
	t.Parallel()

	got, err := domain.ReadList(strings.NewReader("Example.com\nexample.com\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 case-distinct domains, got %d: %#v", len(got), got)
	}
}
