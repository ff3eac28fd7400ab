// Package domain normalizes raw company-domain tokens into the bare host
// strings the decision-maker API expects.
package domain

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// Normalize converts a raw, possibly messy input (URL with or without
// scheme, "www." prefix, trailing slash) into a bare host string.
//
// An empty or whitespace-only input yields ""; callers must discard it.
// Case is preserved: "Example.com" and "example.com" remain distinct, which
// matches the observed reference behavior even though it means mixed-case
// duplicates are queried twice.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Prepend a placeholder scheme so authority parsing works uniformly.
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Host

	host = strings.TrimPrefix(host, "www.")
	// Authority components should not carry a trailing slash, but inputs are
	// messy enough that we strip one anyway.
	host = strings.TrimSuffix(host, "/")

	return host
}

// ReadList reads domain tokens from r, one per line, normalizes each and
// drops blanks. Duplicates collapse silently; first-seen order is kept so
// the output row order is deterministic.
func ReadList(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	var domains []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		cleaned := Normalize(sc.Text())
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		domains = append(domains, cleaned)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read domains: %w", err)
	}
	return domains, nil
}

// LoadFile reads and normalizes the domain list from a text file.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open domains file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadList(f)
}
