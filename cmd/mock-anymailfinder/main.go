package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/7azmi/hr-finder/internal/mockapi"
)

func main() {
	addr := defaultString("MOCK_ANYMAILFINDER_ADDR", ":8080")
	fixtures := defaultString("MOCK_ANYMAILFINDER_FIXTURES", "")
	token := defaultString("MOCK_ANYMAILFINDER_TOKEN", "")

	fs := flag.NewFlagSet("mock-anymailfinder", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&fixtures, "fixtures", fixtures, "YAML fixtures file mapping domains to people/failures")
	fs.StringVar(&token, "token", token, "Bearer token to require (empty disables auth)")
	_ = fs.Parse(os.Args[1:])

	srv := mockapi.New()
	srv.RequireBearerToken(token)
	if fixtures != "" {
		if err := srv.LoadFixtures(fixtures); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "fixtures error: %v\n", err)
			os.Exit(1)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "mock-anymailfinder listening on %s (fixtures=%s)\n", addr, fixtures)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
