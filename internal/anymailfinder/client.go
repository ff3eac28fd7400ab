// Package anymailfinder is a minimal client for the Anymailfinder
// decision-maker search endpoint. It owns response classification: every
// call collapses into a lookup.Result or a transport error, so callers
// never probe raw JSON shapes.
package anymailfinder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/7azmi/hr-finder/internal/lookup"
	"github.com/7azmi/hr-finder/internal/util"
)

const (
	// DefaultBaseURL is the production decision-maker search endpoint.
	DefaultBaseURL = "https://api.anymailfinder.com/v5.0/search/decision-maker.json"
	// DefaultTimeout matches the timeout the API documentation recommends.
	DefaultTimeout = 180 * time.Second

	// maxBodySnippet caps how much of an unparsable error body makes it into
	// an explanation. Bodies can be large and can contain sensitive data.
	maxBodySnippet = 256
)

// Config holds client construction parameters. The API key is a plain value:
// credential acquisition (env var, prompt) belongs to the caller.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client. Mainly for tests.
	HTTPClient *http.Client
}

// Client performs decision-maker searches.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New constructs a Client. The API key is required.
func New(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("api key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  key,
		http:    hc,
	}, nil
}

type searchRequest struct {
	Domain                string `json:"domain"`
	DecisionMakerCategory string `json:"decision_maker_category"`
}

// searchEnvelope is the API response shape. Success is a pointer so a body
// without the field is distinguishable from success=false.
type searchEnvelope struct {
	Success        *bool         `json:"success"`
	Result         *personResult `json:"result"`
	Error          string        `json:"error"`
	ErrorExplained string        `json:"error_explained"`
}

type personResult struct {
	PersonFullName    string `json:"personFullName"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"emailVerified"`
	PersonJobTitle    string `json:"personJobTitle"`
	PersonLinkedinURL string `json:"personLinkedinUrl"`
}

// Search issues one decision-maker lookup for a normalized domain.
//
// API-level outcomes (match, reported error, no result) come back as a
// classified lookup.Result with a nil error. Transport faults return a
// non-nil error wrapped as transient so the worker layer may retry them;
// use lookup.Classify to turn an exhausted error into a Result.
func (c *Client) Search(ctx context.Context, domain, category string) (lookup.Result, error) {
	payload, err := json.Marshal(searchRequest{
		Domain:                domain,
		DecisionMakerCategory: category,
	})
	if err != nil {
		return lookup.Result{}, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return lookup.Result{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return lookup.Result{}, transportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return lookup.Result{}, transportError(err)
	}

	return classifyResponse(resp.StatusCode, body), nil
}

// transportError wraps a transport fault as transient, tagged with the
// taxonomy kind: timeouts stay "timeout", everything else at this layer is a
// "connection_error".
func transportError(err error) error {
	if isTimeout(err) {
		return &lookup.TransientError{Err: &lookup.KindedError{
			Kind:        lookup.KindTimeout,
			Explanation: "Request timed out.",
			Err:         err,
		}}
	}
	return &lookup.TransientError{Err: &lookup.KindedError{
		Kind:        lookup.KindConnectionError,
		Explanation: "Connection error.",
		Err:         err,
	}}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classifyResponse maps an HTTP status and body onto the closed taxonomy.
func classifyResponse(statusCode int, body []byte) lookup.Result {
	var env searchEnvelope
	parseErr := json.Unmarshal(body, &env)

	if statusCode/100 != 2 {
		// Error responses normally carry the standard envelope; fall back to
		// a truncated raw-body hint when they do not. The body may be JSON
		// without the envelope fields, so the message stays neutral about its
		// shape.
		if parseErr == nil && (env.Error != "" || env.ErrorExplained != "") {
			return lookup.APIError(env.Error, env.ErrorExplained)
		}
		return lookup.APIError(lookup.KindAPIError, fmt.Sprintf(
			"API returned status %d with unrecognized body: %s",
			statusCode,
			truncateBody(body),
		))
	}

	if parseErr != nil {
		return lookup.APIError(lookup.KindUnexpectedError, fmt.Sprintf(
			"parse API response: %v", parseErr,
		))
	}

	switch {
	case env.Success != nil && *env.Success && env.Result != nil:
		return lookup.Found(lookup.Person{
			FullName:      env.Result.PersonFullName,
			Email:         env.Result.Email,
			EmailVerified: env.Result.EmailVerified,
			JobTitle:      env.Result.PersonJobTitle,
			LinkedInURL:   env.Result.PersonLinkedinURL,
		})
	case env.Success != nil && !*env.Success:
		return lookup.APIError(env.Error, env.ErrorExplained)
	default:
		// success==true with result==null, or a shape we do not recognize.
		return lookup.NoResult()
	}
}

func truncateBody(body []byte) string {
	b := body
	truncated := false
	if len(b) > maxBodySnippet {
		b = b[:maxBodySnippet]
		truncated = true
	}
	s := util.RedactSecrets(strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, string(b)))
	if truncated {
		s += "..."
	}
	return s
}
