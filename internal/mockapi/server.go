// Package mockapi implements an in-process stand-in for the Anymailfinder
// decision-maker endpoint. Tests and local end-to-end runs use it to
// exercise every classification branch without spending API credits.
package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/7azmi/hr-finder/internal/lookup"
	"gopkg.in/yaml.v3"
)

// Call records one search request made to the mock.
type Call struct {
	Domain   string
	Category string
}

// Failure configures an injected failure for a domain.
type Failure struct {
	// StatusCode defaults to 200 when zero.
	StatusCode  int
	ErrorKind   string
	Explanation string

	// RawBody, when set, is written verbatim instead of the JSON envelope.
	// Use it to simulate non-JSON error pages.
	RawBody string
}

// Server holds fixtures and records calls. Unknown domains resolve to the
// "success with null result" shape.
type Server struct {
	mu sync.Mutex

	expectedAuthorization string

	people   map[string]lookup.Person
	failures map[string]Failure
	calls    []Call
}

// New constructs an empty mock server.
func New() *Server {
	return &Server{
		people:   make(map[string]lookup.Person),
		failures: make(map[string]Failure),
	}
}

// RequireBearerToken enforces that requests carry a matching Authorization
// header. An empty token disables enforcement.
func (s *Server) RequireBearerToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token = strings.TrimSpace(token)
	if token == "" {
		s.expectedAuthorization = ""
		return
	}
	s.expectedAuthorization = "Bearer " + token
}

// AddPerson registers a decision-maker fixture for a domain.
func (s *Server) AddPerson(domain string, p lookup.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[domain] = p
}

// FailDomain injects a failure response for a domain.
func (s *Server) FailDomain(domain string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[domain] = f
}

// Calls returns a snapshot of the search requests seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

type searchRequest struct {
	Domain                string `json:"domain"`
	DecisionMakerCategory string `json:"decision_maker_category"`
}

// Handler returns the http.Handler serving the mock endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleSearch)
	return mux
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, map[string]any{
			"success":         false,
			"error":           "bad_request",
			"error_explained": "Request body is not valid JSON.",
		})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Domain: req.Domain, Category: req.DecisionMakerCategory})
	expected := s.expectedAuthorization
	failure, hasFailure := s.failures[req.Domain]
	person, hasPerson := s.people[req.Domain]
	s.mu.Unlock()

	if expected != "" && r.Header.Get("Authorization") != expected {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{
			"success":         false,
			"error":           "unauthorized",
			"error_explained": "Invalid API key.",
		})
		return
	}

	switch {
	case hasFailure:
		status := failure.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		if failure.RawBody != "" {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(failure.RawBody))
			return
		}
		writeEnvelope(w, status, map[string]any{
			"success":         false,
			"error":           failure.ErrorKind,
			"error_explained": failure.Explanation,
		})
	case hasPerson:
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"result": map[string]any{
				"personFullName":    person.FullName,
				"email":             person.Email,
				"emailVerified":     person.EmailVerified,
				"personJobTitle":    person.JobTitle,
				"personLinkedinUrl": person.LinkedInURL,
			},
		})
	default:
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"result":  nil,
		})
	}
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// fixtureFile mirrors the YAML fixtures format consumed by LoadFixtures:
//
//	people:
//	  a.com:
//	    full_name: Jane Doe
//	    email: jane@a.com
//	    email_verified: true
//	    job_title: HR Manager
//	    linkedin_url: https://linkedin.com/in/jane
//	failures:
//	  b.com:
//	    status_code: 402
//	    error: payment_needed
//	    error_explained: Out of credits.
type fixtureFile struct {
	People map[string]struct {
		FullName      string `yaml:"full_name"`
		Email         string `yaml:"email"`
		EmailVerified bool   `yaml:"email_verified"`
		JobTitle      string `yaml:"job_title"`
		LinkedInURL   string `yaml:"linkedin_url"`
	} `yaml:"people"`
	Failures map[string]struct {
		StatusCode int    `yaml:"status_code"`
		Error      string `yaml:"error"`
		Explained  string `yaml:"error_explained"`
		RawBody    string `yaml:"raw_body"`
	} `yaml:"failures"`
}

// LoadFixtures populates the server from a YAML fixtures file.
func (s *Server) LoadFixtures(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures file: %w", err)
	}
	var ff fixtureFile
	if err := yaml.Unmarshal(b, &ff); err != nil {
		return fmt.Errorf("parse fixtures file: %w", err)
	}

	for domain, p := range ff.People {
		s.AddPerson(domain, lookup.Person{
			FullName:      p.FullName,
			Email:         p.Email,
			EmailVerified: p.EmailVerified,
			JobTitle:      p.JobTitle,
			LinkedInURL:   p.LinkedInURL,
		})
	}
	for domain, f := range ff.Failures {
		s.FailDomain(domain, Failure{
			StatusCode:  f.StatusCode,
			ErrorKind:   f.Error,
			Explanation: f.Explained,
			RawBody:     f.RawBody,
		})
	}
	return nil
}
