// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dnsmap-project/dnsmap/internal/config"
	"github.com/dnsmap-project/dnsmap/internal/telemetry"
)

func testClient() *Client {
	cfg := config.New()
	return NewClient(cfg, telemetry.DefaultErrClassifier, telemetry.DefaultSLogger())
}

func TestCertSpotterParsesNameValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name_value":"www.example.com\napi.example.com"},{"name_value":"*.dev.example.com"}]`))
	}))
	defer srv.Close()

	s := &CertSpotter{Client: testClient(), Endpoint: srv.URL + "?domain=%s"}
	result := Collect(context.Background(), s, "example.com")
	assert.NoError(t, result.Err)
	assert.ElementsMatch(t, []string{"www", "api", "dev"}, result.Labels)
}

func TestPassiveDNSParsesHostIPPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("www.example.com,93.184.216.34\nother.org,1.2.3.4\nmail.example.com,5.6.7.8\n"))
	}))
	defer srv.Close()

	s := &PassiveDNS{Client: testClient(), Endpoint: srv.URL + "?domain=%s"}
	result := Collect(context.Background(), s, "example.com")
	assert.NoError(t, result.Err)
	assert.ElementsMatch(t, []string{"www", "mail"}, result.Labels)
}

func TestThreatIntelParsesSubdomainsArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"subdomains":["vpn.example.com","example.com","unrelated.net"]}`))
	}))
	defer srv.Close()

	s := &ThreatIntel{Client: testClient(), Endpoint: srv.URL + "?domain=%s"}
	result := Collect(context.Background(), s, "example.com")
	assert.NoError(t, result.Err)
	assert.Equal(t, []string{"vpn"}, result.Labels)
}

func TestFetchRetriesOnceOnTransientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"subdomains":["vpn.example.com"]}`))
	}))
	defer srv.Close()

	s := &ThreatIntel{Client: testClient(), Endpoint: srv.URL + "?domain=%s"}
	result := Collect(context.Background(), s, "example.com")
	assert.NoError(t, result.Err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []string{"vpn"}, result.Labels)
}

type fakeScraper struct {
	name   string
	labels []string
	err    error
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) Scrape(ctx context.Context, apex string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, l := range f.labels {
			if !yield(l, nil) {
				return
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

func TestRunAllRunsConcurrently(t *testing.T) {
	scrapers := []Scraper{
		&fakeScraper{name: "a", labels: []string{"www", "api"}},
		&fakeScraper{name: "b", labels: []string{"mail"}, err: errors.New("boom")},
	}
	results := RunAll(context.Background(), scrapers, "example.com")
	assert.Len(t, results, 2)

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	assert.Equal(t, []string{"www", "api"}, byName["a"].Labels)
	assert.NoError(t, byName["a"].Err)
	assert.Equal(t, []string{"mail"}, byName["b"].Labels)
	assert.Error(t, byName["b"].Err)
}
