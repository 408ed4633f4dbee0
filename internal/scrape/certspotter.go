// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/dnsmap-project/dnsmap/internal/pipeline"
)

// certSpotterDefaultEndpoint is a certificate-transparency aggregator
// returning JSON objects with a name_value field, one newline-separated
// blob of SAN entries per certificate (spec §4.3, row 1).
const certSpotterDefaultEndpoint = "https://api.certspotter.com/v1/issuances?domain=%s&include_subdomains=true&expand=dns_names"

// CertSpotter scrapes a certificate-transparency log aggregator.
type CertSpotter struct {
	Client   *Client
	Endpoint string // defaults to [certSpotterDefaultEndpoint]; override in tests.
}

var _ Scraper = &CertSpotter{}

// Name implements [Scraper].
func (s *CertSpotter) Name() string { return "certspotter" }

type certSpotterEntry struct {
	NameValue string `json:"name_value"`
}

type certSpotterParseFunc struct {
	apex string
}

func (p certSpotterParseFunc) Call(ctx context.Context, body []byte) ([]string, error) {
	var entries []certSpotterEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("certspotter: %w", err)
	}
	var labels []string
	for _, entry := range entries {
		for _, name := range strings.Split(entry.NameValue, "\n") {
			if label, ok := labelFromHost(name, p.apex); ok {
				labels = append(labels, label)
			}
		}
	}
	return labels, nil
}

// Scrape implements [Scraper].
//
// The fetch and parse steps are composed via [pipeline.Compose2]: fetching
// the endpoint body and decoding name_value entries are independent
// [pipeline.Func] stages, so a test can substitute either half without
// touching the other.
func (s *CertSpotter) Scrape(ctx context.Context, apex string) iter.Seq2[string, error] {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = certSpotterDefaultEndpoint
	}
	url := fmt.Sprintf(endpoint, apex)
	op := pipeline.Compose2[string, []byte, []string](fetchFunc{s.Client}, certSpotterParseFunc{apex: apex})

	return func(yield func(string, error) bool) {
		labels, err := op.Call(ctx, url)
		if err != nil {
			yield("", err)
			return
		}
		for _, label := range labels {
			if !yield(label, nil) {
				return
			}
		}
	}
}
