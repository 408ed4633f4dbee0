// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/dnsmap-project/dnsmap/internal/pipeline"
)

// threatIntelDefaultEndpoint is a threat-intel aggregator returning a JSON
// object with a subdomains array of hostnames (spec §4.3, row 3).
const threatIntelDefaultEndpoint = "https://api.threatintel.example/v1/subdomains?domain=%s"

// ThreatIntel scrapes a threat-intel aggregator.
type ThreatIntel struct {
	Client   *Client
	Endpoint string // defaults to [threatIntelDefaultEndpoint]; override in tests.
}

var _ Scraper = &ThreatIntel{}

// Name implements [Scraper].
func (s *ThreatIntel) Name() string { return "threatintel" }

type threatIntelResponse struct {
	Subdomains []string `json:"subdomains"`
}

type threatIntelParseFunc struct {
	apex string
}

func (p threatIntelParseFunc) Call(ctx context.Context, body []byte) ([]string, error) {
	var resp threatIntelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("threatintel: %w", err)
	}
	var labels []string
	for _, host := range resp.Subdomains {
		if label, ok := labelFromHost(host, p.apex); ok {
			labels = append(labels, label)
		}
	}
	return labels, nil
}

// Scrape implements [Scraper].
func (s *ThreatIntel) Scrape(ctx context.Context, apex string) iter.Seq2[string, error] {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = threatIntelDefaultEndpoint
	}
	url := fmt.Sprintf(endpoint, apex)
	op := pipeline.Compose2[string, []byte, []string](fetchFunc{s.Client}, threatIntelParseFunc{apex: apex})

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
