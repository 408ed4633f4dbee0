// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/dnsmap-project/dnsmap/internal/pipeline"
)

// passiveDNSDefaultEndpoint is a passive-DNS aggregator returning
// newline-delimited "host,ip" pairs (spec §4.3, row 2).
const passiveDNSDefaultEndpoint = "https://api.passivedns.example/v1/query?domain=%s"

// PassiveDNS scrapes a passive-DNS aggregator.
type PassiveDNS struct {
	Client   *Client
	Endpoint string // defaults to [passiveDNSDefaultEndpoint]; override in tests.
}

var _ Scraper = &PassiveDNS{}

// Name implements [Scraper].
func (s *PassiveDNS) Name() string { return "passivedns" }

type passiveDNSParseFunc struct {
	apex string
}

func (p passiveDNSParseFunc) Call(ctx context.Context, body []byte) ([]string, error) {
	var labels []string
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		host, _, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		if label, ok := labelFromHost(host, p.apex); ok {
			labels = append(labels, label)
		}
	}
	if err := scanner.Err(); err != nil {
		return labels, fmt.Errorf("passivedns: %w", err)
	}
	return labels, nil
}

// Scrape implements [Scraper].
func (s *PassiveDNS) Scrape(ctx context.Context, apex string) iter.Seq2[string, error] {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = passiveDNSDefaultEndpoint
	}
	url := fmt.Sprintf(endpoint, apex)
	op := pipeline.Compose2[string, []byte, []string](fetchFunc{s.Client}, passiveDNSParseFunc{apex: apex})

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
