// SPDX-License-Identifier: GPL-3.0-or-later

// Package scrape implements the passive-discovery scrapers: a fixed set of
// sources that produce candidate labels for an apex without sending DNS
// queries directly. Each scraper's output still passes through the
// resolver worker pool for confirmation (spec §4.3).
package scrape

import (
	"context"
	"iter"
)

// Scraper is a single passive-discovery source. Implementations are
// registered in a static list by the orchestrator (spec §9's "closed
// variant" redesign of the source's duck-typed scraper dispatch).
type Scraper interface {
	// Name identifies the scraper in reporter messages (e.g.
	// "scrape certspotter yielded 12 labels, of which 3 are new").
	Name() string

	// Scrape returns a finite lazy sequence of (label, error) pairs for
	// apex. A non-nil error on one yielded pair does not stop iteration
	// by itself; callers that want to abort after an error should break
	// out of the range loop.
	Scrape(ctx context.Context, apex string) iter.Seq2[string, error]
}

// Default returns the fixed set of scrapers the orchestrator runs, in the
// order spec §4.3 lists them.
func Default(client *Client) []Scraper {
	return []Scraper{
		&CertSpotter{Client: client},
		&PassiveDNS{Client: client},
		&ThreatIntel{Client: client},
	}
}
