// SPDX-License-Identifier: GPL-3.0-or-later

// Package resolver implements the concurrent DNS probing engine: the
// variable-width worker pool that resolves candidate labels into confirmed
// subdomains.
package resolver

import "time"

// Kind tags the four possible outcomes of a single probe, per the spec's
// Probe Outcome data type (§3).
type Kind int

const (
	// Resolved means the lookup returned at least one address within the
	// per-query timeout.
	Resolved Kind = iota

	// NotFound means the lookup completed with an empty answer (negative
	// response) within the timeout.
	NotFound

	// Timeout means the lookup did not complete within the per-query
	// timeout.
	Timeout

	// TransientError means the lookup failed for a reason other than a
	// negative answer or a timeout (e.g. a temporary resolver error).
	TransientError
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case Timeout:
		return "timeout"
	case TransientError:
		return "transient_error"
	default:
		return "unknown"
	}
}

// Provenance records whether a label came from the static wordlist or from
// a passive scraper, per spec §3's scrape_found accounting.
type Provenance int

const (
	// FromWordlist marks a label sourced from the built-in wordlist.
	FromWordlist Provenance = iota

	// FromScrape marks a label sourced from a passive scraper.
	FromScrape
)

// Outcome is the result of probing a single label.
type Outcome struct {
	// Label is the candidate label that was probed (without the apex).
	Label string

	// Kind is the tagged outcome variant.
	Kind Kind

	// Addresses holds the resolved IPs; non-empty only when Kind ==
	// Resolved.
	Addresses []string

	// ErrClass is the [errclass] category of the underlying error; empty
	// when the lookup returned no error (Resolved, or NotFound from an
	// empty answer). A NotFound from an NXDOMAIN error carries its class.
	ErrClass string

	// Latency is the end-to-end probe duration, fed into the tuning
	// snapshot's rolling window.
	Latency time.Duration

	// Provenance records whether Label came from the wordlist or from
	// scraping.
	Provenance Provenance
}
