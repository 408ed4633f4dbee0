// SPDX-License-Identifier: GPL-3.0-or-later

// Package config holds the dependency-injection seam for dnsmap.
//
// dnsmap has no tunable flags (§6 of the spec: a single positional apex
// argument, nothing else), so [Config] exists purely so that the resolver,
// scrapers, and orchestrator can be exercised in tests against fakes
// instead of the real system resolver and real HTTP endpoints.
package config

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Resolver abstracts [*net.Resolver]'s host lookup behavior.
//
// By depending on this interface instead of [*net.Resolver] directly, the
// resolver worker pool and the apex-reachability check in the orchestrator
// can be tested against a stub that simulates found/not-found/timeout
// outcomes without touching the network.
type Resolver interface {
	LookupHost(ctx context.Context, host string) (addrs []string, err error)
}

// Config holds common configuration for dnsmap's components.
//
// Pass this to constructors to pre-wire dependencies. All fields have
// sensible defaults set by [New].
type Config struct {
	// Resolver performs A/AAAA lookups for the resolver worker pool.
	//
	// Set by [New] to the host's [*net.Resolver].
	Resolver Resolver

	// HTTPClient is used by scrapers to fetch passive-discovery sources.
	//
	// Set by [New] to an [*http.Client] with a 30s timeout per the spec's
	// scraper request timeout (§4.3).
	HTTPClient *http.Client

	// TimeNow returns the current time.
	//
	// Set by [New] to [time.Now].
	TimeNow func() time.Time
}

// New creates a [*Config] with sensible defaults.
func New() *Config {
	return &Config{
		Resolver:   &net.Resolver{},
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		TimeNow:    time.Now,
	}
}
