// SPDX-License-Identifier: GPL-3.0-or-later

// Package orchestrator ties together dnsmap's components into a single
// enumeration run.
//
// # Core Flow
//
// A run passes through four phases, in order:
//
//   - Init: the apex itself must resolve before anything else happens;
//     a failure here is fatal ([ApexUnreachable]).
//   - Scrape: every [scrape.Scraper] runs concurrently; each scraper's
//     labels are merged into the Label Store as soon as it returns.
//   - Merge: the built-in wordlist is added to the same store, which is
//     then frozen (new additions still grow it, per the Label Store's
//     own contract, but are no longer dispatched).
//   - Brute-force: the frozen store is drained through the resolver
//     worker pool, tuned continuously by the Tuning Controller, until
//     every label has been probed or the run is cancelled.
//
// Finalize is implicit: once the brute-force phase's dispatcher returns,
// Run reports final stats and returns them to its caller.
//
// # Ownership
//
// The orchestrator is the single owner of the Label Store, the resolver
// pool, the tuning snapshot, and the reporter. Every other component
// reads or writes through the interfaces those owned values expose;
// nothing here reaches for a package-level singleton.
//
// # Error Handling
//
// Three error kinds are fatal and implement [FatalError]: [ArgumentError]
// (bad apex), [ApexUnreachable] (apex doesn't resolve), and
// [OutputBroken] (stdout write failed). Everything else — scraper
// failures, individual probe timeouts and transient errors — is absorbed
// at the component boundary that produced it and only ever surfaces
// statistically, through the reporter's [info]/[tune]/[stats] lines.
//
// # Timeout and Cancellation Philosophy
//
// Run is context-transparent: it never establishes its own deadline.
// cmd/dnsmap binds the top-level context to process signals via
// [signal.NotifyContext] for responsive ^C handling; every blocking
// operation downstream — DNS lookups via the resolver pool's per-probe
// context.WithTimeout, scraper HTTP fetches — observes that same
// context, so cancelling it unwinds the whole run without any connection
// object to close explicitly.
package orchestrator
