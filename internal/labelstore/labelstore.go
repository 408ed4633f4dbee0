// SPDX-License-Identifier: GPL-3.0-or-later

// Package labelstore implements the deduplicating, insertion-ordered set of
// candidate labels described by the spec's Label Store component.
package labelstore

import (
	"strings"
	"sync"

	"github.com/miekg/dns"
)

// Store is a deduplicating set of candidate labels with insertion-order
// iteration semantics.
//
// A Store has a single owner (the orchestrator) but is safe for concurrent
// use: scrapers add labels from their own goroutines while the dispatcher
// iterates concurrently, per the spec's "additions arriving after freeze
// are appended" edge case (§3).
//
// The zero value is not usable; construct with [New].
type Store struct {
	apex string

	mu     sync.Mutex
	labels []string
	seen   map[string]struct{}
	subs   []chan string
	closed bool
}

// New returns an empty [*Store] for the given apex.
//
// apex is compared (case-folded) against incoming labels so that a scraped
// label equal to the apex itself is rejected, per the spec's boundary case
// "Scraper returning a label equal to the apex → rejected by the store."
func New(apex string) *Store {
	return &Store{
		apex: strings.ToLower(strings.TrimSuffix(apex, ".")),
		seen: make(map[string]struct{}),
	}
}

// Add case-folds label, strips any trailing dot, and rejects empty labels,
// labels equal to the apex, labels containing characters other than
// letters, digits, '-', '_' and '.', and labels that are not well-formed
// names per [dns.IsDomainName] (empty components, over-long labels). Multi-
// component labels such as "a.b" are accepted. It returns whether the label
// was newly inserted.
func (s *Store) Add(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	folded := fold(label)
	if folded == "" || folded == s.apex {
		return false
	}
	for _, r := range folded {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.') {
			return false
		}
	}
	if _, ok := dns.IsDomainName(folded); !ok {
		return false
	}
	if _, ok := s.seen[folded]; ok {
		return false
	}

	s.seen[folded] = struct{}{}
	s.labels = append(s.labels, folded)

	// A label arriving after Freeze still grows the store (and therefore
	// the progress denominator, per spec §3c) but can no longer reach a
	// dispatcher whose iteration channel has already been closed.
	if !s.closed {
		for _, sub := range s.subs {
			sub <- folded
		}
	}
	return true
}

// Size returns the current count of distinct labels.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.labels)
}

// Snapshot returns a copy of the labels inserted so far, in insertion
// order. Used by tests and by the final stats summary; the live dispatch
// path uses [Store.Iterate] instead, which does not require insertions to
// have finished.
func (s *Store) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Iterate returns a channel that yields every label currently in the store,
// in insertion order, followed by every label added afterwards, until
// [Store.Freeze] is called and all buffered labels have been delivered.
//
// This is safe to begin consuming before insertions are complete: the
// store is not snapshot-based (spec §4.4 edge case — "labels added to the
// store after the dispatcher begins iteration MUST still be dispatched").
//
// Iterate must be called at most once per Store; it is intended for the
// single dispatcher goroutine described in §4.4.
func (s *Store) Iterate() <-chan string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(chan string, len(s.labels)+1024)
	for _, label := range s.labels {
		out <- label
	}
	if s.closed {
		close(out)
		return out
	}
	s.subs = append(s.subs, out)
	return out
}

// Freeze closes every iteration channel, signalling the dispatcher that no
// further labels will be dispatched. Labels may still be added afterwards
// (spec §3c): they grow [Store.Size] and the progress denominator but are
// never delivered to an already-closed iteration channel.
//
// Freeze is idempotent.
func (s *Store) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		close(sub)
	}
}

// fold normalizes a label for dedup purposes: lowercase, trailing-dot
// stripped.
func fold(label string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label), "."))
}
