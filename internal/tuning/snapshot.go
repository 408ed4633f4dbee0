// SPDX-License-Identifier: GPL-3.0-or-later

// Package tuning implements the adaptive concurrency/timeout controller
// described by spec §4.5: a rolling window over the last 1000 probe
// outcomes feeds a p90 latency estimate, which together with timeout and
// queue-depth pressure drives periodic adjustments to the resolver pool's
// concurrency and per-query timeout.
package tuning

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"

	"github.com/dnsmap-project/dnsmap/internal/resolver"
)

// windowSize is the rolling window width mandated by spec §4.5.
const windowSize = 1000

// digestCompression bounds the t-digest's internal cluster count. 100 is
// the library's own suggested default and gives ample quantile accuracy
// for a 1000-sample window.
const digestCompression = 100

// Stats summarizes one Tick of the rolling window: per-kind counts over
// the window plus the window's p90 latency estimate.
type Stats struct {
	Resolved       int
	NotFound       int
	Timeout        int
	TransientError int
	Filled         int
	P90            time.Duration
}

// Total returns the number of outcomes currently in the window.
func (s Stats) Total() int { return s.Filled }

// TimeoutFraction returns the fraction of outcomes in the window that
// timed out, used by the controller's timeout-pressure rule.
func (s Stats) TimeoutFraction() float64 {
	if s.Filled == 0 {
		return 0
	}
	return float64(s.Timeout) / float64(s.Filled)
}

// Snapshot is a fixed-size ring buffer of the most recent probe outcomes.
// It is safe for concurrent use: [Snapshot.Record] is called from every
// resolver worker goroutine, while [Snapshot.Tick] is called periodically
// by the controller goroutine.
type Snapshot struct {
	mu     sync.Mutex
	kinds  [windowSize]resolver.Kind
	lat    [windowSize]time.Duration
	next   int
	filled int
}

// NewSnapshot returns an empty rolling window.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Record inserts o into the window, overwriting the oldest entry once the
// window is full.
func (s *Snapshot) Record(o resolver.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds[s.next] = o.Kind
	s.lat[s.next] = o.Latency
	s.next = (s.next + 1) % windowSize
	if s.filled < windowSize {
		s.filled++
	}
}

// Tick computes a fresh [Stats] snapshot of the window's current contents.
//
// A new t-digest is built from scratch on every call instead of
// incrementally maintained, because the ring buffer discards old samples
// as it overwrites them and the digest has no matching delete operation;
// rebuilding from the (bounded, ≤1000-element) window each tick keeps the
// digest exactly in sync with the window's current contents at the cost
// of a cheap, fixed-size recomputation.
func (s *Snapshot) Tick() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	st.Filled = s.filled
	if s.filled == 0 {
		return st
	}

	td := tdigest.NewWithCompression(digestCompression)
	for i := 0; i < s.filled; i++ {
		switch s.kinds[i] {
		case resolver.Resolved:
			st.Resolved++
		case resolver.NotFound:
			st.NotFound++
		case resolver.Timeout:
			st.Timeout++
		case resolver.TransientError:
			st.TransientError++
		}
		td.Add(float64(s.lat[i]), 1)
	}
	st.P90 = time.Duration(td.Quantile(0.9))
	return st
}
