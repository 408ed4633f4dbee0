// SPDX-License-Identifier: GPL-3.0-or-later

package tuning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dnsmap-project/dnsmap/internal/resolver"
)

func TestSnapshotTickEmpty(t *testing.T) {
	s := NewSnapshot()
	stats := s.Tick()
	assert.Equal(t, 0, stats.Total())
	assert.Equal(t, time.Duration(0), stats.P90)
}

func TestSnapshotTallies(t *testing.T) {
	s := NewSnapshot()
	s.Record(resolver.Outcome{Kind: resolver.Resolved, Latency: 10 * time.Millisecond})
	s.Record(resolver.Outcome{Kind: resolver.Resolved, Latency: 20 * time.Millisecond})
	s.Record(resolver.Outcome{Kind: resolver.Timeout, Latency: 500 * time.Millisecond})
	s.Record(resolver.Outcome{Kind: resolver.NotFound, Latency: 15 * time.Millisecond})

	stats := s.Tick()
	assert.Equal(t, 4, stats.Total())
	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 1, stats.NotFound)
	assert.Equal(t, 1, stats.Timeout)
	assert.InDelta(t, 0.25, stats.TimeoutFraction(), 0.001)
	assert.Greater(t, stats.P90, time.Duration(0))
}

func TestSnapshotRingBufferOverwrites(t *testing.T) {
	s := NewSnapshot()
	for i := 0; i < windowSize+10; i++ {
		kind := resolver.Resolved
		if i < 10 {
			kind = resolver.Timeout
		}
		s.Record(resolver.Outcome{Kind: kind, Latency: time.Millisecond})
	}
	stats := s.Tick()
	assert.Equal(t, windowSize, stats.Total())
	assert.Equal(t, 0, stats.Timeout, "the oldest 10 timeout entries should have been overwritten")
}
