// SPDX-License-Identifier: GPL-3.0-or-later

package tuning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dnsmap-project/dnsmap/internal/resolver"
)

type fakePool struct {
	target  int
	timeout time.Duration
	queue   int
}

func (f *fakePool) Target() int           { return f.target }
func (f *fakePool) Timeout() time.Duration { return f.timeout }
func (f *fakePool) QueueDepth() int        { return f.queue }
func (f *fakePool) SetTarget(c int, t time.Duration) {
	f.target = c
	f.timeout = t
}

type fakeTuner struct {
	calls int
}

func (f *fakeTuner) Tune(conc int, p90 time.Duration, success, timeouts float64, samples, q int, timeout time.Duration) {
	f.calls++
}

func TestControllerTimeoutPressureReducesConcurrencyAndGrowsTimeout(t *testing.T) {
	pool := &fakePool{target: 64, timeout: 500 * time.Millisecond}
	snap := NewSnapshot()
	for i := 0; i < 100; i++ {
		kind := resolver.Resolved
		if i < 10 {
			kind = resolver.Timeout
		}
		snap.Record(resolver.Outcome{Kind: kind, Latency: 50 * time.Millisecond})
	}

	tuner := &fakeTuner{}
	c := NewController(pool, snap, tuner)
	c.tick()

	assert.Less(t, pool.target, 64)
	assert.GreaterOrEqual(t, pool.target, resolver.MinConcurrency)
	assert.Greater(t, pool.timeout, 500*time.Millisecond)
	assert.LessOrEqual(t, pool.timeout, resolver.MaxTimeout)
	assert.Equal(t, 1, tuner.calls)
}

func TestControllerSlackGrowsConcurrencyWhenQueueDeep(t *testing.T) {
	pool := &fakePool{target: 64, timeout: 500 * time.Millisecond, queue: 40}
	snap := NewSnapshot()
	for i := 0; i < 100; i++ {
		snap.Record(resolver.Outcome{Kind: resolver.Resolved, Latency: 10 * time.Millisecond})
	}

	c := NewController(pool, snap, &fakeTuner{})
	c.tick()

	assert.Greater(t, pool.target, 64)
	assert.LessOrEqual(t, pool.target, resolver.MaxConcurrency)
	assert.Less(t, pool.timeout, 500*time.Millisecond)
}

func TestControllerSteadyHoldsWhenNoPressureOrSlack(t *testing.T) {
	pool := &fakePool{target: 64, timeout: 500 * time.Millisecond, queue: 1}
	snap := NewSnapshot()
	for i := 0; i < 100; i++ {
		snap.Record(resolver.Outcome{Kind: resolver.Resolved, Latency: 200 * time.Millisecond})
	}

	c := NewController(pool, snap, &fakeTuner{})
	c.tick()

	assert.Equal(t, 64, pool.target)
	assert.Equal(t, 500*time.Millisecond, pool.timeout)
}

func TestControllerWarmupGate(t *testing.T) {
	pool := &fakePool{target: 64, timeout: 500 * time.Millisecond}
	snap := NewSnapshot()
	c := NewController(pool, snap, &fakeTuner{})
	c.started = time.Now()
	assert.False(t, c.warmedUp())
	c.probes = warmupProbes
	assert.True(t, c.warmedUp())
}
