// SPDX-License-Identifier: GPL-3.0-or-later

package tuning

import (
	"context"
	"time"

	"github.com/dnsmap-project/dnsmap/internal/resolver"
)

// tickInterval is the controller's fixed cadence, per spec §4.5.
const tickInterval = 1 * time.Second

// warmupProbes and warmupTimeout bound how long the controller waits
// before its first tick: whichever of "1000 probes completed" or "5
// seconds elapsed" comes first.
const (
	warmupProbes  = 1000
	warmupTimeout = 5 * time.Second
)

// Pool is the subset of [resolver.Pool] the controller drives.
type Pool interface {
	Target() int
	Timeout() time.Duration
	QueueDepth() int
	SetTarget(concurrency int, timeout time.Duration)
}

// Tuner receives each tuning decision for reporting. [*report.Reporter]
// satisfies this interface, so the controller can write its "[tune]" line
// to stderr without going through a second, disconnected logging path.
type Tuner interface {
	Tune(conc int, p90 time.Duration, success, timeouts float64, samples, q int, timeout time.Duration)
}

// Controller runs the adaptive concurrency/timeout policy of spec §4.5
// against a [Snapshot] fed by the resolver pool's outcomes.
type Controller struct {
	pool     Pool
	snapshot *Snapshot
	tuner    Tuner
	timeNow  func() time.Time

	started  time.Time
	probes   int
	tickSeen bool
}

// NewController returns a Controller that tunes pool using the rolling
// window snapshot and reports each decision to tuner.
func NewController(pool Pool, snapshot *Snapshot, tuner Tuner) *Controller {
	return &Controller{
		pool:     pool,
		snapshot: snapshot,
		tuner:    tuner,
		timeNow:  time.Now,
	}
}

// Observe records that a probe has completed, for the warmup gate.
func (c *Controller) Observe() {
	c.probes++
}

// Run blocks, ticking the controller on [tickInterval] until ctx is
// cancelled. Call it from its own goroutine, alongside the resolver
// pool's [resolver.Pool.Dispatch].
func (c *Controller) Run(ctx context.Context) {
	c.started = c.timeNow()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.warmedUp() {
				continue
			}
			c.tick()
		}
	}
}

func (c *Controller) warmedUp() bool {
	if c.tickSeen {
		return true
	}
	if c.probes >= warmupProbes || c.timeNow().Sub(c.started) >= warmupTimeout {
		c.tickSeen = true
		return true
	}
	return false
}

// tick applies the spec §4.5 decision policy once, using the pool's
// current (C, T) and the snapshot's current stats.
func (c *Controller) tick() {
	stats := c.snapshot.Tick()
	if stats.Total() == 0 {
		return
	}

	concurrency := c.pool.Target()
	timeout := c.pool.Timeout()
	queue := c.pool.QueueDepth()

	timeoutRate := stats.TimeoutFraction()
	successRate := 0.0
	if stats.Total() > 0 {
		successRate = float64(stats.Resolved) / float64(stats.Total())
	}

	newConcurrency := concurrency
	newTimeout := timeout

	switch {
	case timeoutRate > 0.05:
		// Rule 1: timeout pressure.
		newTimeout = scaleDuration(timeout, 1.25, resolver.MaxTimeout)
		newConcurrency = scaleInt(concurrency, 0.80, resolver.MinConcurrency)
	case timeoutRate < 0.01 && stats.P90 < timeout/3:
		// Rule 2: slack.
		target := 2 * stats.P90
		if target < 100*time.Millisecond {
			target = 100 * time.Millisecond
		}
		if target < timeout {
			newTimeout = target
		}
		if queue > concurrency/2 {
			newConcurrency = growInt(concurrency, 1.25, resolver.MaxConcurrency)
		}
	default:
		// Rule 3: steady, hold.
	}

	c.pool.SetTarget(newConcurrency, newTimeout)

	c.tuner.Tune(newConcurrency, stats.P90, successRate, timeoutRate, stats.Total(), queue, newTimeout)
}

func scaleDuration(d time.Duration, factor float64, ceiling time.Duration) time.Duration {
	scaled := time.Duration(float64(d) * factor)
	if scaled > ceiling {
		return ceiling
	}
	return scaled
}

func scaleInt(n int, factor float64, floor int) int {
	scaled := int(float64(n) * factor)
	if scaled < floor {
		return floor
	}
	return scaled
}

func growInt(n int, factor float64, ceiling int) int {
	scaled := int(float64(n) * factor)
	if scaled <= n {
		scaled = n + 1
	}
	if scaled > ceiling {
		return ceiling
	}
	return scaled
}
