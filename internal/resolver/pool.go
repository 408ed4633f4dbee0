// SPDX-License-Identifier: GPL-3.0-or-later

package resolver

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dnsmap-project/dnsmap/internal/config"
	"github.com/dnsmap-project/dnsmap/internal/telemetry"
)

// MinConcurrency and MaxConcurrency bound the pool's worker count, per the
// tuning controller's invariant 8 ≤ C ≤ 512 (spec §8).
const (
	MinConcurrency = 8
	MaxConcurrency = 512

	// MinTimeout and MaxTimeout bound the per-query timeout, per the same
	// invariant (100ms ≤ T ≤ 5s).
	MinTimeout = 100 * time.Millisecond
	MaxTimeout = 5 * time.Second

	// workQueueCapacity bounds the dispatcher-to-worker channel. The spec
	// asks for capacity ≈ 2·C; since C itself varies at runtime, we size
	// the channel once for 2·MaxConcurrency so it never needs resizing
	// (Go channels cannot grow) while still providing real backpressure
	// at every concurrency the controller can select.
	workQueueCapacity = 2 * MaxConcurrency
)

type job struct {
	label      string
	provenance Provenance
}

// Pool is the variable-width resolver worker pool described by spec §4.4.
//
// Construct with [New]. Concurrency and timeout are adjusted at runtime via
// [Pool.SetTarget], normally driven by the tuning controller (internal/tuning).
type Pool struct {
	apex          string
	resolver      config.Resolver
	errClassifier telemetry.ErrClassifier
	timeNow       func() time.Time

	target  atomic.Int64
	timeout atomic.Int64 // nanoseconds
	active  atomic.Int64
	queued  atomic.Int64 // approximate queue depth, for the controller
	wg      sync.WaitGroup

	work      chan job
	ctx       context.Context
	onOutcome func(Outcome)
}

// New returns a [*Pool] with the initial concurrency and timeout mandated
// by spec §4.5 (C=64, T=500ms). apex is the domain every dispatched label
// is resolved under: a probe for label "www" looks up "www.<apex>.".
func New(cfg *config.Config, apex string, errClassifier telemetry.ErrClassifier) *Pool {
	p := &Pool{
		apex:          apex,
		resolver:      cfg.Resolver,
		errClassifier: errClassifier,
		timeNow:       cfg.TimeNow,
		work:          make(chan job, workQueueCapacity),
	}
	p.target.Store(64)
	p.timeout.Store(int64(500 * time.Millisecond))
	return p
}

// Target returns the pool's current concurrency target.
func (p *Pool) Target() int { return int(p.target.Load()) }

// Timeout returns the pool's current per-query timeout.
func (p *Pool) Timeout() time.Duration { return time.Duration(p.timeout.Load()) }

// QueueDepth returns the approximate number of jobs waiting to be picked up
// by a worker, used by the tuning controller's "only grow when the queue
// can feed the new workers" rule (spec §4.5, rule 2).
func (p *Pool) QueueDepth() int { return int(p.queued.Load()) }

// Start binds the pool to ctx and onOutcome, then applies the spec's
// initial concurrency and timeout (C=64, T=500ms), spawning the first
// batch of workers. Call Start once, before [Pool.Dispatch] and before any
// [Pool.SetTarget] call.
func (p *Pool) Start(ctx context.Context, onOutcome func(Outcome)) {
	p.ctx = ctx
	p.onOutcome = onOutcome
	p.SetTarget(64, 500*time.Millisecond)
}

// SetTarget adjusts the pool's concurrency target and per-query timeout,
// clamping to the spec's bounds. If the new target exceeds the number of
// currently active workers, new workers are spawned up to the target
// (ceiling [MaxConcurrency]). If the new target is lower, excess workers
// notice on their next iteration and exit gracefully; SetTarget never kills
// a worker mid-probe.
func (p *Pool) SetTarget(concurrency int, timeout time.Duration) {
	if concurrency < MinConcurrency {
		concurrency = MinConcurrency
	}
	if concurrency > MaxConcurrency {
		concurrency = MaxConcurrency
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	p.target.Store(int64(concurrency))
	p.timeout.Store(int64(timeout))

	for int(p.active.Load()) < concurrency {
		p.active.Add(1)
		p.wg.Add(1)
		go p.workerLoop()
	}
}

// Dispatch reads labels from labels (typically [*labelstore.Store.Iterate])
// and enqueues them for probing, tagging each with its provenance via
// provenanceOf. Dispatch returns once labels is exhausted and every
// enqueued job has been probed. Call [Pool.Start] before Dispatch so that
// workers exist to drain the queue; the tuning controller (internal/tuning)
// then drives concurrency up or down via [Pool.SetTarget] concurrently with
// Dispatch.
func (p *Pool) Dispatch(ctx context.Context, labels <-chan string, provenanceOf func(string) Provenance) {
	for {
		select {
		case label, ok := <-labels:
			if !ok {
				close(p.work)
				p.wg.Wait()
				return
			}
			p.queued.Add(1)
			select {
			case p.work <- job{label: label, provenance: provenanceOf(label)}:
			case <-ctx.Done():
				p.queued.Add(-1)
				close(p.work)
				p.wg.Wait()
				return
			}
		case <-ctx.Done():
			close(p.work)
			p.wg.Wait()
			return
		}
	}
}

func (p *Pool) workerLoop() {
	defer func() {
		p.active.Add(-1)
		p.wg.Done()
	}()
	for {
		// Graceful downscale: a worker above the current target exits
		// before picking up new work, never mid-probe.
		if p.active.Load() > p.target.Load() {
			return
		}
		select {
		case j, ok := <-p.work:
			if !ok {
				return
			}
			p.queued.Add(-1)
			p.onOutcome(p.probe(j))
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) probe(j job) Outcome {
	timeout := p.Timeout()
	probeCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	t0 := p.timeNow()
	addrs, err := p.resolver.LookupHost(probeCtx, j.label+"."+p.apex+".")
	latency := p.timeNow().Sub(t0)

	out := Outcome{
		Label:      j.label,
		Latency:    latency,
		Provenance: j.provenance,
	}

	switch {
	case err == nil && len(addrs) > 0:
		out.Kind = Resolved
		out.Addresses = addrs
	case err == nil:
		out.Kind = NotFound
	default:
		out.ErrClass = p.errClassifier.Classify(err)
		if isTimeoutErr(probeCtx, err) {
			out.Kind = Timeout
		} else if isNotFoundErr(err) {
			out.Kind = NotFound
		} else {
			out.Kind = TransientError
		}
	}
	return out
}

func isTimeoutErr(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func isNotFoundErr(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsNotFound
	}
	return false
}
