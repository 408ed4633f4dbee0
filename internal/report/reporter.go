// SPDX-License-Identifier: GPL-3.0-or-later

// Package report implements the progress bar and stderr telemetry lines
// described by spec §4.6, with the stdout/stderr stream separation §9
// calls a hard contract: confirmed subdomains go to stdout through
// [Reporter.Found], and everything else (banner, progress bar, [info],
// [tune], [stats] lines) goes to stderr through the other methods.
package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// redrawRate bounds the progress bar to at most 10Hz (spec §4.6).
const redrawRate = 10

// Reporter multiplexes stdout (clean FQDN lines) and stderr (banner,
// progress bar, structured log lines), clearing and restoring the
// in-progress bar line around any interleaved stderr write, following the
// clear/redraw discipline a terminal progress bar and interleaved log
// lines both need to coexist on the same stream.
type Reporter struct {
	stdout io.Writer
	stderr io.Writer

	mu      sync.Mutex
	bar     *bar
	limiter *rate.Limiter
	drawn   bool
	lastLen int

	lastAttempted int
	lastTotal     int
	lastFound     int
}

// New returns a Reporter writing confirmed FQDNs to stdout and everything
// else to stderr.
func New(stdout, stderr io.Writer) *Reporter {
	return &Reporter{
		stdout:  stdout,
		stderr:  stderr,
		limiter: rate.NewLimiter(redrawRate, 1),
	}
}

// Banner writes the startup banner line to stderr.
func (r *Reporter) Banner(version, attribution string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.stderr, "dnsmap %s - DNS Network Mapper by %s\n", version, attribution)
}

// Found writes a single confirmed FQDN to stdout, clearing and restoring
// the progress bar so the two streams never interleave mid-line on a
// shared terminal.
func (r *Reporter) Found(fqdn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
	_, err := fmt.Fprintf(r.stdout, "%s\n", fqdn)
	r.redrawLocked()
	return err
}

// Progress updates the bar state and redraws it, throttled to
// [redrawRate] via a token-bucket limiter so a fast probe stream does not
// flood the terminal.
func (r *Reporter) Progress(attempted, total, found int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		r.bar = newBar(total)
	}
	r.lastAttempted, r.lastTotal, r.lastFound = attempted, total, found
	if !r.limiter.Allow() {
		return
	}
	r.clearLocked()
	line := r.bar.update(attempted, total, found)
	fmt.Fprint(r.stderr, line)
	r.drawn = true
	r.lastLen = len(line)
}

// Info writes a "[info] msg" line to stderr.
func (r *Reporter) Info(msg string) {
	r.line("[info] " + msg)
}

// Tune writes a "[tune] ..." line to stderr with the fields spec §4.5
// requires.
func (r *Reporter) Tune(conc int, p90 time.Duration, success, timeouts float64, samples, q int, timeout time.Duration) {
	r.line(fmt.Sprintf("[tune] conc=%d p90=%s success=%.1f%% timeouts=%.1f%% samples=%d q=%d timeout=%s",
		conc, p90, success*100, timeouts*100, samples, q, timeout))
}

// Stats writes the final "[stats] ..." line to stderr.
func (r *Reporter) Stats(attempted, total, found int) {
	r.line(fmt.Sprintf("[stats] attempted=%d total=%d found=%d", attempted, total, found))
}

func (r *Reporter) line(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
	fmt.Fprintln(r.stderr, s)
	r.redrawLocked()
}

func (r *Reporter) clearLocked() {
	if !r.drawn {
		return
	}
	fmt.Fprintf(r.stderr, "\r%s\r", spaces(r.lastLen))
	r.drawn = false
}

func (r *Reporter) redrawLocked() {
	if r.bar == nil {
		return
	}
	line := r.bar.render(r.lastAttempted, r.lastTotal, r.lastFound, r.bar.rate.Value())
	fmt.Fprint(r.stderr, line)
	r.drawn = true
	r.lastLen = len(line)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
