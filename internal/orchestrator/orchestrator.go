// SPDX-License-Identifier: GPL-3.0-or-later

package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dnsmap-project/dnsmap/internal/config"
	"github.com/dnsmap-project/dnsmap/internal/labelstore"
	"github.com/dnsmap-project/dnsmap/internal/report"
	"github.com/dnsmap-project/dnsmap/internal/resolver"
	"github.com/dnsmap-project/dnsmap/internal/scrape"
	"github.com/dnsmap-project/dnsmap/internal/telemetry"
	"github.com/dnsmap-project/dnsmap/internal/tuning"
	"github.com/dnsmap-project/dnsmap/internal/wordlist"
	"golang.org/x/net/publicsuffix"
)

// Stats holds the Global Stats totals described by spec §3, read by
// Run's caller after completion and written into the final [stats] line.
type Stats struct {
	Attempted   int64
	Found       int64
	ScrapeFound int64
	Total       int64
	Duration    time.Duration
}

// AvgPerSec returns the mean attempted-probes-per-second over Duration.
func (s Stats) AvgPerSec() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Attempted) / s.Duration.Seconds()
}

// Options configures a Run beyond the mandatory apex argument, letting
// tests inject fakes for the resolver, HTTP client, scrapers, and
// wordlist instead of touching the network.
type Options struct {
	Config   *config.Config
	Scrapers []scrape.Scraper // nil uses [scrape.Default]
	Wordlist func() []string  // nil uses [wordlist.Labels]
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run executes one full enumeration of apex and returns the final
// [Stats]. It returns a [FatalError] for ArgumentError, ApexUnreachable,
// or OutputBroken; any other error is a programming error.
func Run(ctx context.Context, apex string, opts Options) (Stats, error) {
	apex = strings.TrimSpace(apex)
	if apex == "" {
		return Stats{}, &ArgumentError{Reason: "apex domain is required"}
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(apex)); err != nil || !strings.EqualFold(etld1, apex) {
		return Stats{}, &ArgumentError{Reason: fmt.Sprintf("apex %q is not a registrable domain", apex)}
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	wordlistFunc := opts.Wordlist
	if wordlistFunc == nil {
		wordlistFunc = wordlist.Labels
	}

	rep := report.New(opts.Stdout, opts.Stderr)
	rep.Banner(Version, Attribution)

	// Init: confirm the apex itself resolves before entering brute-force.
	if _, err := cfg.Resolver.LookupHost(ctx, apex+"."); err != nil {
		return Stats{}, &ApexUnreachable{Apex: apex, Err: err}
	}

	store := labelstore.New(apex)

	scrapers := opts.Scrapers
	if scrapers == nil {
		logger := slog.New(slog.NewTextHandler(opts.Stderr, nil))
		client := scrape.NewClient(cfg, telemetry.DefaultErrClassifier, logger)
		scrapers = scrape.Default(client)
	}

	// Scrape phase: run every scraper concurrently, merging results into
	// the Label Store as they arrive and reporting per-scraper yield.
	runScrapePhase(ctx, store, scrapers, apex, rep)

	// Merge: seed the wordlist. Order doesn't matter for correctness (the
	// store dedups by folded form) but recording the store's contents
	// before the wordlist loop keeps provenance tagging simple: any label
	// already present at that point came from scraping.
	scraped := make(map[string]struct{})
	for _, l := range store.Snapshot() {
		scraped[l] = struct{}{}
	}
	for _, label := range wordlistFunc() {
		store.Add(label)
	}
	store.Freeze()

	// Brute-force: dispatch every label in the (now-frozen, but still
	// growable per spec §3c) store through the resolver worker pool,
	// driven by the tuning controller.
	stats, outErr := runBruteForce(ctx, apex, cfg, store, scraped, rep)
	if outErr != nil {
		return stats, &OutputBroken{Err: outErr, AnyDelivered: stats.Found > 0}
	}

	rep.Stats(int(stats.Attempted), int(stats.Total), int(stats.Found))
	return stats, nil
}

func runScrapePhase(ctx context.Context, store *labelstore.Store, scrapers []scrape.Scraper, apex string, rep *report.Reporter) {
	var wg sync.WaitGroup
	for _, s := range scrapers {
		wg.Add(1)
		go func(s scrape.Scraper) {
			defer wg.Done()
			result := scrape.Collect(ctx, s, apex)
			if result.Err != nil {
				rep.Info(fmt.Sprintf("scrape %s failed: %v", result.Name, result.Err))
			}
			newCount := 0
			for _, label := range result.Labels {
				if store.Add(label) {
					newCount++
				}
			}
			rep.Info(fmt.Sprintf("scrape %s yielded %d labels, of which %d are new", result.Name, len(result.Labels), newCount))
		}(s)
	}
	wg.Wait()
}

func runBruteForce(ctx context.Context, apex string, cfg *config.Config, store *labelstore.Store, scraped map[string]struct{}, rep *report.Reporter) (Stats, error) {
	start := time.Now()

	var attempted, found, scrapeFound atomic.Int64
	confirmed := make(map[string]struct{})
	var confirmedMu sync.Mutex
	var outputErr atomic.Pointer[error]

	pool := resolver.New(cfg, apex, telemetry.DefaultErrClassifier)
	snapshot := tuning.NewSnapshot()
	controller := tuning.NewController(pool, snapshot, rep)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	onOutcome := func(o resolver.Outcome) {
		attempted.Add(1)
		snapshot.Record(o)
		controller.Observe()

		if o.Kind == resolver.Resolved && len(o.Addresses) > 0 {
			fqdn := o.Label + "." + apex
			confirmedMu.Lock()
			_, dup := confirmed[fqdn]
			if !dup {
				confirmed[fqdn] = struct{}{}
			}
			confirmedMu.Unlock()
			if !dup {
				if err := rep.Found(fqdn); err != nil {
					outputErr.Store(&err)
					cancel()
				} else {
					found.Add(1)
					if o.Provenance == resolver.FromScrape {
						scrapeFound.Add(1)
					}
				}
			}
		}

		rep.Progress(int(attempted.Load()), store.Size(), int(found.Load()))
	}

	pool.Start(runCtx, onOutcome)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		controller.Run(runCtx)
	}()

	provenanceOf := func(label string) resolver.Provenance {
		if _, ok := scraped[label]; ok {
			return resolver.FromScrape
		}
		return resolver.FromWordlist
	}
	pool.Dispatch(runCtx, store.Iterate(), provenanceOf)

	cancel()
	wg.Wait()

	stats := Stats{
		Attempted:   attempted.Load(),
		Found:       found.Load(),
		ScrapeFound: scrapeFound.Load(),
		Total:       int64(store.Size()),
		Duration:    time.Since(start),
	}
	if errPtr := outputErr.Load(); errPtr != nil {
		return stats, *errPtr
	}
	return stats, nil
}
