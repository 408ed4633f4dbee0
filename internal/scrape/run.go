// SPDX-License-Identifier: GPL-3.0-or-later

package scrape

import (
	"context"
	"sync"
)

// Result is the outcome of running one [Scraper] to completion.
type Result struct {
	Name   string
	Labels []string
	Err    error
}

// Collect drains s.Scrape(ctx, apex) into a slice, stopping at the first
// error (spec §4.3: a scraper failure after its retry is logged and the
// scraper's partial results are kept).
func Collect(ctx context.Context, s Scraper, apex string) Result {
	var labels []string
	var scrapeErr error
	for label, err := range s.Scrape(ctx, apex) {
		if err != nil {
			scrapeErr = err
			break
		}
		labels = append(labels, label)
	}
	return Result{Name: s.Name(), Labels: labels, Err: scrapeErr}
}

// RunAll runs every scraper concurrently (spec §4.3: "scrapers run
// concurrently with each other") and returns once all of them have
// returned or exhausted their retry budget.
func RunAll(ctx context.Context, scrapers []Scraper, apex string) []Result {
	results := make([]Result, len(scrapers))
	var wg sync.WaitGroup
	for i, s := range scrapers {
		wg.Add(1)
		go func(i int, s Scraper) {
			defer wg.Done()
			results[i] = Collect(ctx, s, apex)
		}(i, s)
	}
	wg.Wait()
	return results
}
