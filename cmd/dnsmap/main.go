// SPDX-License-Identifier: GPL-3.0-or-later

// Command dnsmap enumerates live subdomains of an apex domain by
// combining a static wordlist with passive-discovery scrapers, confirming
// every candidate via live DNS resolution.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dnsmap-project/dnsmap/internal/orchestrator"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: dnsmap <apex-domain>")
		return 2
	}

	// signal.NotifyContext gives ^C a responsive cancellation path: the
	// context is done as soon as SIGINT/SIGTERM arrives, and every
	// blocking operation downstream (DNS lookups via context.WithTimeout,
	// HTTP fetches) observes it without a raw net.Conn to wrap.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := orchestrator.Run(ctx, os.Args[1], orchestrator.Options{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err == nil {
		if ctx.Err() != nil {
			// Interrupted (spec §7): the run completed its shutdown
			// path gracefully but was cut short, so the exit code
			// still reflects that this was not a full enumeration.
			return 130
		}
		return 0
	}

	var fatal orchestrator.FatalError
	if ok := asFatalError(err, &fatal); ok {
		code := fatal.ExitCode()
		if code != 0 {
			fmt.Fprintln(os.Stderr, fatal.Error())
		}
		return code
	}
	fmt.Fprintln(os.Stderr, err.Error())
	return 1
}

func asFatalError(err error, target *orchestrator.FatalError) bool {
	if fe, ok := err.(orchestrator.FatalError); ok {
		*target = fe
		return true
	}
	return false
}
