// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 representing a span.
//
// A span is a single probe or scrape attempt that can fail in exactly one
// way. Attach the span ID to a logger with [*slog.Logger.With] so that every
// log record produced while resolving one label, or while scraping one
// source, can be correlated.
//
// This function panics if the system random number generator fails, which
// should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
