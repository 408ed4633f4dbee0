// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import "github.com/dnsmap-project/dnsmap/errclass"

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Implementations map errors to short, descriptive labels (e.g.,
// "ETIMEDOUT", "ECONNREFUSED") that drive the tuning controller's
// timeout/transient accounting and structured log fields.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier classifies DNS probe and scraper errors using
// [errclass.Classify].
var DefaultErrClassifier = ErrClassifierFunc(errclass.Classify)
