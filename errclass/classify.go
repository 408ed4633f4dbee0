//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package errclass classifies DNS probe and scraper HTTP errors into short
// categorical strings suitable for structured logging and for driving the
// tuning controller's timeout/transient accounting.
package errclass

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
)

// Classification labels. These are the categories the tuning controller and
// reporter care about; anything that does not match a specific category
// falls back to [EGENERIC].
const (
	// ENONE is returned for a nil error.
	ENONE = ""

	// ETIMEDOUT covers context deadline exceeded, i/o timeout, and ETIMEDOUT.
	ETIMEDOUT = "ETIMEDOUT"

	// ENOTFOUND covers NXDOMAIN and "no such host" style negative answers.
	ENOTFOUND = "ENOTFOUND"

	// ECONNREFUSED covers connection-refused style resolver/transport errors.
	ECONNREFUSED = "ECONNREFUSED"

	// ECONNRESET covers connection-reset style resolver/transport errors.
	ECONNRESET = "ECONNRESET"

	// ENETUNREACH covers network/host unreachable errors.
	ENETUNREACH = "ENETUNREACH"

	// ECANCELED covers caller-initiated cancellation (not a resolver fault).
	ECANCELED = "ECANCELED"

	// EGENERIC is the fallback for anything not classified above.
	EGENERIC = "EGENERIC"
)

// Classify maps err to one of the categories above.
//
// A nil error classifies as [ENONE]. [Classify] first checks context
// cancellation, then [*net.DNSError] (the error type produced by
// [*net.Resolver].LookupHost and friends), then the platform syscall errno
// table built in unix.go / windows.go, and finally falls back to
// [EGENERIC].
func Classify(err error) string {
	if err == nil {
		return ENONE
	}

	if errors.Is(err, context.Canceled) {
		return ECANCELED
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ETIMEDOUT
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsTimeout:
			return ETIMEDOUT
		case dnsErr.IsNotFound:
			return ENOTFOUND
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Timeout() {
		return ETIMEDOUT
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if label, ok := classifyErrno(errno); ok {
			return label
		}
	}

	if os.IsTimeout(err) {
		return ETIMEDOUT
	}

	return EGENERIC
}

// classifyErrno maps a platform errno to a category using the per-platform
// constant tables in unix.go and windows.go.
func classifyErrno(errno syscall.Errno) (string, bool) {
	switch errno {
	case errETIMEDOUT, errEINTR:
		return ETIMEDOUT, true
	case errECONNREFUSED:
		return ECONNREFUSED, true
	case errECONNRESET, errECONNABORTED, errENOTCONN:
		return ECONNRESET, true
	case errENETDOWN, errENETUNREACH, errEHOSTUNREACH:
		return ENETUNREACH, true
	case errEADDRNOTAVAIL, errEADDRINUSE, errEINVAL, errENOBUFS, errEPROTONOSUPPORT:
		return EGENERIC, true
	default:
		return EGENERIC, false
	}
}
