// SPDX-License-Identifier: GPL-3.0-or-later

package resolver

import (
	"context"
	"net"
	"sync"
)

// funcResolver is a [config.Resolver] test double in the teacher's
// "*stub.Func..." idiom (see helpers_test.go in the bassosimone/nop
// package this repo is derived from): every method is backed by an
// injectable function field.
type funcResolver struct {
	mu            sync.Mutex
	calls         int
	LookupHostFunc func(ctx context.Context, host string) ([]string, error)
}

func (f *funcResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.LookupHostFunc(ctx, host)
}

func (f *funcResolver) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errNXDOMAIN = &net.DNSError{Err: "no such host", IsNotFound: true}
