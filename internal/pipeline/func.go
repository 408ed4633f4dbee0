// SPDX-License-Identifier: GPL-3.0-or-later

// Package pipeline provides composable primitives for chaining fetch/parse
// style operations: each stage is a single success mode, single failure
// mode [Func], and [Compose2] lets a scraper's HTTP fetch and body-parse
// steps compile-time-verify that their types line up.
package pipeline

import "context"

// Func is a generic operation that accepts an input and returns a result.
//
// Func instances can be composed using [Compose2], [Compose3], etc. to
// create type-safe pipelines where the output of one operation flows to
// the input of the next.
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter wraps a function as a [Func] implementation.
//
// Use this to create ad-hoc [Func] instances from closures when you need
// custom behavior that doesn't fit an existing named stage.
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}
