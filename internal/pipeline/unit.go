// SPDX-License-Identifier: GPL-3.0-or-later

package pipeline

// Unit is a type not containing any value (analogous to an explicit
// `void` type in C and C++).
//
// Use this type to construct a [Func] that takes no argument or returns
// no value to the caller.
type Unit struct{}
