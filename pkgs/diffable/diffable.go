// Package diffable defines the Diffable contract (spec §3.5/§4.6) and ships
// the built-in leaf and aggregate implementations every diffable type
// composes from: sequences, fixed-length slices (the array/tuple shape),
// optionals, and keyed maps, both hashed and ordered.
package diffable

import (
	"github.com/structform/diff/pkgs/diffctx"
)

// Diffable is the contract every diffable type satisfies, expressed as a
// Go generics pointer-receiver constraint: T is the value type, and PT is
// whatever pointer-to-T type implements Diff/Apply. Built-in generic
// containers (Sequence, Optional, HashedMap, OrderedMap below) are all
// parameterized over a pair (T, PT) for exactly this reason — Go has no
// way to say "T, or *T, implements this interface" without naming both.
//
// Diff emits commands for the subtree rooted at other relative to the
// receiver and reports whether anything changed. Apply consumes commands
// addressed at this subtree and mutates the receiver in place, reporting
// whether anything actually changed.
type Diffable[T any] interface {
	*T
	Diff(ctx *diffctx.Context, other *T) (bool, error)
	Apply(cur *diffctx.Cursor) (bool, error)
}
