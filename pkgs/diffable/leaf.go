package diffable

import (
	"time"

	"github.com/structform/diff/pkgs/diffctx"
)

// DiffLeaf implements the opaque diff rule (spec §4.2) directly against a
// field value, with no wrapper type: it emits Value(new) iff old != new.
// Built-in scalar fields (bool, every integer width, every float width,
// rune, string, time.Duration, netip.Addr, netip.AddrPort, NonZero[T]) and
// any derive-generated "opaque" field all route through this one function.
// Types that are not comparable with == (byte slices, time.Time) use
// DiffLeafEqual instead.
func DiffLeaf[T comparable](ctx *diffctx.Context, old, new T) (bool, error) {
	if old == new {
		return false, nil
	}
	if err := ctx.SaveValue(new); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyLeaf reads a Value command into *dst. The bool result distinguishes
// an actual value arriving from the schema-diverged skip described in
// diffctx.Cursor.ReadValueInto.
func ApplyLeaf[T any](cur *diffctx.Cursor, dst *T) (bool, error) {
	return cur.ReadValueInto(dst)
}

// DiffLeafEqual is DiffLeaf for leaf types whose equality isn't expressible
// with ==: time.Time (wall-clock instants compare with .Equal, not field
// equality — two Times can denote the same instant in different
// monotonic/location representations) and any byte-slice-backed type.
func DiffLeafEqual[T any](ctx *diffctx.Context, old, new T, equal func(a, b T) bool) (bool, error) {
	if equal(old, new) {
		return false, nil
	}
	if err := ctx.SaveValue(new); err != nil {
		return false, err
	}
	return true, nil
}

// DiffTime is DiffLeafEqual specialized to time.Time, the required
// wall-clock-instant leaf (spec §4.2). NaN-style "two different
// representations of the same value" ambiguity doesn't arise for floats
// alone — see DiffLeaf's direct use for float32/float64, where the spec
// explicitly accepts host-language equality (NaN != NaN is fine; see
// DESIGN.md).
func DiffTime(ctx *diffctx.Context, old, new time.Time) (bool, error) {
	return DiffLeafEqual(ctx, old, new, time.Time.Equal)
}

// ApplyTime reads a Value into a *time.Time target.
func ApplyTime(cur *diffctx.Cursor, dst *time.Time) (bool, error) {
	return cur.ReadValueInto(dst)
}

// DiffBytes is DiffLeafEqual specialized to byte strings (spec §4.2's
// "byte-string" leaf): []byte isn't comparable with ==, so equality is
// bytes.Equal.
func DiffBytes(ctx *diffctx.Context, old, new []byte) (bool, error) {
	return DiffLeafEqual(ctx, old, new, bytesEqual)
}

// ApplyBytes reads a Value into a *[]byte target.
func ApplyBytes(cur *diffctx.Cursor, dst *[]byte) (bool, error) {
	return cur.ReadValueInto(dst)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Unit is the leaf type with exactly one value. It never differs, so Diff
// always reports no change; Apply never reads anything.
type Unit struct{}

func (Unit) Diff(_ *diffctx.Context, _ *Unit) (bool, error) { return false, nil }
func (*Unit) Apply(_ *diffctx.Cursor) (bool, error)         { return false, nil }

// Path is the filesystem-path leaf (spec §4.2). It's a defined string
// type purely so a field's intent reads clearly in derive-tagged structs;
// it diffs exactly like any other comparable scalar.
type Path string

// Integer is the constraint NonZero is generic over: every built-in
// integer width the spec's leaf set names (8/16/32/64 plus word-width,
// signed and unsigned). Go has no 128-bit integer type, so unlike the
// spec's width-8/16/32/64/128 list this stops at 64 — the widest the
// language itself offers.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// NonZero wraps an integer that is never zero, the required "non-zero
// integer variants" leaf family (spec §4.2). The zero value of NonZero[T]
// is invalid; construct one with NewNonZero.
type NonZero[T Integer] struct {
	v T
}

// NewNonZero validates v != 0 and returns the wrapped value.
func NewNonZero[T Integer](v T) (NonZero[T], error) {
	if v == 0 {
		return NonZero[T]{}, errZeroNonZero
	}
	return NonZero[T]{v: v}, nil
}

// Get returns the wrapped integer.
func (n NonZero[T]) Get() T { return n.v }

func (n NonZero[T]) Diff(ctx *diffctx.Context, other *NonZero[T]) (bool, error) {
	return DiffLeaf(ctx, n.v, other.v)
}

func (n *NonZero[T]) Apply(cur *diffctx.Cursor) (bool, error) {
	return ApplyLeaf(cur, &n.v)
}
