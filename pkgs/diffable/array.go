package diffable

import (
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// Array is the fixed-length aggregate (spec §4.6.2), grounded on Rust's
// array_impls! macro for [T; N]. Go has no way to parameterize a generic
// type over a compile-time array length, so Array operates on slices; the
// caller is responsible for always presenting the same fixed length on
// both sides (typically by passing arr[:] for some Go array arr of a
// fixed size baked into the surrounding type, never a length that varies
// at runtime). Each position is addressed by its numeric index, the same
// way a struct addresses one of its fields by index.
type Array[T any, PT Diffable[T]] []T

func (a Array[T, PT]) Diff(ctx *diffctx.Context, other *Array[T, PT]) (bool, error) {
	changed := false
	n := len(a)
	if len(*other) < n {
		n = len(*other)
	}
	for i := 0; i < n; i++ {
		ctx.Push(diffcmd.IndexedField{Index: uint16(i)})
		c, err := PT(&a[i]).Diff(ctx, &(*other)[i])
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

func (a *Array[T, PT]) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, err := cur.NextPathElement()
		if err != nil {
			return changed, err
		}
		if el == nil {
			return changed, nil
		}
		idx, ok := el.(diffcmd.IndexedField)
		if !ok || int(idx.Index) >= len(*a) {
			if err := cur.SkipCurrentSubtree(); err != nil {
				return changed, err
			}
			continue
		}
		c, err := PT(&(*a)[idx.Index]).Apply(cur)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
}
