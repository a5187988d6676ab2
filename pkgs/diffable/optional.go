package diffable

import (
	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// Optional is the built-in optional-value aggregate (spec §4.6.4),
// grounded on Rust's Option<T> impl: it behaves exactly like a Sequence
// of length 0 or 1 — None-to-Some appends the value, Some-to-None emits
// RemoveTail, Some-to-Some-with-a-different-value diffs index 0 in
// place — which is why Option<T> in the original is implemented in terms
// of the same Vec<T> machinery Sequence ports here.
type Optional[T any, PT Diffable[T]] struct {
	Val   T
	Valid bool
}

// Some constructs a present Optional.
func Some[T any, PT Diffable[T]](v T) Optional[T, PT] {
	return Optional[T, PT]{Val: v, Valid: true}
}

// None constructs an absent Optional.
func None[T any, PT Diffable[T]]() Optional[T, PT] {
	return Optional[T, PT]{}
}

func (o Optional[T, PT]) Diff(ctx *diffctx.Context, other *Optional[T, PT]) (bool, error) {
	switch {
	case o.Valid && other.Valid:
		ctx.Push(diffcmd.SequenceIndex{Index: 0})
		c, err := PT(&o.Val).Diff(ctx, &other.Val)
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		return c, err
	case o.Valid && !other.Valid:
		if err := ctx.SaveCommand(codec.Element{Kind: diffcmd.KindRemoveTail, N: 1}, true, true); err != nil {
			return false, err
		}
		return true, nil
	case !o.Valid && other.Valid:
		ctx.Push(diffcmd.AppendToSequence{})
		if err := ctx.SaveValue(other.Val); err != nil {
			ctx.Pop()
			return false, err
		}
		if err := ctx.Pop(); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

func (o *Optional[T, PT]) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, ok, err := cur.ReadNextCommand()
		if err != nil {
			return changed, err
		}
		if !ok {
			return changed, nil
		}
		switch el.Kind {
		case diffcmd.KindExit:
			return changed, nil
		case diffcmd.KindRemoveTail:
			if o.Valid {
				var zero T
				o.Val = zero
				o.Valid = false
				changed = true
			}
			// RemoveTail implicitly closes this optional's level.
			return changed, nil
		case diffcmd.KindEnter:
			switch p := el.Path.(type) {
			case diffcmd.SequenceIndex:
				if p.Index != 0 || !o.Valid {
					if err := cur.SkipCurrentSubtree(); err != nil {
						return changed, err
					}
					continue
				}
				c, err := PT(&o.Val).Apply(cur)
				if err != nil {
					return changed, err
				}
				changed = changed || c
			case diffcmd.AppendToSequence:
				var v T
				read, err := cur.ReadValueInto(&v)
				if err != nil {
					return changed, err
				}
				if read {
					o.Val = v
					o.Valid = true
					changed = true
				}
			default:
				if err := cur.SkipCurrentSubtree(); err != nil {
					return changed, err
				}
			}
		default:
			return changed, nil
		}
	}
}
