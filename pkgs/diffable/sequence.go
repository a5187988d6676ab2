package diffable

import (
	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// Sequence is the built-in ordered-sequence aggregate (spec §4.6.3),
// grounded on the Rust Vec<T> impl: elements are compared pairwise up to
// the shorter length; a shrink emits one RemoveTail, a growth emits one
// AddToCollection-shaped append per new element, each carrying the new
// element's whole value rather than a nested diff (there is nothing on
// the receiver side to diff it against).
type Sequence[T any, PT Diffable[T]] []T

func (s Sequence[T, PT]) Diff(ctx *diffctx.Context, other *Sequence[T, PT]) (bool, error) {
	changed := false
	minLen := len(s)
	if len(*other) < minLen {
		minLen = len(*other)
	}
	for i := 0; i < minLen; i++ {
		ctx.Push(diffcmd.SequenceIndex{Index: i})
		c, err := PT(&s[i]).Diff(ctx, &(*other)[i])
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	switch {
	case len(*other) < len(s):
		n := len(s) - len(*other)
		if err := ctx.SaveCommand(codec.Element{Kind: diffcmd.KindRemoveTail, N: n}, true, true); err != nil {
			return changed, err
		}
		changed = true
	case len(*other) > len(s):
		for i := minLen; i < len(*other); i++ {
			ctx.Push(diffcmd.AppendToSequence{})
			if err := ctx.SaveValue((*other)[i]); err != nil {
				ctx.Pop()
				return changed, err
			}
			if err := ctx.Pop(); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

func (s *Sequence[T, PT]) Apply(cur *diffctx.Cursor) (bool, error) {
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
			n := el.N
			if n > len(*s) {
				n = len(*s)
			}
			*s = (*s)[:len(*s)-n]
			// RemoveTail implicitly closes this sequence's level.
			return true, nil
		case diffcmd.KindEnter:
			switch p := el.Path.(type) {
			case diffcmd.SequenceIndex:
				if p.Index < 0 || p.Index >= len(*s) {
					if err := cur.SkipCurrentSubtree(); err != nil {
						return changed, err
					}
					continue
				}
				c, err := PT(&(*s)[p.Index]).Apply(cur)
				if err != nil {
					return changed, err
				}
				changed = changed || c
			case diffcmd.AppendToSequence:
				var item T
				read, err := cur.ReadValueInto(&item)
				if err != nil {
					return changed, err
				}
				if read {
					*s = append(*s, item)
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
