package diffable

import (
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// UnionDiff implements the shared half of the tagged-union diff rule
// (spec §4.8) that every derive-generated union's Diff method delegates
// to: when both sides hold the same variant, recurse into the payload
// under a Variant path element; when the variant itself changed, replace
// the whole value under WholeVariantReplacement rather than trying to
// reconcile two different payload shapes.
//
// sameVariantDiff is called only when oldVariant == newVariant and must
// diff the two payloads (typically by type-asserting both sides to the
// concrete variant type and calling its Diff method). newValue is the
// entire new union value, serialized wholesale when the variant changed.
func UnionDiff(ctx *diffctx.Context, oldVariant, newVariant string, sameVariantDiff func(ctx *diffctx.Context) (bool, error), newValue any) (bool, error) {
	if oldVariant == newVariant {
		ctx.Push(diffcmd.Variant{Name: oldVariant})
		c, err := sameVariantDiff(ctx)
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		return c, err
	}
	ctx.Push(diffcmd.WholeVariantReplacement{})
	if err := ctx.SaveValue(newValue); err != nil {
		ctx.Pop()
		return false, err
	}
	if err := ctx.Pop(); err != nil {
		return false, err
	}
	return true, nil
}

// UnionApply implements the apply-side counterpart. applySamePayload is
// called with the wire variant name when the stream addresses the
// existing variant's payload directly; replaceWhole is called when the
// stream carries an entire replacement value under
// WholeVariantReplacement.
func UnionApply(
	cur *diffctx.Cursor,
	applySamePayload func(cur *diffctx.Cursor, variant string) (bool, error),
	replaceWhole func(cur *diffctx.Cursor) (bool, error),
) (bool, error) {
	changed := false
	for {
		el, err := cur.NextPathElement()
		if err != nil {
			return changed, err
		}
		if el == nil {
			return changed, nil
		}
		switch p := el.(type) {
		case diffcmd.Variant:
			c, err := applySamePayload(cur, p.Name)
			if err != nil {
				return changed, err
			}
			changed = changed || c
		case diffcmd.WholeVariantReplacement:
			c, err := replaceWhole(cur)
			if err != nil {
				return changed, err
			}
			changed = changed || c
		default:
			if err := cur.SkipCurrentSubtree(); err != nil {
				return changed, err
			}
		}
	}
}
