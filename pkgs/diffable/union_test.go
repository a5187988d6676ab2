package diffable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structform/diff/pkgs/diffable"
	"github.com/structform/diff/pkgs/diffable/diffabletest"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// shape, circle, and square stand in for a derive-generated tagged union
// (spec §4.8): two variant structs implementing a marker interface, and a
// wrapper whose Diff/Apply delegate to diffable.UnionDiff/UnionApply the
// same way generated code would.
type shape interface{ isShape() }

type circle struct{ R leafInt }
type square struct{ Side leafInt }

func (*circle) isShape() {}
func (*square) isShape() {}

func (c *circle) Diff(ctx *diffctx.Context, other *circle) (bool, error) {
	ctx.Push(diffcmd.NamedField{Name: "R"})
	changed, err := c.R.Diff(ctx, &other.R)
	if popErr := ctx.Pop(); err == nil {
		err = popErr
	}
	return changed, err
}

func (c *circle) Apply(cur *diffctx.Cursor) (bool, error) {
	el, err := cur.NextPathElement()
	if err != nil {
		return false, err
	}
	if el == nil {
		return false, nil
	}
	if _, ok := el.(diffcmd.NamedField); !ok {
		return false, cur.SkipCurrentSubtree()
	}
	return (&c.R).Apply(cur)
}

func (s *square) Diff(ctx *diffctx.Context, other *square) (bool, error) {
	ctx.Push(diffcmd.NamedField{Name: "Side"})
	changed, err := s.Side.Diff(ctx, &other.Side)
	if popErr := ctx.Pop(); err == nil {
		err = popErr
	}
	return changed, err
}

func (s *square) Apply(cur *diffctx.Cursor) (bool, error) {
	el, err := cur.NextPathElement()
	if err != nil {
		return false, err
	}
	if el == nil {
		return false, nil
	}
	if _, ok := el.(diffcmd.NamedField); !ok {
		return false, cur.SkipCurrentSubtree()
	}
	return (&s.Side).Apply(cur)
}

func variantName(s shape) string {
	switch s.(type) {
	case *circle:
		return "circle"
	case *square:
		return "square"
	default:
		return ""
	}
}

type shapeBox struct{ V shape }

func (b *shapeBox) Diff(ctx *diffctx.Context, other *shapeBox) (bool, error) {
	oldVariant := variantName(b.V)
	newVariant := variantName(other.V)
	return diffable.UnionDiff(ctx, oldVariant, newVariant, func(ctx *diffctx.Context) (bool, error) {
		switch ov := b.V.(type) {
		case *circle:
			return ov.Diff(ctx, other.V.(*circle))
		case *square:
			return ov.Diff(ctx, other.V.(*square))
		default:
			return false, nil
		}
	}, other.V)
}

func (b *shapeBox) Apply(cur *diffctx.Cursor) (bool, error) {
	return diffable.UnionApply(cur,
		func(cur *diffctx.Cursor, variant string) (bool, error) {
			switch v := b.V.(type) {
			case *circle:
				if variant != "circle" {
					return false, cur.SkipCurrentSubtree()
				}
				return v.Apply(cur)
			case *square:
				if variant != "square" {
					return false, cur.SkipCurrentSubtree()
				}
				return v.Apply(cur)
			default:
				return false, cur.SkipCurrentSubtree()
			}
		},
		func(cur *diffctx.Cursor) (bool, error) {
			var v shape
			changed, err := cur.ReadValueInto(&v)
			if err != nil {
				return changed, err
			}
			if changed {
				b.V = v
			}
			return changed, err
		},
	)
}

func TestUnion_SameVariantNoChange(t *testing.T) {
	a := shapeBox{V: &circle{R: 5}}
	b := shapeBox{V: &circle{R: 5}}
	elts, changed, err := diffabletest.Diff[shapeBox, *shapeBox](diffcmd.ByName, &a, &b)
	require.NoError(t, err)
	require.False(t, changed)
	require.Empty(t, elts)
}

func TestUnion_SameVariantPayloadChanged(t *testing.T) {
	a := shapeBox{V: &circle{R: 5}}
	b := shapeBox{V: &circle{R: 9}}
	elts, changed, err := diffabletest.Diff[shapeBox, *shapeBox](diffcmd.ByName, &a, &b)
	require.NoError(t, err)
	require.True(t, changed)

	dst := shapeBox{V: &circle{R: 5}}
	changed, err = diffabletest.Apply[shapeBox, *shapeBox](&dst, elts)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, &circle{R: 9}, dst.V)
}

func TestUnion_VariantChangedIsWholeReplacement(t *testing.T) {
	a := shapeBox{V: &circle{R: 5}}
	b := shapeBox{V: &square{Side: 3}}
	elts, changed, err := diffabletest.Diff[shapeBox, *shapeBox](diffcmd.ByName, &a, &b)
	require.NoError(t, err)
	require.True(t, changed)
	require.Len(t, elts, 2)
	require.Equal(t, diffcmd.KindEnter, elts[0].Kind)
	require.Equal(t, diffcmd.WholeVariantReplacement{}, elts[0].Path)
	require.Equal(t, diffcmd.KindValue, elts[1].Kind)

	dst := shapeBox{V: &circle{R: 5}}
	changed, err = diffabletest.Apply[shapeBox, *shapeBox](&dst, elts)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, &square{Side: 3}, dst.V)
}
