package structdiff_test

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structform/diff/core/structdiff"
	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffable"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// point is a minimal hand-written stand-in for derive-generated code,
// exercising the public façade end to end without pulling in the
// code generator.
type point struct {
	X int
	Y int
}

func (p *point) Diff(ctx *diffctx.Context, other *point) (bool, error) {
	changed := false
	ctx.Push(diffable.FieldPath(ctx, "X", 0))
	c, err := diffable.DiffLeaf(ctx, p.X, other.X)
	if popErr := ctx.Pop(); err == nil {
		err = popErr
	}
	if err != nil {
		return changed, err
	}
	changed = changed || c

	ctx.Push(diffable.FieldPath(ctx, "Y", 1))
	c, err = diffable.DiffLeaf(ctx, p.Y, other.Y)
	if popErr := ctx.Pop(); err == nil {
		err = popErr
	}
	if err != nil {
		return changed, err
	}
	changed = changed || c
	return changed, nil
}

func (p *point) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, err := cur.NextPathElement()
		if err != nil {
			return changed, err
		}
		if el == nil {
			return changed, nil
		}
		var c bool
		switch {
		case diffable.FieldMatches(el, "X", 0):
			c, err = diffable.ApplyLeaf(cur, &p.X)
		case diffable.FieldMatches(el, "Y", 1):
			c, err = diffable.ApplyLeaf(cur, &p.Y)
		default:
			err = cur.SkipCurrentSubtree()
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
}

// memEncoder/memDecoder/memRaw are a minimal self-describing in-memory
// codec used only by this package's own tests.
type memEncoder struct {
	elts []codec.Element
}

func (e *memEncoder) SelfDescribing() bool            { return true }
func (e *memEncoder) BeginSequence(knownLen int) error { return nil }
func (e *memEncoder) EncodeElement(el codec.Element) error {
	e.elts = append(e.elts, el)
	return nil
}
func (e *memEncoder) EndSequence() error { return nil }

type memRaw struct{ v any }

func (r memRaw) Decode(dst any) error {
	if r.v == nil {
		return nil
	}
	rv := reflect.ValueOf(dst).Elem()
	rv.Set(reflect.ValueOf(r.v).Convert(rv.Type()))
	return nil
}
func (r memRaw) Skip() error { return nil }

type memDecoder struct {
	elts []codec.Element
	pos  int
}

func newMemDecoder(elts []codec.Element) *memDecoder {
	out := make([]codec.Element, len(elts))
	for i, el := range elts {
		out[i] = el
		if el.Payload != nil {
			out[i].Raw = memRaw{v: el.Payload}
		}
	}
	return &memDecoder{elts: out}
}

func (d *memDecoder) DecodeElement() (codec.Element, error) {
	if d.pos >= len(d.elts) {
		return codec.Element{}, io.EOF
	}
	el := d.elts[d.pos]
	d.pos++
	return el, nil
}

// countingRequiredEncoder rejects BeginSequence(-1), the way a real
// length-prefixed host format must: it needs the count up front.
type countingRequiredEncoder struct {
	memEncoder
	beginLen int
}

func (e *countingRequiredEncoder) SelfDescribing() bool { return false }
func (e *countingRequiredEncoder) BeginSequence(knownLen int) error {
	if knownLen < 0 {
		return errNegativeLen
	}
	e.beginLen = knownLen
	return nil
}

var errNegativeLen = errors.New("countingRequiredEncoder: BeginSequence called without a known length")

func TestDiff_NoChangeProducesEmptyStream(t *testing.T) {
	enc := &memEncoder{}
	a, b := point{X: 1, Y: 2}, point{X: 1, Y: 2}
	changed, err := structdiff.Diff[point, *point](enc, structdiff.DefaultConfig(), &a, &b)
	require.NoError(t, err)
	require.False(t, changed)
	require.Empty(t, enc.elts)
}

func TestDiff_FieldChangeRoundTripsThroughApply(t *testing.T) {
	enc := &memEncoder{}
	a, b := point{X: 1, Y: 2}, point{X: 1, Y: 9}
	changed, err := structdiff.Diff[point, *point](enc, structdiff.DefaultConfig(), &a, &b)
	require.NoError(t, err)
	require.True(t, changed)

	dst := point{X: 1, Y: 2}
	changed, err = structdiff.Apply[point, *point](newMemDecoder(enc.elts), &dst)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, b, dst)
}

func TestDiff_ByIndexConfigUsesIndexedFieldPaths(t *testing.T) {
	enc := &memEncoder{}
	a, b := point{X: 1, Y: 2}, point{X: 5, Y: 2}
	cfg := structdiff.Config{FieldMode: diffcmd.ByIndex}
	changed, err := structdiff.Diff[point, *point](enc, cfg, &a, &b)
	require.NoError(t, err)
	require.True(t, changed)

	var sawIndexed bool
	for _, el := range enc.elts {
		if _, ok := el.Path.(diffcmd.IndexedField); ok {
			sawIndexed = true
		}
	}
	require.True(t, sawIndexed)
}

func TestApplyAll_FoldsPatchesInOrder(t *testing.T) {
	base := point{X: 1, Y: 1}
	mid := point{X: 2, Y: 1}
	final := point{X: 2, Y: 9}

	enc1 := &memEncoder{}
	_, err := structdiff.Diff[point, *point](enc1, structdiff.DefaultConfig(), &base, &mid)
	require.NoError(t, err)

	enc2 := &memEncoder{}
	_, err = structdiff.Diff[point, *point](enc2, structdiff.DefaultConfig(), &mid, &final)
	require.NoError(t, err)

	dst := base
	changed, err := structdiff.ApplyAll[point, *point](&dst, []codec.Decoder{
		newMemDecoder(enc1.elts),
		newMemDecoder(enc2.elts),
	})
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, final, dst)
}

func TestDiff_NonSelfDescribingEncoderGetsACountingPrePass(t *testing.T) {
	enc := &countingRequiredEncoder{}
	a, b := point{X: 1, Y: 2}, point{X: 5, Y: 9}
	changed, err := structdiff.Diff[point, *point](enc, structdiff.DefaultConfig(), &a, &b)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, len(enc.elts), enc.beginLen)
}
