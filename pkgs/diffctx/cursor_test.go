package diffctx_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

func TestCursor_ReadValueInto(t *testing.T) {
	dec := newMemDecoder([]codec.Element{
		{Kind: diffcmd.KindValue, Payload: 7},
	})
	cur := diffctx.NewCursor(dec)

	var got int
	changed, err := cur.ReadValueInto(&got)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 7, got)
}

func TestCursor_ReadValueIntoSkipsOnSchemaDrift(t *testing.T) {
	// A field that used to be a leaf now arrives as a nested Enter/Exit —
	// the cursor tolerates this by skipping the subtree instead of erroring.
	dec := newMemDecoder([]codec.Element{
		{Kind: diffcmd.KindEnter, Path: diffcmd.NamedField{Name: "X"}},
		{Kind: diffcmd.KindValue, Payload: 1},
		{Kind: diffcmd.KindExit},
	})
	cur := diffctx.NewCursor(dec)

	var got int
	changed, err := cur.ReadValueInto(&got)
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, 0, got)
}

func TestCursor_SkipCurrentSubtreeHandlesRemoveMapKeyAsDepthNeutral(t *testing.T) {
	// RemoveMapKey never opens a level of its own (spec §4.5's asymmetry
	// versus AddMapKey/EnterMapKey): after the caller's own Enter has
	// already been consumed, a RemoveMapKey inside the subtree must not
	// count as closing it — the subtree's real Exit still has to be read.
	dec := newMemDecoder([]codec.Element{
		{Kind: diffcmd.KindEnter, Path: diffcmd.NamedField{Name: "Inner"}}, // consumed by the caller below
		{Kind: diffcmd.KindRemoveMapKey, Payload: "gone"},
		{Kind: diffcmd.KindExit},
	})
	cur := diffctx.NewCursor(dec)

	// Simulate "one Enter already consumed by the caller".
	_, err := cur.NextPathElement()
	require.NoError(t, err)

	require.NoError(t, cur.SkipCurrentSubtree())

	// The whole stream, including the Exit, must be drained: nothing left.
	_, err = dec.DecodeElement()
	require.ErrorIs(t, err, io.EOF)
}

func TestCursor_NextPathElement(t *testing.T) {
	dec := newMemDecoder([]codec.Element{
		{Kind: diffcmd.KindEnter, Path: diffcmd.SequenceIndex{Index: 3}},
	})
	cur := diffctx.NewCursor(dec)

	el, err := cur.NextPathElement()
	require.NoError(t, err)
	require.Equal(t, diffcmd.SequenceIndex{Index: 3}, el)
}
