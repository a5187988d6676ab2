package diffctx

import (
	"errors"
	"io"

	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
)

// Cursor is the apply-side traversal state (spec §3.4/§4.5). It carries no
// persistent state beyond wrapping the decoder's sequence cursor — every
// operation is a read that either classifies and consumes one element, or
// walks a bounded number of elements to skip a subtree.
type Cursor struct {
	dec codec.Decoder
}

// NewCursor wraps a host decoder's sequence source.
func NewCursor(dec codec.Decoder) *Cursor {
	return &Cursor{dec: dec}
}

func (c *Cursor) next() (codec.Element, bool, error) {
	el, err := c.dec.DecodeElement()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return codec.Element{}, false, nil
		}
		return codec.Element{}, false, err
	}
	return el, true, nil
}

// NextPathElement consumes the next command and classifies it: an Enter
// yields its PathElement; a Value, RemoveTail, map-key command, Exit, or
// end of stream all yield nil so the caller's descent loop stops. Any
// aggregate whose own commands never include a bare Exit at this level
// (sequences, maps) relies on ReadNextCommand instead.
func (c *Cursor) NextPathElement() (diffcmd.PathElement, error) {
	el, ok, err := c.next()
	if err != nil || !ok {
		return nil, err
	}
	if el.Kind == diffcmd.KindEnter {
		return el.Path, nil
	}
	return nil, nil
}

// SkipCurrentSubtree consumes commands until the subtree just entered (one
// Enter already consumed by the caller) is fully closed, counting depth
// exactly as the implicit-exit rule requires: Enter/AddMapKey/EnterMapKey
// open a level, Exit/Value/RemoveTail close one, and RemoveMapKey is
// self-contained and changes nothing (it was never preceded by its own
// Enter). Mismatched open/close is fatal.
func (c *Cursor) SkipCurrentSubtree() error {
	return c.skipDepth(1)
}

func (c *Cursor) skipDepth(depth int) error {
	for depth > 0 {
		el, ok, err := c.next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch el.Kind {
		case diffcmd.KindEnter, diffcmd.KindAddMapKey, diffcmd.KindEnterMapKey:
			depth++
		case diffcmd.KindExit, diffcmd.KindValue, diffcmd.KindRemoveTail:
			depth--
		case diffcmd.KindRemoveMapKey:
			// self-closing and never opened: no depth change.
		default:
			return malformed()
		}
	}
	if depth != 0 {
		return malformed()
	}
	return nil
}

// ReadValueInto expects the next command to be a Value and deserializes it
// into dst (a pointer). If an Enter arrives instead — the schema diverged
// and this position wanted a nested diff rather than a whole value — the
// subtree is skipped and (false, nil) is reported: no change at this
// level, but not an error either.
func (c *Cursor) ReadValueInto(dst any) (bool, error) {
	el, ok, err := c.next()
	if err != nil || !ok {
		return false, err
	}
	switch el.Kind {
	case diffcmd.KindValue:
		if err := el.Raw.Decode(dst); err != nil {
			return false, err
		}
		return true, nil
	case diffcmd.KindEnter:
		if err := c.skipDepth(1); err != nil {
			return false, err
		}
		return false, nil
	case diffcmd.KindExit:
		return false, malformed()
	default:
		return false, nil
	}
}

// ReadNextCommand returns the raw next element for collection-shaped types
// (sequences, maps) that need to see SequenceIndex/AppendToSequence/
// RemoveTail/AddMapKey/EnterMapKey/RemoveMapKey directly rather than the
// narrowed classification NextPathElement provides. ok is false at end of
// stream.
func (c *Cursor) ReadNextCommand() (codec.Element, bool, error) {
	return c.next()
}
