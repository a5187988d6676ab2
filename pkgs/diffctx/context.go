package diffctx

import (
	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
)

// keyThunk emits a path-addressing command for a type-erased key. Map
// built-ins use this to push an EnterMapKey(key) onto the pending stack
// without the stack itself needing to be generic over the map's key type.
type keyThunk func(enc codec.Encoder) error

type stackEntry struct {
	path  diffcmd.PathElement
	thunk keyThunk
}

// Context is the diff-side traversal state (spec §3.3/§4.4). It buffers
// path-prefix entries during descent and flushes them only when a value
// actually changes, so an unchanged subtree never touches the encoder.
//
// Context is not safe for concurrent use; exactly one goroutine drives one
// top-level Diff call.
type Context struct {
	stack        *[]stackEntry
	enc          codec.Encoder
	fieldMode    diffcmd.FieldMode
	implicitExit bool
	changed      bool
}

// NewContext constructs the root diff context around a host encoder's
// sequence sink.
func NewContext(enc codec.Encoder, mode diffcmd.FieldMode) *Context {
	stack := make([]stackEntry, 0, 8)
	return &Context{stack: &stack, enc: enc, fieldMode: mode}
}

// FieldMode reports the field-identification mode this context was built
// with.
func (c *Context) FieldMode() diffcmd.FieldMode {
	return c.fieldMode
}

// Changed reports whether any command has been emitted on this context.
func (c *Context) Changed() bool {
	return c.changed
}

// Push buffers a path element for the current descent. It is not written
// to the encoder until a change is found beneath it.
func (c *Context) Push(p diffcmd.PathElement) {
	*c.stack = append(*c.stack, stackEntry{path: p})
}

// PushKeyThunk buffers a closure that, when flushed, emits an
// EnterMapKey-shaped command for a key value that lives on the caller's
// stack. Pop (via its normal scope-trimming path) removes it on any
// return, error or not, so it never outlives the Diff call that pushed
// it.
func (c *Context) PushKeyThunk(f func(enc codec.Encoder) error) {
	*c.stack = append(*c.stack, stackEntry{thunk: f})
}

// Pop undoes one Push/PushKeyThunk. If nothing is pending it either
// swallows an Exit the last SaveValue/SaveCommand already implied, or
// writes an explicit Exit.
func (c *Context) Pop() error {
	s := *c.stack
	if len(s) > 0 {
		*c.stack = s[:len(s)-1]
		return nil
	}
	if c.implicitExit {
		c.implicitExit = false
		return nil
	}
	return c.flush(codec.Element{Kind: diffcmd.KindExit}, true, false)
}

// SaveValue flushes any pending path entries and emits Value(v). It marks
// this context as changed and sets the implicit-exit flag, per the
// implicit-exit rule (spec §4.1).
func (c *Context) SaveValue(v any) error {
	return c.flush(codec.Element{Kind: diffcmd.KindValue, Payload: v}, true, true)
}

// SaveCommand is the general flush-and-emit operation used for everything
// besides a leaf Value: RemoveTail, AddMapKey (and its trailing Value),
// EnterMapKey, RemoveMapKey, and an explicit Exit. implicitExit and
// isChange must match the command kind's CommandKind.ImplicitlyExits()/
// semantics; callers in this module always pass them explicitly rather
// than deriving them, since a few commands (EnterMapKey) don't self-close
// even though they carry a payload.
func (c *Context) SaveCommand(el codec.Element, implicitExit, isChange bool) error {
	return c.flush(el, implicitExit, isChange)
}

func (c *Context) flush(el codec.Element, implicitExit, isChange bool) error {
	s := *c.stack
	for _, e := range s {
		if e.thunk != nil {
			if err := e.thunk(c.enc); err != nil {
				return err
			}
			continue
		}
		if err := c.enc.EncodeElement(codec.Element{Kind: diffcmd.KindEnter, Path: e.path}); err != nil {
			return err
		}
	}
	if len(s) > 0 {
		*c.stack = s[:0]
	}
	c.changed = c.changed || isChange
	c.implicitExit = implicitExit
	return c.enc.EncodeElement(el)
}
