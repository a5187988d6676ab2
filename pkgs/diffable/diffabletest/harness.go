// Package diffabletest is the shared test harness for pkgs/diffable's
// built-in aggregates (spec §8.3): an in-memory codec.Encoder/Decoder
// pair that passes payloads through by value instead of serializing
// them, plus Diff and Apply helpers that every built-in's test file
// reuses: Diff records the command stream one value's Diff emits against
// another, and Apply replays such a stream onto a target.
package diffabletest

import (
	"io"
	"reflect"

	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffable"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// MemEncoder is an Encoder that keeps every element in memory, Payload
// untouched — no host format actually owns these bytes, so tests can
// assert directly against the recorded commands.
type MemEncoder struct {
	Elements []codec.Element
}

func (e *MemEncoder) SelfDescribing() bool            { return true }
func (e *MemEncoder) BeginSequence(knownLen int) error { return nil }
func (e *MemEncoder) EncodeElement(el codec.Element) error {
	e.Elements = append(e.Elements, el)
	return nil
}
func (e *MemEncoder) EndSequence() error { return nil }

type memRaw struct{ v any }

func (r memRaw) Decode(dst any) error {
	if r.v == nil {
		return nil
	}
	rv := reflect.ValueOf(dst).Elem()
	pv := reflect.ValueOf(r.v)
	rv.Set(pv.Convert(rv.Type()))
	return nil
}
func (r memRaw) Skip() error { return nil }

// MemDecoder replays a slice of codec.Element, typically MemEncoder's
// own recorded Elements.
type MemDecoder struct {
	Elements []codec.Element
	pos      int
}

// NewMemDecoder wraps elts for replay, attaching the deferred-decode
// RawPayload every Value/map-key element needs.
func NewMemDecoder(elts []codec.Element) *MemDecoder {
	out := make([]codec.Element, len(elts))
	copy(out, elts)
	for i, el := range out {
		if el.Payload != nil {
			out[i].Raw = memRaw{v: el.Payload}
		}
	}
	return &MemDecoder{Elements: out}
}

func (d *MemDecoder) DecodeElement() (codec.Element, error) {
	if d.pos >= len(d.Elements) {
		return codec.Element{}, io.EOF
	}
	el := d.Elements[d.pos]
	d.pos++
	return el, nil
}

// Diff runs T's Diff method with a fresh root Context over a MemEncoder
// and returns the recorded elements alongside the changed flag.
func Diff[T any, PT diffable.Diffable[T]](mode diffcmd.FieldMode, self, other *T) ([]codec.Element, bool, error) {
	enc := &MemEncoder{}
	ctx := diffctx.NewContext(enc, mode)
	changed, err := PT(self).Diff(ctx, other)
	return enc.Elements, changed, err
}

// Apply runs T's Apply method with a fresh Cursor over elts.
func Apply[T any, PT diffable.Diffable[T]](dst *T, elts []codec.Element) (bool, error) {
	cur := diffctx.NewCursor(NewMemDecoder(elts))
	return PT(dst).Apply(cur)
}
