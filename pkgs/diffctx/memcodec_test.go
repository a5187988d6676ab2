package diffctx_test

import (
	"io"
	"reflect"

	"github.com/structform/diff/pkgs/codec"
)

// memEncoder/memDecoder are an in-memory codec.Encoder/Decoder pair used
// only by this package's own tests, so context/cursor behavior can be
// asserted directly against a slice of codec.Element without pulling in
// a real wire format (internal/codectest holds the real CBOR and
// FlatBuffers adapters, exercised by that package's own tests).
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
	pv := reflect.ValueOf(r.v)
	rv.Set(pv.Convert(rv.Type()))
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
