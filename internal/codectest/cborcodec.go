// Package codectest ships two host codec adapters used only by this
// module's own cross-codec tests (spec §4.10): cborcodec, a self-
// describing adapter built on fxamacker/cbor/v2, and fbcodec, a length-
// prefixed adapter built on dolthub/flatbuffers/v23. Concrete host
// encoders/decoders are explicitly out of the library's scope (spec
// Non-goals) — these exist solely to exercise pkgs/codec's contract
// end-to-end, the way a library's own test suite always needs at least
// one real implementation of the interface it defines.
package codectest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
)

// cborWireElement is the on-the-wire shape of one codec.Element under
// the CBOR adapter: Kind and PathKind are always present; the rest are
// included only when the corresponding Element field is meaningful,
// mirroring the sparse "only what's carried" wire layout spec §6.1
// expects of a self-describing format.
type cborWireElement struct {
	Kind        diffcmd.CommandKind
	HasPath     bool
	PathKind    diffcmd.PathElementKind
	PathPayload cbor.RawMessage `cbor:",omitempty"`
	N           int             `cbor:",omitempty"`
	HasPayload  bool
	Payload     cbor.RawMessage `cbor:",omitempty"`
}

// CBOREncoder buffers every element of one sequence, then marshals them
// as a single CBOR array on EndSequence — CBOR's own array framing gives
// the format a length automatically, so SelfDescribing is true and
// BeginSequence's knownLen is ignored.
type CBOREncoder struct {
	w    io.Writer
	elts []cborWireElement
}

// NewCBOREncoder wraps w.
func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) SelfDescribing() bool { return true }

func (e *CBOREncoder) BeginSequence(knownLen int) error {
	e.elts = e.elts[:0]
	return nil
}

func (e *CBOREncoder) EncodeElement(el codec.Element) error {
	we := cborWireElement{Kind: el.Kind, N: el.N}
	if el.Path != nil {
		we.HasPath = true
		we.PathKind = el.Path.Kind()
		raw, err := marshalPath(el.Path)
		if err != nil {
			return err
		}
		we.PathPayload = raw
	}
	if el.Payload != nil {
		we.HasPayload = true
		raw, err := cbor.Marshal(el.Payload)
		if err != nil {
			return fmt.Errorf("codectest/cbor: marshaling payload: %w", err)
		}
		we.Payload = raw
	}
	e.elts = append(e.elts, we)
	return nil
}

func (e *CBOREncoder) EndSequence() error {
	b, err := cbor.Marshal(e.elts)
	if err != nil {
		return fmt.Errorf("codectest/cbor: marshaling sequence: %w", err)
	}
	_, err = e.w.Write(b)
	return err
}

func marshalPath(p diffcmd.PathElement) (cbor.RawMessage, error) {
	var v any
	switch pe := p.(type) {
	case diffcmd.NamedField:
		v = pe.Name
	case diffcmd.IndexedField:
		v = pe.Index
	case diffcmd.Variant:
		v = pe.Name
	case diffcmd.WholeVariantReplacement:
		v = nil
	case diffcmd.SequenceIndex:
		v = pe.Index
	case diffcmd.AppendToSequence:
		v = nil
	default:
		return nil, fmt.Errorf("codectest/cbor: unknown path element %T", p)
	}
	return cbor.Marshal(v)
}

func unmarshalPath(kind diffcmd.PathElementKind, raw cbor.RawMessage) (diffcmd.PathElement, error) {
	switch kind {
	case diffcmd.KindNamedField:
		var s string
		if err := cbor.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return diffcmd.NamedField{Name: s}, nil
	case diffcmd.KindIndexedField:
		var n uint16
		if err := cbor.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return diffcmd.IndexedField{Index: n}, nil
	case diffcmd.KindVariant:
		var s string
		if err := cbor.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return diffcmd.Variant{Name: s}, nil
	case diffcmd.KindWholeVariantReplacement:
		return diffcmd.WholeVariantReplacement{}, nil
	case diffcmd.KindSequenceIndex:
		var n int
		if err := cbor.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return diffcmd.SequenceIndex{Index: n}, nil
	case diffcmd.KindAppendToSequence:
		return diffcmd.AppendToSequence{}, nil
	default:
		return nil, fmt.Errorf("codectest/cbor: unknown path kind %d", kind)
	}
}

// rawPayload is the RawMessage-backed codec.RawPayload implementation
// shared by both adapters in this package.
type rawPayload struct {
	raw []byte
}

func (p rawPayload) Decode(dst any) error {
	if len(p.raw) == 0 {
		return nil
	}
	return cbor.Unmarshal(p.raw, dst)
}

func (p rawPayload) Skip() error { return nil }

// CBORDecoder reads a sequence previously written by CBOREncoder.
type CBORDecoder struct {
	elts []cborWireElement
	pos  int
}

// NewCBORDecoder reads all of r eagerly and unmarshals the CBOR array of
// elements it contains.
func NewCBORDecoder(r io.Reader) (*CBORDecoder, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var elts []cborWireElement
	if len(bytes.TrimSpace(b)) > 0 {
		if err := cbor.Unmarshal(b, &elts); err != nil {
			return nil, fmt.Errorf("codectest/cbor: unmarshaling sequence: %w", err)
		}
	}
	return &CBORDecoder{elts: elts}, nil
}

func (d *CBORDecoder) DecodeElement() (codec.Element, error) {
	if d.pos >= len(d.elts) {
		return codec.Element{}, io.EOF
	}
	we := d.elts[d.pos]
	d.pos++

	el := codec.Element{Kind: we.Kind, N: we.N}
	if we.HasPath {
		p, err := unmarshalPath(we.PathKind, we.PathPayload)
		if err != nil {
			return codec.Element{}, err
		}
		el.Path = p
	}
	if we.HasPayload {
		el.Raw = rawPayload{raw: we.Payload}
	}
	return el, nil
}
