package codectest

import (
	"fmt"
	"io"

	flatbuffers "github.com/dolthub/flatbuffers/v23/go"
	"github.com/fxamacker/cbor/v2"

	"github.com/structform/diff/pkgs/codec"
)

// FlatBuffers has no schema-compiler step here — there's no .fbs file to
// generate accessors from, just one table with a single field: a vector
// of byte blobs, each blob a CBOR-encoded cborWireElement (the same wire
// shape CBOREncoder uses, reused rather than inventing a second one).
// What FlatBuffers actually contributes is the length-prefixed framing
// itself: StartVector requires the element count up front, which is
// exactly why a length-prefixed Encoder needs Component C's counting
// pre-pass before it can call BeginSequence.
const elementVectorVTableOffset flatbuffers.VOffsetT = 4

// FBEncoder is the length-prefixed adapter (spec §4.10): SelfDescribing
// reports false, so structdiff.Diff always runs the counting pre-pass
// and calls BeginSequence with a real count before any element is
// buffered.
type FBEncoder struct {
	w       io.Writer
	payload [][]byte
	n       int
}

// NewFBEncoder wraps w.
func NewFBEncoder(w io.Writer) *FBEncoder {
	return &FBEncoder{w: w}
}

func (e *FBEncoder) SelfDescribing() bool { return false }

func (e *FBEncoder) BeginSequence(knownLen int) error {
	if knownLen < 0 {
		return fmt.Errorf("codectest/fb: BeginSequence requires a known length")
	}
	e.payload = make([][]byte, 0, knownLen)
	e.n = knownLen
	return nil
}

func (e *FBEncoder) EncodeElement(el codec.Element) error {
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
			return fmt.Errorf("codectest/fb: marshaling payload: %w", err)
		}
		we.Payload = raw
	}
	b, err := cbor.Marshal(we)
	if err != nil {
		return fmt.Errorf("codectest/fb: marshaling element: %w", err)
	}
	e.payload = append(e.payload, b)
	return nil
}

func (e *FBEncoder) EndSequence() error {
	if len(e.payload) != e.n {
		return fmt.Errorf("codectest/fb: counting pre-pass predicted %d elements, got %d", e.n, len(e.payload))
	}
	b := flatbuffers.NewBuilder(1024)

	offs := make([]flatbuffers.UOffsetT, len(e.payload))
	for i := range e.payload {
		offs[i] = b.CreateByteVector(e.payload[i])
	}

	b.StartVector(4, len(offs), 4)
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}
	vec := b.EndVector(len(offs))

	b.StartObject(1)
	b.PrependUOffsetTSlot(0, vec, 0)
	root := b.EndObject()
	b.Finish(root)

	_, err := e.w.Write(b.FinishedBytes())
	return err
}

// FBDecoder reads a sequence previously written by FBEncoder.
type FBDecoder struct {
	elems [][]byte
	pos   int
}

// NewFBDecoder reads all of r eagerly and walks the FlatBuffers table's
// one vector field.
func NewFBDecoder(r io.Reader) (*FBDecoder, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return &FBDecoder{}, nil
	}

	root := flatbuffers.GetUOffsetT(buf)
	tbl := &flatbuffers.Table{Bytes: buf, Pos: root}

	o := tbl.Offset(elementVectorVTableOffset)
	if o == 0 {
		return &FBDecoder{}, nil
	}
	vecStart := tbl.Vector(o)
	length := tbl.VectorLen(o)

	elems := make([][]byte, length)
	for i := 0; i < length; i++ {
		elemPos := vecStart + flatbuffers.UOffsetT(i)*4
		elems[i] = tbl.ByteVector(elemPos)
	}
	return &FBDecoder{elems: elems}, nil
}

func (d *FBDecoder) DecodeElement() (codec.Element, error) {
	if d.pos >= len(d.elems) {
		return codec.Element{}, io.EOF
	}
	raw := d.elems[d.pos]
	d.pos++

	var we cborWireElement
	if err := cbor.Unmarshal(raw, &we); err != nil {
		return codec.Element{}, fmt.Errorf("codectest/fb: unmarshaling element: %w", err)
	}

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
