// Package codec defines the contract a host structured-data format must
// satisfy to carry a diff: begin/end a sequence of elements, serialize one
// element, and read one back. Concrete formats (JSON, CBOR, a length-
// prefixed binary layout) are external collaborators that implement this
// contract; this package never imports one.
package codec

import "github.com/structform/diff/pkgs/diffcmd"

// Element is one slot of the diff stream as handed to an Encoder, or as
// read back from a Decoder.
//
//   - Kind == KindEnter: Path is the step being entered; N and Raw are unused.
//   - Kind == KindRemoveTail: N is the tail-remove count.
//   - Kind == KindExit: no payload.
//   - otherwise (Value, AddMapKey, EnterMapKey, RemoveMapKey): the element
//     carries a dynamically typed value or map key. On encode, Payload
//     holds the concrete Go value to serialize. On decode, Raw defers
//     decoding until the caller supplies a destination of the right type,
//     because the decoder has no way to know K or T on its own.
type Element struct {
	Kind    diffcmd.CommandKind
	Path    diffcmd.PathElement
	N       int
	Payload any
	Raw     RawPayload
}

// RawPayload is a deferred-decode handle for a Value or map-key payload.
// This mirrors json.RawMessage / cbor.RawMessage: the codec has already
// located and framed the bytes, but decoding into a concrete type is left
// to the caller, who alone knows what that type is.
type RawPayload interface {
	// Decode finishes decoding this payload into dst, which must be a
	// pointer.
	Decode(dst any) error
	// Skip discards this payload without decoding it, advancing whatever
	// cursor the underlying format needs advanced.
	Skip() error
}

// Encoder is the host format's sequence sink (spec §6.1, §4.1).
type Encoder interface {
	// BeginSequence starts a sequence. knownLen is the number of elements
	// that will be written; pass -1 when the count isn't known yet. A
	// length-prefixed format (SelfDescribing() == false) requires a real
	// count — see CountingEncoder.
	BeginSequence(knownLen int) error
	// EncodeElement writes one stream element.
	EncodeElement(el Element) error
	// EndSequence closes the sequence.
	EndSequence() error
	// SelfDescribing reports whether BeginSequence may be called with -1.
	SelfDescribing() bool
}

// Decoder is the host format's sequence source, symmetric to Encoder.
type Decoder interface {
	// DecodeElement reads the next stream element. Returns io.EOF (or an
	// equivalent sentinel recognized by errors.Is) once the sequence is
	// exhausted.
	DecodeElement() (Element, error)
}
