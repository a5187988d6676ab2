// Package diffcmd defines the wire vocabulary of a diff: the path elements
// that address a changed position inside a value, and the commands that
// carry changes for that position.
package diffcmd

// PathElementKind identifies which concrete PathElement a value holds. The
// numeric order matches the wire contract when a host codec encodes
// PathElement as a positionally-tagged union.
type PathElementKind int

const (
	KindNamedField PathElementKind = iota
	KindIndexedField
	KindVariant
	KindWholeVariantReplacement
	KindSequenceIndex
	KindAppendToSequence
)

// wireNames are the PathElement variant names used when a host codec tags
// unions by string rather than by position.
var wireNames = [...]string{
	KindNamedField:             "Field",
	KindIndexedField:           "FieldIndex",
	KindVariant:                "EnumVariant",
	KindWholeVariantReplacement: "FullEnumVariant",
	KindSequenceIndex:          "CollectionIndex",
	KindAppendToSequence:       "AddToCollection",
}

// WireName returns the string tag for a PathElementKind.
func (k PathElementKind) WireName() string {
	if int(k) < 0 || int(k) >= len(wireNames) {
		return "Unknown"
	}
	return wireNames[k]
}

// FieldMode selects how a record's fields are addressed on the wire: by
// name (readable, stable across field reordering) or by declared index
// (compact, stable across renames). Spec §6.3's configuration surface.
type FieldMode int

const (
	ByName FieldMode = iota
	ByIndex
)

// PathElement is one step downward from a parent value. It is a closed set:
// every implementation lives in this package and carries an unexported
// marker method so no other package can introduce a seventh variant.
type PathElement interface {
	Kind() PathElementKind
	isPathElement()
}

// NamedField addresses a record field by name.
type NamedField struct {
	Name string
}

func (NamedField) Kind() PathElementKind { return KindNamedField }
func (NamedField) isPathElement()        {}

// IndexedField addresses a record field by its declared positional index,
// the compact alternative to NamedField.
type IndexedField struct {
	Index uint16
}

func (IndexedField) Kind() PathElementKind { return KindIndexedField }
func (IndexedField) isPathElement()        {}

// Variant names the active case of a tagged union. Both old and new carry
// the same tag when this element is used; see WholeVariantReplacement for
// the case where they don't.
type Variant struct {
	Name string
}

func (Variant) Kind() PathElementKind { return KindVariant }
func (Variant) isPathElement()        {}

// WholeVariantReplacement signals that the tag itself changed between old
// and new. The Value command that follows carries the entire new value;
// there is no structural recursion into the payload.
type WholeVariantReplacement struct{}

func (WholeVariantReplacement) Kind() PathElementKind { return KindWholeVariantReplacement }
func (WholeVariantReplacement) isPathElement()        {}

// SequenceIndex descends into position Index of an ordered sequence.
type SequenceIndex struct {
	Index int
}

func (SequenceIndex) Kind() PathElementKind { return KindSequenceIndex }
func (SequenceIndex) isPathElement()        {}

// AppendToSequence signals that the Value command which follows is appended
// to the tail of the sequence rather than replacing an existing element.
type AppendToSequence struct{}

func (AppendToSequence) Kind() PathElementKind { return KindAppendToSequence }
func (AppendToSequence) isPathElement()        {}
