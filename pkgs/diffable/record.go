package diffable

import (
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// FieldPath returns the path element a derive-generated record field
// pushes before diffing itself, chosen at runtime by the context's
// configured field-identification mode (spec §6.3). Generated code calls
// this once per field rather than branching on FieldMode inline.
func FieldPath(ctx *diffctx.Context, name string, index uint16) diffcmd.PathElement {
	if ctx.FieldMode() == diffcmd.ByIndex {
		return diffcmd.IndexedField{Index: index}
	}
	return diffcmd.NamedField{Name: name}
}

// FieldMatches reports whether path addresses the field identified by
// name or index, regardless of which FieldMode produced it. Apply-side
// generated code tolerates either wire shape, since the bytes being
// applied may have been produced by an encoder configured differently
// than the decoder reading them.
func FieldMatches(path diffcmd.PathElement, name string, index uint16) bool {
	switch p := path.(type) {
	case diffcmd.NamedField:
		return p.Name == name
	case diffcmd.IndexedField:
		return p.Index == index
	default:
		return false
	}
}
