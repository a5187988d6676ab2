// Package derive defines the struct-tag contract structdiff-gen reads off
// annotated Go source (spec §4.7/§4.8): which fields participate, what
// wire name or index they're addressed by, and which stand-in type a
// field names with target= (recorded, not acted on by the generator).
package derive

import (
	"fmt"
	"strconv"
	"strings"
)

// TagKey is the struct tag key structdiff-gen looks for, e.g.
// `difftag:"name=Count,index=2"`.
const TagKey = "difftag"

// FieldTag is one field's parsed difftag contents.
type FieldTag struct {
	// Name overrides the wire name used when FieldMode is ByName. Empty
	// means "use the Go field name".
	Name string

	// Index is the wire index used when FieldMode is ByIndex. Only valid
	// when HasIndex is true.
	Index    uint16
	HasIndex bool

	// Skip excludes the field from diffing entirely; Apply never writes
	// to it either.
	Skip bool

	// Opaque forces the field to diff via the whole-value leaf rule
	// (spec §4.2) even though its declared type also implements Diffable
	// — useful for a nested record a caller wants replaced wholesale
	// rather than field-by-field.
	Opaque bool

	// Target holds the type name given by a "target=T" modifier (spec
	// §9.3, supplemented from original_source/src/hash.rs's apply_default
	// / from/into adapter pattern). Empty means no modifier. It is parsed
	// and carried on derive.Field only: pkgs/generator does not read it,
	// so a target=-tagged field gets the same generated code as an
	// untagged field of its declared type, with no conversion to T.
	Target string
}

// ParseFieldTag parses one field's difftag value (the tag's content, not
// including the `difftag:"..."` wrapper — callers get that from
// reflect.StructTag.Lookup or an *ast.BasicLit's literal value).
func ParseFieldTag(raw string) (FieldTag, error) {
	var ft FieldTag
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ft, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "skip":
			ft.Skip = true
		case "opaque":
			ft.Opaque = true
		case "name":
			if !hasVal || val == "" {
				return ft, fmt.Errorf("difftag: name= requires a value")
			}
			ft.Name = val
		case "index":
			if !hasVal {
				return ft, fmt.Errorf("difftag: index= requires a value")
			}
			n, err := strconv.ParseUint(val, 10, 16)
			if err != nil {
				return ft, fmt.Errorf("difftag: invalid index %q: %w", val, err)
			}
			ft.Index = uint16(n)
			ft.HasIndex = true
		case "target":
			if !hasVal || val == "" {
				return ft, fmt.Errorf("difftag: target= requires a type name")
			}
			ft.Target = val
		default:
			return ft, fmt.Errorf("difftag: unknown modifier %q", key)
		}
	}
	if ft.Skip && (ft.Opaque || ft.Target != "" || ft.HasIndex || ft.Name != "") {
		return ft, fmt.Errorf("difftag: skip cannot be combined with other modifiers")
	}
	return ft, nil
}
