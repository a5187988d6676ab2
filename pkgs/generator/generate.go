// Package generator renders Go source implementing the Diffable contract
// for derive-annotated types (spec §4.7/§4.8/§6), the way
// pkgs/generator's TemplateRegistry in the teacher codebase renders Go
// source from a parsed command file: discover a package's derive intent
// with go/ast and go/types, shape it into template-ready data, execute a
// registered template set, then gofmt the result.
package generator

import (
	"bytes"
	"fmt"
	"go/format"
)

// TemplateField is one record field's codegen-ready shape.
type TemplateField struct {
	GoName    string
	WireName  string
	Index     uint16
	DiffKind  string // "leaf", "time", "bytes", "union", or "" (nested Diffable)
	UnionType string // set when DiffKind == "union": the union's interface name
}

// TemplateRecord is one record's codegen-ready shape.
type TemplateRecord struct {
	Name   string
	Fields []TemplateField
}

// TemplateUnion is one union's codegen-ready shape.
type TemplateUnion struct {
	Interface string
	Variants  []struct{ Name string }
}

// TemplateData is the root data handed to the master template.
type TemplateData struct {
	PackageName string
	Records     []TemplateRecord
	Unions      []TemplateUnion
}

var builtinLeafTypes = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "float32": true, "float64": true,
	"time.Duration": true, "netip.Addr": true, "netip.AddrPort": true,
	"diffable.Path": true,
}

func diffKindFor(goType string) string {
	switch {
	case goType == "time.Time":
		return "time"
	case goType == "[]byte":
		return "bytes"
	case builtinLeafTypes[goType]:
		return "leaf"
	default:
		return ""
	}
}

// Generate discovers dir's derive contract and renders the Go source
// implementing it, one file's worth for the whole package.
func Generate(dir string) ([]byte, error) {
	disc, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	if len(disc.Records) == 0 && len(disc.Unions) == 0 {
		return nil, fmt.Errorf("structdiff-gen: no difftag-annotated types found in %s", dir)
	}

	unionInterfaces := make(map[string]bool, len(disc.Unions))
	for _, u := range disc.Unions {
		unionInterfaces[u.Interface] = true
	}

	data := TemplateData{PackageName: disc.PackageName}
	for _, rec := range disc.Records {
		tr := TemplateRecord{Name: rec.Name}
		for i, f := range rec.Fields {
			idx := f.Tag.Index
			if !f.Tag.HasIndex {
				idx = uint16(i)
			}
			kind := diffKindFor(f.GoType)
			unionType := ""
			if f.Tag.Opaque {
				kind = "leaf"
			} else if unionInterfaces[f.GoType] {
				// A field whose declared type is a structdiff:union
				// interface can't satisfy Diffable directly — the
				// interface itself has no Diff/Apply methods. Route it
				// through the union's generated DiffXxx/ApplyXxx free
				// functions instead (spec §4.8).
				kind = "union"
				unionType = f.GoType
			}
			wireName := f.GoName
			if f.Tag.Name != "" {
				wireName = f.Tag.Name
			}
			tr.Fields = append(tr.Fields, TemplateField{
				GoName:    f.GoName,
				WireName:  wireName,
				Index:     idx,
				DiffKind:  kind,
				UnionType: unionType,
			})
		}
		data.Records = append(data.Records, tr)
	}
	for _, u := range disc.Unions {
		tu := TemplateUnion{Interface: u.Interface}
		for _, v := range u.Variants {
			tu.Variants = append(tu.Variants, struct{ Name string }{Name: v.Name})
		}
		data.Unions = append(data.Unions, tu)
	}

	registry := NewTemplateRegistry()
	tmpl, err := registry.Parse()
	if err != nil {
		return nil, fmt.Errorf("structdiff-gen: parsing templates: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "structdiff-gen", data); err != nil {
		return nil, fmt.Errorf("structdiff-gen: rendering %s: %w", dir, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("structdiff-gen: gofmt: %w", err)
	}
	return formatted, nil
}
