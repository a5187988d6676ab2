package generator

import (
	"strings"
	"text/template"
)

// TemplateRegistry holds every named template component structdiff-gen
// renders from, mirroring the component/master split used elsewhere in
// this codebase's code generators: small named fragments composed by one
// master template, rather than one monolithic string.
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry builds a registry with every component registered.
func NewTemplateRegistry() *TemplateRegistry {
	r := &TemplateRegistry{templates: make(map[string]string)}
	r.registerComponents()
	return r
}

func (r *TemplateRegistry) registerComponents() {
	r.templates["header"] = headerTemplate
	r.templates["record"] = recordTemplate
	r.templates["union"] = unionTemplate
}

// GetTemplate returns one named component.
func (r *TemplateRegistry) GetTemplate(name string) (string, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Parse compiles every registered component plus the master template
// into a single *template.Template, the way a real multi-file template
// set is built once and executed many times.
func (r *TemplateRegistry) Parse() (*template.Template, error) {
	var all strings.Builder
	for _, name := range []string{"header", "record", "union"} {
		all.WriteString(r.templates[name])
		all.WriteString("\n")
	}
	all.WriteString(masterTemplate)
	return template.New("structdiff-gen").Parse(all.String())
}

const headerTemplate = `{{define "header"}}// Code generated by structdiff-gen. DO NOT EDIT.

package {{.PackageName}}

import (
	"github.com/structform/diff/pkgs/diffable"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

var _ = diffcmd.ByName
{{end}}`

const recordTemplate = `{{define "record"}}
func (x *{{.Name}}) Diff(ctx *diffctx.Context, other *{{.Name}}) (bool, error) {
	changed := false
	var err error
	var c bool
	_ = c
	_ = err
{{range .Fields}}
	ctx.Push(diffable.FieldPath(ctx, {{printf "%q" .WireName}}, {{.Index}}))
{{if eq .DiffKind "leaf"}}	c, err = diffable.DiffLeaf(ctx, x.{{.GoName}}, other.{{.GoName}})
{{else if eq .DiffKind "time"}}	c, err = diffable.DiffTime(ctx, x.{{.GoName}}, other.{{.GoName}})
{{else if eq .DiffKind "bytes"}}	c, err = diffable.DiffBytes(ctx, x.{{.GoName}}, other.{{.GoName}})
{{else if eq .DiffKind "union"}}	c, err = Diff{{.UnionType}}(ctx, x.{{.GoName}}, other.{{.GoName}})
{{else}}	c, err = (&x.{{.GoName}}).Diff(ctx, &other.{{.GoName}})
{{end}}	if popErr := ctx.Pop(); err == nil {
		err = popErr
	}
	if err != nil {
		return changed, err
	}
	changed = changed || c
{{end}}
	return changed, nil
}

func (x *{{.Name}}) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, err := cur.NextPathElement()
		if err != nil {
			return changed, err
		}
		if el == nil {
			return changed, nil
		}
		var c bool
		switch {
{{range .Fields}}		case diffable.FieldMatches(el, {{printf "%q" .WireName}}, {{.Index}}):
{{if eq .DiffKind "leaf"}}			c, err = diffable.ApplyLeaf(cur, &x.{{.GoName}})
{{else if eq .DiffKind "time"}}			c, err = diffable.ApplyTime(cur, &x.{{.GoName}})
{{else if eq .DiffKind "bytes"}}			c, err = diffable.ApplyBytes(cur, &x.{{.GoName}})
{{else if eq .DiffKind "union"}}			c, err = Apply{{.UnionType}}(cur, &x.{{.GoName}})
{{else}}			c, err = (&x.{{.GoName}}).Apply(cur)
{{end}}
{{end}}		default:
			err = cur.SkipCurrentSubtree()
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
}
{{end}}`

const unionTemplate = `{{define "union"}}
func Diff{{.Interface}}(ctx *diffctx.Context, old, new {{.Interface}}) (bool, error) {
	oldVariant, newVariant := variantName{{.Interface}}(old), variantName{{.Interface}}(new)
	return diffable.UnionDiff(ctx, oldVariant, newVariant, func(ctx *diffctx.Context) (bool, error) {
		switch oldVariant {
{{range .Variants}}		case {{printf "%q" .Name}}:
			return old.(*{{.Name}}).Diff(ctx, new.(*{{.Name}}))
{{end}}		default:
			return false, nil
		}
	}, new)
}

func Apply{{.Interface}}(cur *diffctx.Cursor, dst *{{.Interface}}) (bool, error) {
	return diffable.UnionApply(cur,
		func(cur *diffctx.Cursor, variant string) (bool, error) {
			switch variant {
{{range .Variants}}			case {{printf "%q" .Name}}:
				v, ok := (*dst).(*{{.Name}})
				if !ok {
					return false, cur.SkipCurrentSubtree()
				}
				return v.Apply(cur)
{{end}}			default:
				return false, cur.SkipCurrentSubtree()
			}
		},
		func(cur *diffctx.Cursor) (bool, error) {
			// Decoding a whole replacement value into an interface field
			// is the host codec's job (it alone knows how to recover a
			// concrete type from the wire) — delegate straight to it.
			return cur.ReadValueInto(dst)
		},
	)
}

func variantName{{.Interface}}(v {{.Interface}}) string {
	switch v.(type) {
{{range .Variants}}	case *{{.Name}}:
		return {{printf "%q" .Name}}
{{end}}	default:
		return ""
	}
}
{{end}}`

const masterTemplate = `{{template "header" .}}
{{range .Records}}{{template "record" .}}{{end}}
{{range .Unions}}{{template "union" .}}{{end}}
`
