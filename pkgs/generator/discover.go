package generator

import (
	"fmt"
	"go/ast"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/tools/go/packages"

	"github.com/structform/diff/pkgs/derive"
)

// unionMarker is the doc-comment directive that promotes an interface
// type to a derive-generated tagged union (spec §4.8). Its variants are
// every named struct type in the same package that implements the
// interface.
const unionMarker = "structdiff:union"

// Discovered holds everything found in one package: every derive-
// annotated struct (by difftag field tags) and every directive-marked
// union interface together with its implementing variants.
type Discovered struct {
	PackageName string
	Records     []derive.Record
	Unions      []derive.Union
}

// Discover loads the Go package at dir and extracts its derive contract:
// struct types with at least one difftag-tagged field become Records;
// interface types carrying the unionMarker doc comment become Unions,
// paired with every struct in the package that implements them.
func Discover(dir string) (*Discovered, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax | packages.NeedDeps,
		Dir: dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("structdiff-gen: loading %s: %w", dir, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("structdiff-gen: package %s has errors", dir)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("structdiff-gen: expected exactly one package in %s, found %d", dir, len(pkgs))
	}
	pkg := pkgs[0]

	d := &Discovered{PackageName: pkg.Name}

	unionIfaces := map[string]*types.Interface{}
	unionOrder := []string{}

	// Field-tag mistakes are collected across the whole package rather than
	// aborting at the first one, so a single structdiff-gen run reports
	// every broken difftag at once instead of making the caller fix-and-
	// rerun one field at a time.
	var tagErrs *multierror.Error

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok.String() != "type" {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				switch t := ts.Type.(type) {
				case *ast.StructType:
					rec, err := recordFromStruct(ts.Name.Name, t)
					if err != nil {
						tagErrs = multierror.Append(tagErrs, fmt.Errorf("structdiff-gen: %s: %w", ts.Name.Name, err))
						continue
					}
					if rec != nil {
						d.Records = append(d.Records, *rec)
					}
				case *ast.InterfaceType:
					if !hasUnionMarker(gd.Doc) && !hasUnionMarker(ts.Doc) {
						continue
					}
					obj := pkg.Types.Scope().Lookup(ts.Name.Name)
					if obj == nil {
						continue
					}
					iface, ok := obj.Type().Underlying().(*types.Interface)
					if !ok {
						continue
					}
					unionIfaces[ts.Name.Name] = iface
					unionOrder = append(unionOrder, ts.Name.Name)
				}
			}
		}
	}

	for _, name := range unionOrder {
		iface := unionIfaces[name]
		variants := findVariants(pkg.Types.Scope(), iface)
		u := derive.Union{Interface: name}
		for _, vname := range variants {
			var rec derive.Record
			for _, r := range d.Records {
				if r.Name == vname {
					rec = r
					break
				}
			}
			u.Variants = append(u.Variants, derive.Variant{Name: vname, Record: rec})
		}
		d.Unions = append(d.Unions, u)
	}

	if tagErrs.ErrorOrNil() != nil {
		return nil, tagErrs
	}
	return d, nil
}

func hasUnionMarker(g *ast.CommentGroup) bool {
	if g == nil {
		return false
	}
	return strings.Contains(g.Text(), unionMarker)
}

// findVariants returns every named struct type in scope whose pointer
// type implements iface, sorted for deterministic wire discriminant
// order (spec §4.8 — declaration order matters, and a stable fallback
// order matters just as much when discovery can't observe declaration
// order directly).
func findVariants(scope *types.Scope, iface *types.Interface) []string {
	var names []string
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		tn, ok := obj.(*types.TypeName)
		if !ok {
			continue
		}
		if _, ok := tn.Type().Underlying().(*types.Struct); !ok {
			continue
		}
		ptr := types.NewPointer(tn.Type())
		if types.Implements(ptr, iface) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func recordFromStruct(name string, st *ast.StructType) (*derive.Record, error) {
	if st.Fields == nil {
		return nil, nil
	}
	rec := &derive.Record{Name: name}
	found := false
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			continue // embedded fields aren't derive targets
		}
		tagLit := ""
		if field.Tag != nil {
			tagLit = strings.Trim(field.Tag.Value, "`")
		}
		tag := reflect.StructTag(tagLit)
		raw, has := tag.Lookup(derive.TagKey)
		if !has {
			continue
		}
		found = true
		ft, err := derive.ParseFieldTag(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Names[0].Name, err)
		}
		if ft.Skip {
			continue
		}
		goType := exprString(field.Type)
		for _, id := range field.Names {
			rec.Fields = append(rec.Fields, derive.Field{
				GoName: id.Name,
				GoType: goType,
				Tag:    ft,
			})
		}
	}
	if !found {
		return nil, nil
	}
	return rec, nil
}

// exprString renders a field's type expression back to source text. This
// intentionally only handles the syntactic shapes derive-tagged fields
// actually use (named types, pointers, slices, maps, selector
// expressions); anything more exotic is a sign the field should be
// tagged opaque instead.
func exprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return "*" + exprString(e.X)
	case *ast.ArrayType:
		if e.Len == nil {
			return "[]" + exprString(e.Elt)
		}
		return "[" + exprString(e.Len) + "]" + exprString(e.Elt)
	case *ast.MapType:
		return "map[" + exprString(e.Key) + "]" + exprString(e.Value)
	case *ast.SelectorExpr:
		return exprString(e.X) + "." + e.Sel.Name
	case *ast.BasicLit:
		return e.Value
	default:
		return fmt.Sprintf("%T", expr)
	}
}
