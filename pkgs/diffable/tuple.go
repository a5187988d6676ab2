package diffable

import (
	"strconv"

	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// Tuple2/Tuple3/Tuple4 are the built-in tuple aggregates (spec §4.6.5),
// grounded on Rust's tuple_impls! macro (which generates impls for
// arities 1-16). Go has no tuple type and no variadic generics, so these
// are hand-written structs bounded to the arities actually needed by
// derive-generated code; a type needing a wider tuple defines its own
// struct and lets derive treat it as a record instead.
//
// Each slot is addressed by its decimal position as a NamedField, per the
// spec's explicit note that tuple positions share the named-field wire
// encoding rather than getting a dedicated path element kind.
type Tuple2[A any, PA Diffable[A], B any, PB Diffable[B]] struct {
	F0 A
	F1 B
}

func (t Tuple2[A, PA, B, PB]) Diff(ctx *diffctx.Context, other *Tuple2[A, PA, B, PB]) (bool, error) {
	changed := false
	funcs := []func() (bool, error){
		func() (bool, error) { return PA(&t.F0).Diff(ctx, &other.F0) },
		func() (bool, error) { return PB(&t.F1).Diff(ctx, &other.F1) },
	}
	for i, f := range funcs {
		ctx.Push(diffcmd.NamedField{Name: strconv.Itoa(i)})
		c, err := f()
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

func (t *Tuple2[A, PA, B, PB]) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, err := cur.NextPathElement()
		if err != nil {
			return changed, err
		}
		if el == nil {
			return changed, nil
		}
		nf, ok := el.(diffcmd.NamedField)
		if !ok {
			if err := cur.SkipCurrentSubtree(); err != nil {
				return changed, err
			}
			continue
		}
		var c bool
		switch nf.Name {
		case "0":
			c, err = PA(&t.F0).Apply(cur)
		case "1":
			c, err = PB(&t.F1).Apply(cur)
		default:
			err = cur.SkipCurrentSubtree()
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
}

// Tuple3 is Tuple2 extended to three slots.
type Tuple3[A any, PA Diffable[A], B any, PB Diffable[B], C any, PC Diffable[C]] struct {
	F0 A
	F1 B
	F2 C
}

func (t Tuple3[A, PA, B, PB, C, PC]) Diff(ctx *diffctx.Context, other *Tuple3[A, PA, B, PB, C, PC]) (bool, error) {
	changed := false
	funcs := []func() (bool, error){
		func() (bool, error) { return PA(&t.F0).Diff(ctx, &other.F0) },
		func() (bool, error) { return PB(&t.F1).Diff(ctx, &other.F1) },
		func() (bool, error) { return PC(&t.F2).Diff(ctx, &other.F2) },
	}
	for i, f := range funcs {
		ctx.Push(diffcmd.NamedField{Name: strconv.Itoa(i)})
		c, err := f()
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

func (t *Tuple3[A, PA, B, PB, C, PC]) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, err := cur.NextPathElement()
		if err != nil {
			return changed, err
		}
		if el == nil {
			return changed, nil
		}
		nf, ok := el.(diffcmd.NamedField)
		if !ok {
			if err := cur.SkipCurrentSubtree(); err != nil {
				return changed, err
			}
			continue
		}
		var c bool
		switch nf.Name {
		case "0":
			c, err = PA(&t.F0).Apply(cur)
		case "1":
			c, err = PB(&t.F1).Apply(cur)
		case "2":
			c, err = PC(&t.F2).Apply(cur)
		default:
			err = cur.SkipCurrentSubtree()
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
}

// Tuple4 is Tuple2 extended to four slots.
type Tuple4[A any, PA Diffable[A], B any, PB Diffable[B], C any, PC Diffable[C], D any, PD Diffable[D]] struct {
	F0 A
	F1 B
	F2 C
	F3 D
}

func (t Tuple4[A, PA, B, PB, C, PC, D, PD]) Diff(ctx *diffctx.Context, other *Tuple4[A, PA, B, PB, C, PC, D, PD]) (bool, error) {
	changed := false
	funcs := []func() (bool, error){
		func() (bool, error) { return PA(&t.F0).Diff(ctx, &other.F0) },
		func() (bool, error) { return PB(&t.F1).Diff(ctx, &other.F1) },
		func() (bool, error) { return PC(&t.F2).Diff(ctx, &other.F2) },
		func() (bool, error) { return PD(&t.F3).Diff(ctx, &other.F3) },
	}
	for i, f := range funcs {
		ctx.Push(diffcmd.NamedField{Name: strconv.Itoa(i)})
		c, err := f()
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

func (t *Tuple4[A, PA, B, PB, C, PC, D, PD]) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, err := cur.NextPathElement()
		if err != nil {
			return changed, err
		}
		if el == nil {
			return changed, nil
		}
		nf, ok := el.(diffcmd.NamedField)
		if !ok {
			if err := cur.SkipCurrentSubtree(); err != nil {
				return changed, err
			}
			continue
		}
		var c bool
		switch nf.Name {
		case "0":
			c, err = PA(&t.F0).Apply(cur)
		case "1":
			c, err = PB(&t.F1).Apply(cur)
		case "2":
			c, err = PC(&t.F2).Apply(cur)
		case "3":
			c, err = PD(&t.F3).Apply(cur)
		default:
			err = cur.SkipCurrentSubtree()
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
}
