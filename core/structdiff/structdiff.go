// Package structdiff is the public façade (spec §3.7/§9): Diff and Apply
// are the only entry points most callers need, each parameterized over a
// value type T and its Diffable pointer type exactly as every built-in
// aggregate in pkgs/diffable is.
package structdiff

import (
	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffable"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// Config controls how a Diff/Apply pair identifies struct fields on the
// wire. The zero Config is ByName, matching self-describing formats
// (JSON, CBOR maps) where a field's name is cheap to carry; length-
// prefixed binary formats typically want ByIndex instead.
type Config struct {
	FieldMode diffcmd.FieldMode
}

// DefaultConfig returns the ByName configuration.
func DefaultConfig() Config {
	return Config{FieldMode: diffcmd.ByName}
}

// Diff writes the command stream describing other relative to self into
// enc, running a counting pre-pass first when enc reports it isn't
// self-describing (spec §3.2/§6.2's length-prefixed-format support,
// Component C) — the pre-pass runs the same traversal against a
// CountingEncoder to learn the top-level command count before the real
// encoder commits to a length-prefixed sequence header.
func Diff[T any, PT diffable.Diffable[T]](enc codec.Encoder, cfg Config, self, other *T) (bool, error) {
	if !enc.SelfDescribing() {
		counter := codec.NewCountingEncoder()
		cctx := diffctx.NewContext(counter, cfg.FieldMode)
		if _, err := PT(self).Diff(cctx, other); err != nil {
			return false, err
		}
		if err := enc.BeginSequence(counter.Count()); err != nil {
			return false, err
		}
	} else if err := enc.BeginSequence(-1); err != nil {
		return false, err
	}

	ctx := diffctx.NewContext(enc, cfg.FieldMode)
	changed, err := PT(self).Diff(ctx, other)
	if err != nil {
		return changed, err
	}
	if err := enc.EndSequence(); err != nil {
		return changed, err
	}
	return changed, nil
}

// Apply reads a command stream from dec and mutates dst in place,
// reporting whether any command actually changed it. A stream that
// addresses fields no longer present on T (schema drift) is tolerated:
// those commands are skipped rather than rejected (spec §4.5).
func Apply[T any, PT diffable.Diffable[T]](dec codec.Decoder, dst *T) (bool, error) {
	cur := diffctx.NewCursor(dec)
	return PT(dst).Apply(cur)
}

// ApplyAll applies a sequence of patches to dst in order, stopping at the
// first error. It reports whether any patch in the sequence changed dst.
// This is the batch convenience original_source's test harness used to
// fold a history of patches onto a base value; it isn't part of the
// per-patch protocol, just a loop over Apply.
func ApplyAll[T any, PT diffable.Diffable[T]](dst *T, decoders []codec.Decoder) (bool, error) {
	changed := false
	for _, dec := range decoders {
		c, err := Apply[T, PT](dec, dst)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}
