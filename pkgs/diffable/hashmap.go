package diffable

import (
	"bytes"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

// HashedMap is the built-in keyed-map aggregate for maps with no natural
// total order (spec §4.6.6), grounded on Rust's map_serde_diff! macro
// instantiated for HashMap<K, V>. Go's native map has no iteration order
// at all, so rather than invent one, HashedMap orders keys per Diff call
// by the xxhash digest of each key's encoded bytes (ties broken by the
// bytes themselves) — deterministic for the lifetime of one process, not
// a durable cross-version ordering, exactly what the spec requires.
//
// keyBytes must produce a stable encoding of a key (e.g. the host codec's
// own key serialization); it's supplied by the caller because Go generics
// offers no way to serialize an arbitrary comparable type without one.
type HashedMap[K comparable, V any, PV Diffable[V]] struct {
	m        map[K]V
	keyBytes func(K) []byte
}

// NewHashedMap wraps an existing Go map for diffing.
func NewHashedMap[K comparable, V any, PV Diffable[V]](m map[K]V, keyBytes func(K) []byte) *HashedMap[K, V, PV] {
	if m == nil {
		m = make(map[K]V)
	}
	return &HashedMap[K, V, PV]{m: m, keyBytes: keyBytes}
}

// Map returns the underlying map for direct reads by callers.
func (m *HashedMap[K, V, PV]) Map() map[K]V { return m.m }

func (m *HashedMap[K, V, PV]) sortedKeys() []K {
	keys := make([]K, 0, len(m.m))
	for k := range m.m {
		keys = append(keys, k)
	}
	digests := make(map[K]uint64, len(keys))
	encoded := make(map[K][]byte, len(keys))
	for _, k := range keys {
		b := m.keyBytes(k)
		encoded[k] = b
		digests[k] = xxhash.Sum64(b)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := digests[keys[i]], digests[keys[j]]
		if di != dj {
			return di < dj
		}
		return bytes.Compare(encoded[keys[i]], encoded[keys[j]]) < 0
	})
	return keys
}

func (m HashedMap[K, V, PV]) Diff(ctx *diffctx.Context, other *HashedMap[K, V, PV]) (bool, error) {
	changed := false
	for _, k := range m.sortedKeys() {
		key := k
		nv, ok := other.m[k]
		if !ok {
			if err := ctx.SaveCommand(codec.Element{Kind: diffcmd.KindRemoveMapKey, Payload: key}, true, true); err != nil {
				return changed, err
			}
			changed = true
			continue
		}
		ov := m.m[k]
		ctx.PushKeyThunk(func(enc codec.Encoder) error {
			return enc.EncodeElement(codec.Element{Kind: diffcmd.KindEnterMapKey, Payload: key})
		})
		c, err := PV(&ov).Diff(ctx, &nv)
		if popErr := ctx.Pop(); err == nil {
			err = popErr
		}
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	for _, k := range other.sortedKeys() {
		if _, ok := m.m[k]; ok {
			continue
		}
		key := k
		nv := other.m[k]
		ctx.PushKeyThunk(func(enc codec.Encoder) error {
			return enc.EncodeElement(codec.Element{Kind: diffcmd.KindAddMapKey, Payload: key})
		})
		if err := ctx.SaveValue(nv); err != nil {
			ctx.Pop()
			return changed, err
		}
		if err := ctx.Pop(); err != nil {
			return changed, err
		}
		changed = true
	}
	if changed {
		// close the map's level explicitly: RemoveMapKey does not count as
		// a close when a skipping reader walks this subtree.
		if err := ctx.SaveCommand(codec.Element{Kind: diffcmd.KindExit}, true, false); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func (m *HashedMap[K, V, PV]) Apply(cur *diffctx.Cursor) (bool, error) {
	changed := false
	for {
		el, ok, err := cur.ReadNextCommand()
		if err != nil {
			return changed, err
		}
		if !ok {
			return changed, nil
		}
		switch el.Kind {
		case diffcmd.KindExit:
			return changed, nil
		case diffcmd.KindEnterMapKey:
			var key K
			if err := el.Raw.Decode(&key); err != nil {
				return changed, err
			}
			val, exists := m.m[key]
			if !exists {
				if err := cur.SkipCurrentSubtree(); err != nil {
					return changed, err
				}
				continue
			}
			c, err := PV(&val).Apply(cur)
			if err != nil {
				return changed, err
			}
			if c {
				m.m[key] = val
				changed = true
			}
		case diffcmd.KindAddMapKey:
			var key K
			if err := el.Raw.Decode(&key); err != nil {
				return changed, err
			}
			var val V
			read, err := cur.ReadValueInto(&val)
			if err != nil {
				return changed, err
			}
			if read {
				m.m[key] = val
				changed = true
			}
		case diffcmd.KindRemoveMapKey:
			var key K
			if err := el.Raw.Decode(&key); err != nil {
				return changed, err
			}
			if _, exists := m.m[key]; exists {
				delete(m.m, key)
				changed = true
			}
		case diffcmd.KindEnter:
			// a schema-drifted peer record field where this build has a
			// map; the Enter already opened a level, so it must be
			// skipped as a subtree rather than left for the next loop
			// iteration to misread as a map command.
			if err := cur.SkipCurrentSubtree(); err != nil {
				return changed, err
			}
		default:
			// tolerate anything this build of the map doesn't recognize.
		}
	}
}
