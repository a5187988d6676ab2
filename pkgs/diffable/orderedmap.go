package diffable

import (
	"github.com/google/btree"

	"github.com/structform/diff/pkgs/codec"
	"github.com/structform/diff/pkgs/diffcmd"
	"github.com/structform/diff/pkgs/diffctx"
)

type mapEntry[K any, V any] struct {
	Key K
	Val V
}

// OrderedMap is the built-in keyed-map aggregate for maps with a natural
// total order (spec §4.6.6), grounded on Rust's map_serde_diff! macro
// instantiated for BTreeMap<K, V>. Keys are kept in a google/btree.BTreeG
// ordered by a caller-supplied Less, so — unlike HashedMap — both sides
// of a diff are already walked in the same deterministic order and a
// single merge pass finds additions, removals, and shared keys.
type OrderedMap[K any, V any, PV Diffable[V]] struct {
	tree *btree.BTreeG[mapEntry[K, V]]
	less func(a, b K) bool
}

// NewOrderedMap constructs an empty OrderedMap ordered by less.
func NewOrderedMap[K any, V any, PV Diffable[V]](less func(a, b K) bool) *OrderedMap[K, V, PV] {
	lessEntry := func(a, b mapEntry[K, V]) bool { return less(a.Key, b.Key) }
	return &OrderedMap[K, V, PV]{tree: btree.NewG(32, lessEntry), less: less}
}

// Set inserts or overwrites the value at key.
func (m *OrderedMap[K, V, PV]) Set(key K, val V) {
	m.tree.ReplaceOrInsert(mapEntry[K, V]{Key: key, Val: val})
}

// Get returns the value at key, if present.
func (m *OrderedMap[K, V, PV]) Get(key K) (V, bool) {
	e, ok := m.tree.Get(mapEntry[K, V]{Key: key})
	return e.Val, ok
}

// Delete removes key, reporting whether it was present.
func (m *OrderedMap[K, V, PV]) Delete(key K) bool {
	_, ok := m.tree.Delete(mapEntry[K, V]{Key: key})
	return ok
}

// Len reports the number of entries.
func (m *OrderedMap[K, V, PV]) Len() int { return m.tree.Len() }

func (m *OrderedMap[K, V, PV]) keys() []K {
	keys := make([]K, 0, m.tree.Len())
	m.tree.Ascend(func(e mapEntry[K, V]) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

func (m OrderedMap[K, V, PV]) Diff(ctx *diffctx.Context, other *OrderedMap[K, V, PV]) (bool, error) {
	changed := false
	a := m.keys()
	b := other.keys()
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && m.less(a[i], b[j])):
			key := a[i]
			if err := ctx.SaveCommand(codec.Element{Kind: diffcmd.KindRemoveMapKey, Payload: key}, true, true); err != nil {
				return changed, err
			}
			changed = true
			i++
		case i >= len(a) || (j < len(b) && m.less(b[j], a[i])):
			key := b[j]
			entry, _ := other.tree.Get(mapEntry[K, V]{Key: key})
			ctx.PushKeyThunk(func(enc codec.Encoder) error {
				return enc.EncodeElement(codec.Element{Kind: diffcmd.KindAddMapKey, Payload: key})
			})
			if err := ctx.SaveValue(entry.Val); err != nil {
				ctx.Pop()
				return changed, err
			}
			if err := ctx.Pop(); err != nil {
				return changed, err
			}
			changed = true
			j++
		default:
			key := a[i]
			oldEntry, _ := m.tree.Get(mapEntry[K, V]{Key: key})
			newEntry, _ := other.tree.Get(mapEntry[K, V]{Key: key})
			ov, nv := oldEntry.Val, newEntry.Val
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
			i++
			j++
		}
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

func (m *OrderedMap[K, V, PV]) Apply(cur *diffctx.Cursor) (bool, error) {
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
			entry, exists := m.tree.Get(mapEntry[K, V]{Key: key})
			if !exists {
				if err := cur.SkipCurrentSubtree(); err != nil {
					return changed, err
				}
				continue
			}
			c, err := PV(&entry.Val).Apply(cur)
			if err != nil {
				return changed, err
			}
			if c {
				m.tree.ReplaceOrInsert(entry)
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
				m.tree.ReplaceOrInsert(mapEntry[K, V]{Key: key, Val: val})
				changed = true
			}
		case diffcmd.KindRemoveMapKey:
			var key K
			if err := el.Raw.Decode(&key); err != nil {
				return changed, err
			}
			if _, existed := m.tree.Delete(mapEntry[K, V]{Key: key}); existed {
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
