package diffable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structform/diff/pkgs/diffable"
	"github.com/structform/diff/pkgs/diffable/diffabletest"
	"github.com/structform/diff/pkgs/diffcmd"
)

type strHashedMap = diffable.HashedMap[string, leafInt, *leafInt]

func keyBytes(k string) []byte { return []byte(k) }

func TestHashedMap_NoChange(t *testing.T) {
	a := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "b": 2}, keyBytes)
	b := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "b": 2}, keyBytes)
	elts, changed, err := diffabletest.Diff[strHashedMap, *strHashedMap](diffcmd.ByName, a, b)
	require.NoError(t, err)
	require.False(t, changed)
	require.Empty(t, elts)
}

func TestHashedMap_ValueUpdated(t *testing.T) {
	a := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "b": 2}, keyBytes)
	b := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "b": 9}, keyBytes)
	elts, changed, err := diffabletest.Diff[strHashedMap, *strHashedMap](diffcmd.ByName, a, b)
	require.NoError(t, err)
	require.True(t, changed)

	dst := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "b": 2}, keyBytes)
	changed, err = diffabletest.Apply[strHashedMap, *strHashedMap](dst, elts)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, b.Map(), dst.Map())
}

func TestHashedMap_KeyAdded(t *testing.T) {
	a := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1}, keyBytes)
	b := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "c": 3}, keyBytes)
	elts, changed, err := diffabletest.Diff[strHashedMap, *strHashedMap](diffcmd.ByName, a, b)
	require.NoError(t, err)
	require.True(t, changed)

	var sawAdd bool
	for _, el := range elts {
		if el.Kind == diffcmd.KindAddMapKey {
			sawAdd = true
		}
	}
	require.True(t, sawAdd)

	dst := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1}, keyBytes)
	changed, err = diffabletest.Apply[strHashedMap, *strHashedMap](dst, elts)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, b.Map(), dst.Map())
}

func TestHashedMap_KeyRemoved(t *testing.T) {
	a := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "b": 2}, keyBytes)
	b := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1}, keyBytes)
	elts, changed, err := diffabletest.Diff[strHashedMap, *strHashedMap](diffcmd.ByName, a, b)
	require.NoError(t, err)
	require.True(t, changed)

	var sawRemove bool
	for _, el := range elts {
		if el.Kind == diffcmd.KindRemoveMapKey {
			sawRemove = true
			require.Equal(t, "b", el.Payload)
		}
	}
	require.True(t, sawRemove)

	dst := diffable.NewHashedMap[string, leafInt, *leafInt](map[string]leafInt{"a": 1, "b": 2}, keyBytes)
	changed, err = diffabletest.Apply[strHashedMap, *strHashedMap](dst, elts)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, b.Map(), dst.Map())
}
