package derive_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/structform/diff/pkgs/derive"
)

func TestParseFieldTag_Empty(t *testing.T) {
	ft, err := derive.ParseFieldTag("")
	require.NoError(t, err)
	require.Equal(t, derive.FieldTag{}, ft)
}

func TestParseFieldTag_NameAndIndex(t *testing.T) {
	ft, err := derive.ParseFieldTag("name=Count,index=2")
	require.NoError(t, err)
	require.Equal(t, "Count", ft.Name)
	require.True(t, ft.HasIndex)
	require.EqualValues(t, 2, ft.Index)
}

func TestParseFieldTag_Opaque(t *testing.T) {
	ft, err := derive.ParseFieldTag("opaque")
	require.NoError(t, err)
	require.True(t, ft.Opaque)
}

func TestParseFieldTag_Target(t *testing.T) {
	ft, err := derive.ParseFieldTag("target=UnixMillis")
	require.NoError(t, err)
	require.Equal(t, "UnixMillis", ft.Target)
}

func TestParseFieldTag_Skip(t *testing.T) {
	ft, err := derive.ParseFieldTag("skip")
	require.NoError(t, err)
	require.True(t, ft.Skip)
}

func TestParseFieldTag_SkipCombinedWithOtherModifiersIsRejected(t *testing.T) {
	_, err := derive.ParseFieldTag("skip,opaque")
	require.Error(t, err)

	_, err = derive.ParseFieldTag("skip,name=X")
	require.Error(t, err)
}

func TestParseFieldTag_NameRequiresValue(t *testing.T) {
	_, err := derive.ParseFieldTag("name=")
	require.Error(t, err)

	_, err = derive.ParseFieldTag("name")
	require.Error(t, err)
}

func TestParseFieldTag_IndexRequiresValidUint16(t *testing.T) {
	_, err := derive.ParseFieldTag("index=")
	require.Error(t, err)

	_, err = derive.ParseFieldTag("index=not-a-number")
	require.Error(t, err)

	_, err = derive.ParseFieldTag("index=99999999999")
	require.Error(t, err)
}

func TestParseFieldTag_UnknownModifier(t *testing.T) {
	_, err := derive.ParseFieldTag("bogus")
	require.Error(t, err)
}

func TestParseFieldTag_WhitespaceTolerant(t *testing.T) {
	ft, err := derive.ParseFieldTag(" name = Count , index = 3 ")
	require.NoError(t, err)
	require.Equal(t, "Count", ft.Name)
	require.EqualValues(t, 3, ft.Index)
}
