package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageTypeString(t *testing.T) {
	assert.Equal(t, "Integer", TypeInteger.String())
	assert.Equal(t, "ScalarList", TypeScalarList.String())
	assert.Equal(t, "Unknown", TypeUnknown.String())
	assert.Equal(t, "Unknown(99)", StorageType(99).String())
}

func TestParseStorageType(t *testing.T) {
	for typ, name := range storageTypeNames {
		if typ == TypeUnknown {
			continue
		}
		got, ok := ParseStorageType(name)
		require.True(t, ok, name)
		assert.Equal(t, typ, got)
	}

	got, ok := ParseStorageType("double")
	assert.True(t, ok)
	assert.Equal(t, TypeDouble, got)

	got, ok = ParseStorageType("geometry")
	assert.False(t, ok)
	assert.Equal(t, TypeUnknown, got)
}

func TestStorageTypeCapabilities(t *testing.T) {
	tests := []struct {
		typ      StorageType
		scalar   bool
		sortable bool
	}{
		{TypeInteger, true, true},
		{TypeBoolean, true, true},
		{TypeText, true, true},
		{TypeBinary, true, false},
		{TypeTimestamp, true, true},
		{TypeFloat, true, true},
		{TypeDouble, true, true},
		{TypeLink, false, false},
		{TypeObjectList, false, false},
		{TypeScalarList, false, false},
		{TypeUnknown, false, false},
		{StorageType(42), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.scalar, tt.typ.IsScalar())
			assert.Equal(t, tt.sortable, tt.typ.IsSortable())
		})
	}
}

func TestColumnDescriptorJSON(t *testing.T) {
	col := ColumnDescriptor{Name: "owner", Type: TypeLink, Nullable: true, LinkTarget: "users"}
	data, err := json.Marshal(col)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"owner","type":"Link","nullable":true,"link_target":"users"}`, string(data))
}

func TestColumnIndex(t *testing.T) {
	cols := []ColumnDescriptor{{Name: "id"}, {Name: "name"}}
	assert.Equal(t, 1, ColumnIndex(cols, "name"))
	assert.Equal(t, -1, ColumnIndex(cols, "missing"))
}
