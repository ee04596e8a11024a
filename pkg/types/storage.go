package types

import (
	"fmt"
	"strings"
)

// StorageType is the engine's native type tag for a column. The set is open:
// engines may report values outside the constants below and the formatter
// degrades them to UnknownValue.
type StorageType int

const (
	// TypeUnknown marks a column whose declared type the engine could not map.
	TypeUnknown StorageType = iota
	TypeInteger
	TypeBoolean
	TypeText
	TypeBinary
	TypeTimestamp
	TypeFloat
	TypeDouble
	// TypeLink is a nullable reference to a single row of LinkTarget.
	TypeLink
	// TypeObjectList is an ordered list of rows of LinkTarget.
	TypeObjectList
	// TypeScalarList is an ordered list of ElementType scalars.
	TypeScalarList
)

var storageTypeNames = map[StorageType]string{
	TypeUnknown:    "Unknown",
	TypeInteger:    "Integer",
	TypeBoolean:    "Boolean",
	TypeText:       "Text",
	TypeBinary:     "Binary",
	TypeTimestamp:  "Timestamp",
	TypeFloat:      "Float",
	TypeDouble:     "Double",
	TypeLink:       "Link",
	TypeObjectList: "ObjectList",
	TypeScalarList: "ScalarList",
}

// String returns the storage type name, or Unknown(n) for values outside the
// known set.
func (t StorageType) String() string {
	if name, ok := storageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(t))
}

// MarshalText encodes the type by name so descriptors read well as JSON.
func (t StorageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseStorageType maps a name produced by String back to its StorageType.
// Matching is case-insensitive; unrecognized names return TypeUnknown, false.
func ParseStorageType(name string) (StorageType, bool) {
	for t, n := range storageTypeNames {
		if t != TypeUnknown && strings.EqualFold(n, name) {
			return t, true
		}
	}
	return TypeUnknown, false
}

// IsScalar reports whether the type may appear as a scalar list element.
func (t StorageType) IsScalar() bool {
	switch t {
	case TypeInteger, TypeBoolean, TypeText, TypeBinary, TypeTimestamp, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// IsSortable reports whether rows can be ordered by a column of this type.
func (t StorageType) IsSortable() bool {
	switch t {
	case TypeInteger, TypeBoolean, TypeText, TypeTimestamp, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}
