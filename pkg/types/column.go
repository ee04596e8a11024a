package types

// ColumnDescriptor describes one column of a table. Descriptors are returned
// in column index order, and the cells of every Row follow the same order.
type ColumnDescriptor struct {
	Name     string      `json:"name"`
	Type     StorageType `json:"type"`
	Nullable bool        `json:"nullable"`

	// LinkTarget names the referenced table for TypeLink and TypeObjectList.
	LinkTarget string `json:"link_target,omitempty"`

	// ElementType is the element storage type for TypeScalarList.
	ElementType StorageType `json:"element_type,omitempty"`
}

// ColumnIndex returns the index of the column with the given name, or -1.
func ColumnIndex(cols []ColumnDescriptor, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}
