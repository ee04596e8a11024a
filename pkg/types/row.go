package types

import "encoding/json"

// Row is one materialized table row. Cells[i] holds the value of the i-th
// column descriptor returned for the table at read time.
type Row struct {
	Position PositionID `json:"position"`
	Cells    []Cell     `json:"cells"`
}

// Cell is one column value of one row in display-safe form.
//
// Null cells have Null set and nothing else. Boolean cells carry Bool. All
// other cells carry Text; list cells additionally carry the rendered element
// tokens in Elements.
type Cell struct {
	Type     StorageType
	Null     bool
	Bool     bool
	Text     string
	Elements []string
}

// NullCell returns the Null representation for a column of type t.
func NullCell(t StorageType) Cell {
	return Cell{Type: t, Null: true}
}

// TextCell returns a textual cell.
func TextCell(t StorageType, text string) Cell {
	return Cell{Type: t, Text: text}
}

// BoolCell returns a boolean cell.
func BoolCell(v bool) Cell {
	return Cell{Type: TypeBoolean, Bool: v}
}

// ListCell returns a list cell holding the rendered token and its elements.
func ListCell(t StorageType, text string, elements []string) Cell {
	return Cell{Type: t, Text: text, Elements: elements}
}

// Value returns nil for Null, a bool for Boolean cells and the text
// otherwise.
func (c Cell) Value() any {
	switch {
	case c.Null:
		return nil
	case c.Type == TypeBoolean:
		return c.Bool
	default:
		return c.Text
	}
}

// String returns the display text of the cell; Null renders as "null".
func (c Cell) String() string {
	switch v := c.Value().(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return c.Text
	}
}

// MarshalJSON encodes the cell as its Value.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}
