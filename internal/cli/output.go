package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a tabwriter for aligned text output. The caller must
// Flush it.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeRow writes cells as one tab-separated line.
func writeRow(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

// describeType renders a column's type with its link target or element type.
func describeType(c types.ColumnDescriptor) string {
	switch c.Type {
	case types.TypeLink, types.TypeObjectList:
		return c.Type.String() + " -> " + c.LinkTarget
	case types.TypeScalarList:
		return c.Type.String() + "<" + c.ElementType.String() + ">"
	default:
		return c.Type.String()
	}
}

// tabSafe keeps a cell on one line and out of the column separators.
func tabSafe(s string) string {
	return strings.NewReplacer("\t", `\t`, "\n", `\n`, "\r", `\r`).Replace(s)
}
