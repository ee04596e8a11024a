package inspect

import (
	"fmt"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// ListTables returns the names of the database's tables in engine order.
// Returns an error wrapping types.ErrConnection if the database cannot be
// opened.
func (in *Inspector) ListTables(cfg types.Config) (names []string, err error) {
	s, err := in.open(cfg, "list_tables", "")
	if err != nil {
		return nil, err
	}
	defer s.release(&err)

	names, err = s.TableNames()
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ListColumns returns the column descriptors of table in column index order.
// Returns an error wrapping types.ErrTableNotFound if the table does not
// exist, or types.ErrConnection if the database cannot be opened.
func (in *Inspector) ListColumns(cfg types.Config, table string) (cols []types.ColumnDescriptor, err error) {
	s, err := in.open(cfg, "list_columns", table)
	if err != nil {
		return nil, err
	}
	defer s.release(&err)

	cols, err = s.Columns(table)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	return cols, nil
}
