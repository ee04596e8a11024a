package inspect

import (
	"fmt"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// CountRows returns the current number of rows in table.
// Returns an error wrapping types.ErrTableNotFound if the table does not
// exist.
func (in *Inspector) CountRows(cfg types.Config, table string) (n int, err error) {
	s, err := in.open(cfg, "count_rows", table)
	if err != nil {
		return 0, err
	}
	defer s.release(&err)

	n, err = s.RowCount(table)
	if err != nil {
		return 0, fmt.Errorf("counting rows of %q: %w", table, err)
	}
	return n, nil
}

// ScanRows returns the rows of table in the window [start, start+count) of
// the view ordered by sort, or in native order when sort is nil.
//
// Paging is best effort and never fails on bounds: a negative start is
// treated as 0, a start at or past the end of the table yields no rows, a
// count <= 0 yields no rows, and a count larger than the remaining rows is
// truncated.
//
// The sort column is resolved against the live schema before any row is
// read; an unknown or non-sortable column fails with
// types.ErrInvalidSortColumn. Either the whole page is returned or the call
// fails without rows.
func (in *Inspector) ScanRows(cfg types.Config, table string, start, count int, sort *types.SortSpec) (rows []types.Row, err error) {
	s, err := in.open(cfg, "scan_rows", table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			rows = nil
		}
	}()
	defer s.release(&err)

	cols, err := s.Columns(table)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	if err := checkSort(cols, sort); err != nil {
		return nil, err
	}

	start = max(start, 0)
	if count <= 0 {
		return []types.Row{}, nil
	}

	view, err := s.Scan(table, types.ScanOptions{Sort: sort, Offset: start, Limit: count})
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", table, err)
	}
	defer view.Close()

	rows = make([]types.Row, 0, min(count, 256))
	for len(rows) < count && view.Next() {
		rows = append(rows, in.materialize(cols, view.Cursor()))
	}
	if err := view.Err(); err != nil {
		return nil, fmt.Errorf("scanning %q: %w", table, err)
	}
	s.log.Debug("rows scanned", "start", start, "count", count, "returned", len(rows))
	return rows, nil
}

// materialize builds a Row from the same column slice that describes the
// table, so cell i always belongs to column i.
func (in *Inspector) materialize(cols []types.ColumnDescriptor, cur types.RowCursor) types.Row {
	cells := make([]types.Cell, len(cols))
	for i, col := range cols {
		cells[i] = in.formatter.Format(col, cur, i)
	}
	return types.Row{Position: cur.Position(), Cells: cells}
}

// checkSort validates sort against the table's columns.
func checkSort(cols []types.ColumnDescriptor, sort *types.SortSpec) error {
	if sort == nil {
		return nil
	}
	i := types.ColumnIndex(cols, sort.Column)
	if i < 0 {
		return fmt.Errorf("%w: no column %q", types.ErrInvalidSortColumn, sort.Column)
	}
	if !cols[i].Type.IsSortable() {
		return fmt.Errorf("%w: column %q of type %s is not sortable",
			types.ErrInvalidSortColumn, sort.Column, cols[i].Type)
	}
	if sort.Direction != types.SortAscending && sort.Direction != types.SortDescending {
		return fmt.Errorf("%w: %s", types.ErrInvalidSortColumn, sort.Direction)
	}
	return nil
}
