package memstore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// session reads one Database under its read lock.
type session struct {
	db        *Database
	closeOnce sync.Once
	closed    bool
}

var _ types.Session = (*session)(nil)

func (s *session) TableNames() ([]string, error) {
	if s.closed {
		return nil, errSessionClosed
	}
	return slices.Clone(s.db.order), nil
}

func (s *session) Columns(name string) ([]types.ColumnDescriptor, error) {
	t, err := s.table(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.cols), nil
}

func (s *session) RowCount(name string) (int, error) {
	t, err := s.table(name)
	if err != nil {
		return 0, err
	}
	return len(t.rows), nil
}

// Scan orders the table's rows, then applies Offset and Limit. The sort is
// stable and ties keep position order.
func (s *session) Scan(name string, opts types.ScanOptions) (types.View, error) {
	t, err := s.table(name)
	if err != nil {
		return nil, err
	}

	rows := slices.Clone(t.rows)
	if opts.Sort != nil {
		col := types.ColumnIndex(t.cols, opts.Sort.Column)
		if col < 0 || !t.cols[col].Type.IsSortable() {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidSortColumn, opts.Sort.Column)
		}
		desc := opts.Sort.Direction == types.SortDescending
		slices.SortStableFunc(rows, func(a, b storedRow) int {
			c := compareValues(a.values[col], b.values[col])
			if desc {
				c = -c
			}
			return c
		})
	}

	offset := max(opts.Offset, 0)
	if offset >= len(rows) {
		rows = nil
	} else {
		rows = rows[offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(rows) {
		rows = rows[:opts.Limit]
	}
	return &view{rows: rows, idx: -1}, nil
}

// Close releases the read lock. Close is idempotent.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.closed = true
		s.db.mu.RUnlock()
	})
	return nil
}

func (s *session) table(name string) (*table, error) {
	if s.closed {
		return nil, errSessionClosed
	}
	t, ok := s.db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, name)
	}
	return t, nil
}

// view iterates a snapshot of row references.
type view struct {
	rows []storedRow
	idx  int
}

func (v *view) Next() bool {
	if v.idx+1 >= len(v.rows) {
		v.idx = len(v.rows)
		return false
	}
	v.idx++
	return true
}

func (v *view) Cursor() types.RowCursor {
	return cursor(v.rows[v.idx])
}

func (v *view) Err() error { return nil }
func (v *view) Close() error { return nil }

// cursor exposes one stored row.
type cursor storedRow

func (c cursor) IsNull(col int) bool {
	return c.values[col] == nil
}

func (c cursor) Value(col int) any {
	return c.values[col]
}

func (c cursor) Position() types.PositionID {
	return c.pos
}
