package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

var _ types.Session = (*session)(nil)

// TableNames lists user tables in creation order. SQLite's internal tables
// are hidden.
func (s *session) TableNames() ([]string, error) {
	if s.closed {
		return nil, errSessionClosed
	}
	rows, err := s.tx.Query(
		"SELECT name FROM sqlite_schema WHERE type = 'table' AND name NOT LIKE 'sqlite\\_%' ESCAPE '\\' ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Columns reads the table's columns through PRAGMA table_info, in column
// index order.
func (s *session) Columns(table string) ([]types.ColumnDescriptor, error) {
	if err := s.checkTable(table); err != nil {
		return nil, err
	}

	rows, err := s.tx.Query(
		`SELECT name, type, "notnull" FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var cols []types.ColumnDescriptor
	for rows.Next() {
		var (
			name, declType string
			notNull        bool
		)
		if err := rows.Scan(&name, &declType, &notNull); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		cols = append(cols, describeColumn(name, declType, notNull))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	return cols, nil
}

// RowCount returns the number of rows in table.
func (s *session) RowCount(table string) (int, error) {
	if err := s.checkTable(table); err != nil {
		return 0, err
	}
	var n int
	if err := s.tx.QueryRow("SELECT count(*) FROM " + quoteIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}

// Scan selects the table's rows ordered by opts.Sort, ties broken by rowid.
// Offset and Limit are pushed into the query.
func (s *session) Scan(table string, opts types.ScanOptions) (types.View, error) {
	cols, err := s.Columns(table)
	if err != nil {
		return nil, err
	}

	order := "rowid"
	if opts.Sort != nil {
		i := types.ColumnIndex(cols, opts.Sort.Column)
		if i < 0 || !cols[i].Type.IsSortable() {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidSortColumn, opts.Sort.Column)
		}
		order = fmt.Sprintf("%s %s, rowid", quoteIdent(cols[i].Name), opts.Sort.Direction)
	}

	limit := int64(-1)
	if opts.Limit > 0 {
		limit = int64(opts.Limit)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT ? OFFSET ?",
		selectList(cols), quoteIdent(table), order)

	rows, err := s.tx.Query(query, limit, max(opts.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	return newView(rows, cols), nil
}

// checkTable returns ErrTableNotFound unless table is a user table.
func (s *session) checkTable(table string) error {
	if s.closed {
		return errSessionClosed
	}
	var n int
	err := s.tx.QueryRow(
		"SELECT count(*) FROM sqlite_schema WHERE type = 'table' AND name = ?", table).Scan(&n)
	if err != nil {
		return fmt.Errorf("looking up table: %w", err)
	}
	if n == 0 || strings.HasPrefix(table, "sqlite_") {
		return fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	return nil
}

// selectList returns "rowid, c0, c1, ..." for cols.
func selectList(cols []types.ColumnDescriptor) string {
	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, "rowid")
	for _, c := range cols {
		parts = append(parts, quoteIdent(c.Name))
	}
	return strings.Join(parts, ", ")
}

// view decodes one *sql.Rows row at a time.
type view struct {
	rows *sql.Rows
	cols []types.ColumnDescriptor
	dest []any
	cur  cursor
	err  error
}

func newView(rows *sql.Rows, cols []types.ColumnDescriptor) *view {
	v := &view{
		rows: rows,
		cols: cols,
		dest: make([]any, len(cols)+1),
		cur:  cursor{values: make([]any, len(cols))},
	}
	return v
}

func (v *view) Next() bool {
	if v.err != nil || !v.rows.Next() {
		return false
	}

	var pos int64
	raw := make([]any, len(v.cols))
	v.dest[0] = &pos
	for i := range raw {
		v.dest[i+1] = &raw[i]
	}
	if err := v.rows.Scan(v.dest...); err != nil {
		v.err = fmt.Errorf("scanning row: %w", err)
		return false
	}

	v.cur.pos = types.PositionID(pos)
	for i, c := range v.cols {
		v.cur.values[i] = decodeValue(c, raw[i])
	}
	return true
}

func (v *view) Cursor() types.RowCursor { return &v.cur }

func (v *view) Err() error {
	if v.err != nil {
		return v.err
	}
	return v.rows.Err()
}

func (v *view) Close() error { return v.rows.Close() }

// cursor holds the decoded values of the current row.
type cursor struct {
	pos    types.PositionID
	values []any
}

func (c *cursor) IsNull(col int) bool { return c.values[col] == nil }
func (c *cursor) Value(col int) any { return c.values[col] }
func (c *cursor) Position() types.PositionID { return c.pos }
