package types

import (
	"errors"
	"strconv"
)

// Opener opens read sessions against a database. Each call returns a new
// session; sessions are never shared between callers.
type Opener interface {
	// OpenSession returns a read-only session for the database described by
	// cfg. Returns an error wrapping ErrConnection if it cannot be opened.
	OpenSession(cfg Config) (Session, error)
}

// Session is a short-lived, read-only handle into a database. The caller
// that opened it must Close it, on every exit path.
type Session interface {
	// TableNames lists user tables in engine iteration order.
	TableNames() ([]string, error)

	// Columns returns the descriptors of the named table in column index
	// order. Returns ErrTableNotFound if the table does not exist.
	Columns(table string) ([]ColumnDescriptor, error)

	// RowCount returns the current number of rows in the table.
	// Returns ErrTableNotFound if the table does not exist.
	RowCount(table string) (int, error)

	// Scan returns an ordered view over the table. Rows before opts.Offset
	// are skipped and at most opts.Limit rows are yielded when Limit > 0.
	// Returns ErrTableNotFound or ErrInvalidSortColumn.
	Scan(table string, opts ScanOptions) (View, error)

	// Close releases the session. Close is idempotent.
	Close() error
}

// ScanOptions bounds and orders a Scan.
type ScanOptions struct {
	Sort   *SortSpec
	Offset int
	Limit  int
}

// View is an ordered, forward-only sequence of row cursors. A cursor is
// valid until the next call to Next.
type View interface {
	Next() bool
	Cursor() RowCursor
	Err() error
	Close() error
}

// RowCursor reads typed values from the current row of a View.
//
// Value returns the engine-native value of column col:
//
//	TypeInteger    int64
//	TypeBoolean    bool
//	TypeText       string
//	TypeBinary     []byte
//	TypeTimestamp  time.Time
//	TypeFloat      float32
//	TypeDouble     float64
//	TypeLink       PositionID
//	TypeObjectList []PositionID
//	TypeScalarList []any, elements typed as above per ElementType
type RowCursor interface {
	IsNull(col int) bool
	Value(col int) any
	Position() PositionID
}

// PositionID identifies a row for the lifetime of a session. Links and object
// lists are rendered as position identifiers instead of copies of the
// linked rows.
type PositionID int64

// String returns the identifier as decimal text.
func (p PositionID) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// Inspection errors.
var (
	ErrConnection        = errors.New("cannot open database")
	ErrTableNotFound     = errors.New("table not found")
	ErrInvalidSortColumn = errors.New("invalid sort column")
)
