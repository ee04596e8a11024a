// Package memstore implements an in-memory object database that satisfies
// types.Opener. Databases are registered by name; Config.Path selects one.
package memstore

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Schema and write errors.
var (
	ErrTableExists   = errors.New("table already exists")
	ErrInvalidColumn = errors.New("invalid column definition")
	ErrInvalidValue  = errors.New("invalid value for column")

	errSessionClosed = errors.New("session is closed")
)

// Store is a registry of named in-memory databases.
type Store struct {
	mu  sync.RWMutex
	dbs map[string]*Database
}

// New creates an empty Store.
func New() *Store {
	return &Store{dbs: make(map[string]*Database)}
}

// Create registers a new empty database under name, replacing any database
// previously registered under the same name.
func (s *Store) Create(name string) *Database {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := &Database{tables: make(map[string]*table)}
	s.dbs[name] = db
	return db
}

// Drop removes the named database. Sessions already open keep reading it.
func (s *Store) Drop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dbs, name)
}

// OpenSession opens a read session on the database named by cfg.Path. The
// session holds the database's read lock until it is closed.
func (s *Store) OpenSession(cfg types.Config) (types.Session, error) {
	if cfg.Backend != types.BackendMemory {
		return nil, fmt.Errorf("%w: memstore cannot open backend %q", types.ErrConnection, cfg.Backend)
	}

	s.mu.RLock()
	db, ok := s.dbs[cfg.Path]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no in-memory database %q", types.ErrConnection, cfg.Path)
	}

	db.mu.RLock()
	return &session{db: db}, nil
}

// Database is one in-memory database. Writes take the write lock and so wait
// for open sessions to close.
type Database struct {
	mu     sync.RWMutex
	order  []string
	tables map[string]*table
}

type table struct {
	name string
	cols []types.ColumnDescriptor
	rows []storedRow
	next types.PositionID
}

type storedRow struct {
	pos    types.PositionID
	values []any
}

// Table is a write handle to one table of a Database.
type Table struct {
	db *Database
	t  *table
}

// CreateTable adds a table with the given columns. Link and object list
// columns need a LinkTarget; scalar list columns need a scalar ElementType.
// Columns of storage types outside the known set are accepted as-is.
func (d *Database) CreateTable(name string, cols ...types.ColumnDescriptor) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty table name", ErrInvalidColumn)
	}
	for _, c := range cols {
		if err := checkColumn(c); err != nil {
			return nil, err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.tables[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrTableExists, name)
	}
	t := &table{
		name: name,
		cols: slices.Clone(cols),
		next: 1,
	}
	d.tables[name] = t
	d.order = append(d.order, name)
	return &Table{db: d, t: t}, nil
}

// Table returns a write handle to an existing table.
func (d *Database) Table(name string) (*Table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, name)
	}
	return &Table{db: d, t: t}, nil
}

// Insert appends a row and returns its position. Values follow column order
// and use the native Go types documented on types.RowCursor; nil is accepted
// for nullable columns only.
func (tb *Table) Insert(values ...any) (types.PositionID, error) {
	tb.db.mu.Lock()
	defer tb.db.mu.Unlock()

	t := tb.t
	if len(values) != len(t.cols) {
		return 0, fmt.Errorf("%w: %s expects %d values, got %d", ErrInvalidValue, t.name, len(t.cols), len(values))
	}
	row := make([]any, len(values))
	for i, c := range t.cols {
		v, err := normalize(c, values[i])
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", c.Name, err)
		}
		row[i] = v
	}

	pos := t.next
	t.next++
	t.rows = append(t.rows, storedRow{pos: pos, values: row})
	return pos, nil
}

// Delete removes the row at pos. Positions are never reused.
func (tb *Table) Delete(pos types.PositionID) bool {
	tb.db.mu.Lock()
	defer tb.db.mu.Unlock()

	for i, r := range tb.t.rows {
		if r.pos == pos {
			tb.t.rows = slices.Delete(tb.t.rows, i, i+1)
			return true
		}
	}
	return false
}

func checkColumn(c types.ColumnDescriptor) error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty column name", ErrInvalidColumn)
	}
	switch c.Type {
	case types.TypeLink, types.TypeObjectList:
		if c.LinkTarget == "" {
			return fmt.Errorf("%w: %s column %q needs a link target", ErrInvalidColumn, c.Type, c.Name)
		}
	case types.TypeScalarList:
		if !c.ElementType.IsScalar() {
			return fmt.Errorf("%w: scalar list %q has element type %s", ErrInvalidColumn, c.Name, c.ElementType)
		}
	}
	return nil
}
