package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Builder writes an object store database. The inspector itself only reads;
// Builder exists to create fixtures and sample databases.
type Builder struct {
	db     *sql.DB
	exec   execer
	tables map[string][]types.ColumnDescriptor
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Create creates a fresh database at path, replacing any existing file, and
// returns a Builder for it. The caller must Close the Builder.
func Create(path string) (*Builder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	_ = os.Remove(path)

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Builder{db: db, exec: db, tables: make(map[string][]types.ColumnDescriptor)}, nil
}

// CreateTable creates a rowid table with cols in order.
func (b *Builder) CreateTable(name string, cols ...types.ColumnDescriptor) error {
	ddl, err := createTableSQL(name, cols)
	if err != nil {
		return err
	}
	if _, err := b.exec.Exec(ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}
	b.tables[name] = slices.Clone(cols)
	return nil
}

// Insert appends a row to table and returns its position. Values follow
// column order and use the native Go types documented on types.RowCursor.
func (b *Builder) Insert(table string, values ...any) (types.PositionID, error) {
	cols, ok := b.tables[table]
	if !ok {
		return 0, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	if len(values) != len(cols) {
		return 0, fmt.Errorf("%w: %s expects %d values, got %d", ErrInvalidValue, table, len(cols), len(values))
	}

	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		v, err := encodeValue(c, values[i])
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", c.Name, err)
		}
		names[i] = quoteIdent(c.Name)
		marks[i] = "?"
		args[i] = v
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", "))
	res, err := b.exec.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading rowid: %w", err)
	}
	return types.PositionID(id), nil
}

// Exec runs a raw statement, for fixtures the typed API cannot express.
func (b *Builder) Exec(query string, args ...any) error {
	_, err := b.exec.Exec(query, args...)
	return err
}

// Batch runs fn inside one transaction: every write fn makes through the
// Builder is committed together, or none is when fn fails.
func (b *Builder) Batch(fn func() error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}
	defer tx.Rollback()

	b.exec = tx
	defer func() { b.exec = b.db }()

	if err := fn(); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *Builder) Close() error {
	return b.db.Close()
}
