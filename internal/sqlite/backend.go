// Package sqlite implements an embedded object store on SQLite and exposes it
// as a types.Opener for the inspector.
//
// Storage types live in the declared column types of ordinary rowid tables
// (see schema.go); the rowid is the row's position identifier.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// Backend opens read-only sessions on SQLite database files. It keeps no
// connection between calls.
type Backend struct{}

var _ types.Opener = (*Backend)(nil)

// NewBackend creates a new SQLite backend.
func NewBackend() *Backend {
	return &Backend{}
}

// OpenSession opens cfg.Path read-only and starts a read transaction, so all
// reads of one session see one snapshot. Every failure wraps
// types.ErrConnection.
func (b *Backend) OpenSession(cfg types.Config) (types.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	if cfg.Backend != types.BackendSQLite {
		return nil, fmt.Errorf("%w: sqlite backend cannot open %q", types.ErrConnection, cfg.Backend)
	}

	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", types.ErrConnection, path)
	}

	db, err := sql.Open(driverName, readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	db.SetMaxOpenConns(1)

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}

	// SQLite opens lazily; the first read is what detects a file that is not
	// a database.
	var n int
	if err := tx.QueryRow("SELECT count(*) FROM sqlite_schema").Scan(&n); err != nil {
		_ = tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}

	return &session{db: db, tx: tx}, nil
}

// readOnlyDSN builds a file: URI that opens path read-only.
func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: "mode=ro"}
	return u.String()
}

// session is one read transaction on a dedicated connection.
type session struct {
	db     *sql.DB
	tx     *sql.Tx
	closed bool
}

var errSessionClosed = errors.New("session is closed")

// Close ends the read transaction and closes the connection. Close is
// idempotent.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	rbErr := s.tx.Rollback()
	if errors.Is(rbErr, sql.ErrTxDone) {
		rbErr = nil
	}
	return errors.Join(rbErr, s.db.Close())
}
