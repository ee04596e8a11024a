// Package sqlite provides the public API for the SQLite object store engine.
// It exposes the opener and the sample database writer while keeping the
// storage implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/inspector/internal/sqlite"
	"github.com/mesh-intelligence/inspector/pkg/types"
)

// NewBackend creates an opener for SQLite object store files.
//
// Example:
//
//	opener := sqlite.NewBackend()
//	s, err := opener.OpenSession(types.Config{
//	    Backend: types.BackendSQLite,
//	    Path:    "app.db",
//	})
//	defer s.Close()
func NewBackend() types.Opener {
	return sqlite.NewBackend()
}

// Seed writes the sample database to path, replacing any existing file.
func Seed(path string) error {
	return sqlite.Seed(path)
}
