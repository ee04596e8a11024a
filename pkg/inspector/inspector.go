// Package inspector is the public entry point for reading embedded object
// databases. It routes each call to the engine named by Config.Backend and
// returns rows with every cell rendered for display.
//
// Example:
//
//	in := inspector.New()
//	cfg := types.Config{Backend: types.BackendSQLite, Path: "app.db"}
//	tables, err := in.ListTables(cfg)
package inspector

import (
	"log/slog"
	"time"

	"github.com/mesh-intelligence/inspector/internal/inspect"
	"github.com/mesh-intelligence/inspector/internal/memstore"
	"github.com/mesh-intelligence/inspector/pkg/sqlite"
	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Version is the inspector release version.
const Version = "0.1.0"

// Inspector lists tables and columns, counts rows, and scans pages of
// rendered rows. Every call opens and releases its own session, so an
// Inspector is safe for concurrent use.
type Inspector interface {
	ListTables(cfg types.Config) ([]string, error)
	ListColumns(cfg types.Config, table string) ([]types.ColumnDescriptor, error)
	CountRows(cfg types.Config, table string) (int, error)
	ScanRows(cfg types.Config, table string, start, count int, sort *types.SortSpec) ([]types.Row, error)
}

// MemStore is a registry of in-memory databases, opened with
// Config{Backend: types.BackendMemory, Path: <name>}.
type MemStore = memstore.Store

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return memstore.New()
}

type options struct {
	router  *Router
	inspect []inspect.Option
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger for session events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.inspect = append(o.inspect, inspect.WithLogger(l)) }
}

// WithLocation sets the time zone timestamps are rendered in. The default
// is UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.inspect = append(o.inspect, inspect.WithLocation(loc)) }
}

// WithMemStore serves the memory backend from s.
func WithMemStore(s *MemStore) Option {
	return WithOpener(types.BackendMemory, s)
}

// WithOpener serves backend from opener, replacing any earlier registration.
func WithOpener(backend string, opener types.Opener) Option {
	return func(o *options) { o.router.Register(backend, opener) }
}

// New creates an Inspector. The sqlite backend is always registered.
func New(opts ...Option) Inspector {
	o := &options{router: NewRouter()}
	o.router.Register(types.BackendSQLite, sqlite.NewBackend())
	for _, opt := range opts {
		opt(o)
	}
	return inspect.New(o.router, o.inspect...)
}
