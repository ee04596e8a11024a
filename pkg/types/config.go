package types

import "errors"

// Config identifies a database for a single inspector call. It is the
// database handle: callers pass it on every operation and nothing caches it.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	Path    string `json:"path" yaml:"path" mapstructure:"database"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrPathEmpty      = errors.New("database path must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Path == "" {
		return ErrPathEmpty
	}
	return nil
}
