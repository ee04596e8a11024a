package inspector

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Router is a types.Opener that dispatches on Config.Backend.
type Router struct {
	mu      sync.RWMutex
	openers map[string]types.Opener
}

var _ types.Opener = (*Router)(nil)

// NewRouter creates a Router with no backends.
func NewRouter() *Router {
	return &Router{openers: make(map[string]types.Opener)}
}

// Register serves backend from opener.
func (r *Router) Register(backend string, opener types.Opener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[backend] = opener
}

// OpenSession opens a session on the engine registered for cfg.Backend.
func (r *Router) OpenSession(cfg types.Config) (types.Session, error) {
	if cfg.Backend == "" {
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, types.ErrBackendEmpty)
	}
	r.mu.RLock()
	opener, ok := r.openers[cfg.Backend]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", types.ErrConnection, types.ErrBackendUnknown, cfg.Backend)
	}
	return opener.OpenSession(cfg)
}
