package inspect

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Inspector reads schemas and rows through an Opener. It holds no mutable
// state and is safe for concurrent use; every call uses its own session.
type Inspector struct {
	opener    types.Opener
	formatter Formatter
	logger    *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger used for session events.
func WithLogger(l *slog.Logger) Option {
	return func(in *Inspector) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithLocation sets the time zone used to render timestamps.
func WithLocation(loc *time.Location) Option {
	return func(in *Inspector) {
		in.formatter = NewFormatter(loc)
	}
}

// New creates an Inspector over opener.
func New(opener types.Opener, opts ...Option) *Inspector {
	in := &Inspector{
		opener:    opener,
		formatter: NewFormatter(nil),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// session is an open types.Session tagged for logging.
type session struct {
	types.Session
	log *slog.Logger
}

// open acquires a session for one operation. Errors are wrapped so that
// errors.Is(err, types.ErrConnection) holds for every open failure.
func (in *Inspector) open(cfg types.Config, op, table string) (*session, error) {
	log := in.logger.With("session", newSessionID(), "op", op, "backend", cfg.Backend)
	if table != "" {
		log = log.With("table", table)
	}

	s, err := in.opener.OpenSession(cfg)
	if err != nil {
		log.Warn("open session failed", "error", err)
		if errors.Is(err, types.ErrConnection) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	log.Debug("session opened", "path", cfg.Path)
	return &session{Session: s, log: log}, nil
}

// release closes s and folds a close failure into *errp when the operation
// itself succeeded.
func (s *session) release(errp *error) {
	if err := s.Close(); err != nil {
		s.log.Warn("close session failed", "error", err)
		if *errp == nil {
			*errp = fmt.Errorf("closing session: %w", err)
		}
		return
	}
	if *errp != nil {
		s.log.Debug("session closed after failure", "error", *errp)
		return
	}
	s.log.Debug("session closed")
}

// newSessionID returns a UUID v7 used to correlate log lines of one call.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
