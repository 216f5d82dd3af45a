// Package session implements the session-restoring strategy: instead
// of verifying credentials of its own, it recovers the identity a
// previous dispatch logged into the session.
//
// Chain it in front of credential-bearing strategies so an already
// established session short-circuits them.
package session

import (
	"cmp"
	"log/slog"
	"net/http"

	"go.inout.gg/foundations/debug"

	"go.inout.gg/passage/passagesession"
	"go.inout.gg/passage/passagestrategy"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("passage/strategy/session")

// DeserializeFunc restores the full identity from its
// session-persisted form.
//
// Returning a nil identity with a nil error marks the persisted form
// as stale: the entry is removed from the session and the request
// proceeds unauthenticated.
type DeserializeFunc func(r *http.Request, serialized any) (any, error)

// Config is the configuration for the Strategy.
type Config struct {
	Logger *slog.Logger
}

// NewConfig returns a new configuration for the Strategy.
func NewConfig(opts ...func(*Config)) *Config {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	config.Logger = cmp.Or(config.Logger, slog.Default())

	return &config
}

var _ passagestrategy.Strategy = (*Strategy)(nil)

// Strategy restores a previously logged-in identity from the session.
type Strategy struct {
	sessions    *passagesession.Manager
	deserialize DeserializeFunc
	config      *Config
}

// New creates a session-restoring strategy backed by the same manager
// the dispatcher logs identities in with.
//
// If config is nil, the default config is used.
func New(
	sessions *passagesession.Manager,
	deserialize DeserializeFunc,
	config *Config,
) *Strategy {
	if config == nil {
		config = NewConfig()
	}

	debug.Assert(sessions != nil, "sessions must be set")
	debug.Assert(deserialize != nil, "deserialize must be set")

	return &Strategy{
		sessions:    sessions,
		deserialize: deserialize,
		config:      config,
	}
}

// Authenticate reports Success with the restored identity when the
// session holds one, and Pass otherwise.
func (s *Strategy) Authenticate(a *passagestrategy.Actions, r *http.Request) {
	serialized := s.sessions.User(r)
	if serialized == nil {
		a.Pass()
		return
	}

	identity, err := s.deserialize(r, serialized)
	if err != nil {
		a.Error(err)
		return
	}

	if identity == nil {
		// The persisted form no longer maps to an identity; drop the
		// stale entry so later requests skip the lookup.
		d("removing stale session identity")
		s.sessions.LogOut(r)
		a.Pass()

		return
	}

	a.Success(identity, nil)
}
