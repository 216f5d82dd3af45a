package passagesession

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.inout.gg/foundations/debug"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("passage/session")

// ErrNoSession is returned by LogIn when the request carries no
// session store. Login sessions require session support: attach a
// store with Middleware or WithStore first.
var ErrNoSession = errors.New("passage/session: request has no session support")

// userField is the entry of the identity record holding the
// serialized identity. Sibling entries under the same record are left
// untouched by passage.
const userField = "user"

// SerializeFunc reduces an authenticated identity to its
// session-persisted form, typically a user ID.
type SerializeFunc func(r *http.Request, identity any) (any, error)

// Config is the configuration for the Manager.
type Config struct {
	Logger *slog.Logger

	// Key is the session key the identity record lives under.
	// (default: DefaultKey)
	Key string
}

// WithKey sets the session key the identity record lives under.
func WithKey(key string) func(*Config) {
	return func(c *Config) { c.Key = key }
}

// NewConfig returns a new configuration for the Manager.
func NewConfig(opts ...func(*Config)) *Config {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	config.Logger = cmp.Or(config.Logger, slog.Default())
	config.Key = cmp.Or(config.Key, DefaultKey)

	debug.Assert(config.Key != "", "Key must be set")

	return &config
}

// Manager serializes an authenticated identity into the session
// identity record on login and removes it on logout.
type Manager struct {
	serialize SerializeFunc
	config    *Config
}

// NewManager creates a new session Manager.
//
// If config is nil, the default config is used.
func NewManager(serialize SerializeFunc, config *Config) *Manager {
	if config == nil {
		config = NewConfig()
	}

	debug.Assert(serialize != nil, "serialize must be set")

	return &Manager{serialize: serialize, config: config}
}

// Key returns the session key the identity record is stored under.
func (m *Manager) Key() string { return m.config.Key }

// LogIn serializes identity and stores it in the request's session
// identity record, creating the record on demand.
func (m *Manager) LogIn(r *http.Request, identity any) error {
	store := FromRequest(r)
	if store == nil {
		return ErrNoSession
	}

	serialized, err := m.serialize(r, identity)
	if err != nil {
		return fmt.Errorf(
			"passage/session: failed to serialize identity: %w",
			err,
		)
	}

	d("logging identity in under session key %q", m.config.Key)

	record, _ := store.Get(m.config.Key).(map[string]any)
	if record == nil {
		record = make(map[string]any)
	}

	record[userField] = serialized
	store.Set(m.config.Key, record)

	return nil
}

// LogOut removes the logged-in identity from the session identity
// record. The record itself is kept: other subsystems may store
// sibling data under the same key.
//
// LogOut never fails and is a no-op when nothing is logged in.
func (m *Manager) LogOut(r *http.Request) {
	store := FromRequest(r)
	if store == nil {
		return
	}

	if record, ok := store.Get(m.config.Key).(map[string]any); ok {
		delete(record, userField)
		store.Set(m.config.Key, record)
	}
}

// User returns the serialized identity stored in the session identity
// record, or nil when no identity is logged in.
func (m *Manager) User(r *http.Request) any {
	store := FromRequest(r)
	if store == nil {
		return nil
	}

	if record, ok := store.Get(m.config.Key).(map[string]any); ok {
		return record[userField]
	}

	return nil
}
