package passage

import (
	"cmp"
	"log/slog"
	"net/http"

	"go.inout.gg/foundations/debug"

	"go.inout.gg/passage/passagesession"
)

// TransformAuthInfoFunc transforms strategy-supplied info before it is
// attached to the request context as auth info. The default transform
// returns info unchanged.
type TransformAuthInfoFunc func(r *http.Request, info any) (any, error)

// Authenticator ties together the strategy registry, the session
// manager and the info transformer used by the Authenticate
// middleware.
//
// Construct one during application startup and share it across
// handlers; it is read-only while serving requests.
type Authenticator struct {
	registry          *Registry
	sessions          *passagesession.Manager
	transformAuthInfo TransformAuthInfoFunc
	logger            *slog.Logger
}

// Option configures the Authenticator.
type Option func(*Authenticator)

// WithTransformAuthInfo sets the info transformer applied on
// successful authentication before info reaches the request context.
func WithTransformAuthInfo(fn TransformAuthInfoFunc) Option {
	return func(a *Authenticator) { a.transformAuthInfo = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) { a.logger = logger }
}

// New creates a new Authenticator.
func New(
	registry *Registry,
	sessions *passagesession.Manager,
	opts ...Option,
) *Authenticator {
	a := Authenticator{registry: registry, sessions: sessions}
	for _, opt := range opts {
		opt(&a)
	}

	a.logger = cmp.Or(a.logger, DefaultLogger)
	if a.transformAuthInfo == nil {
		a.transformAuthInfo = func(_ *http.Request, info any) (any, error) {
			return info, nil
		}
	}

	debug.Assert(a.registry != nil, "registry must be set")
	debug.Assert(a.sessions != nil, "sessions must be set")

	return &a
}

// LogIn establishes a login session for identity, serializing it into
// the request's session store. The Authenticate middleware calls it on
// success; handlers may call it directly, e.g. after sign-up.
func (a *Authenticator) LogIn(r *http.Request, identity any) error {
	return a.sessions.LogIn(r, identity)
}

// LogOut terminates the login session, if any. It never fails.
func (a *Authenticator) LogOut(r *http.Request) {
	a.sessions.LogOut(r)
}
