// Package passagesession defines the contract between passage and the
// host application's session store, and manages the session-persisted
// identity record.
//
// The package does not persist anything itself: the host supplies a
// Store implementation (cookie-backed, database-backed, in-memory)
// and attaches it to each request, typically via Middleware.
package passagesession

import (
	"context"
	"net/http"

	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/http/httperror"
	"go.inout.gg/foundations/http/httpmiddleware"
)

const (
	// DefaultKey is the session key the identity record is stored
	// under.
	DefaultKey = "passage"

	// MessagesKey is the session key holding the accumulated
	// success/failure message list.
	MessagesKey = "messages"

	// ReturnToKey is the session key holding a URL captured before
	// authentication began. A successful dispatch configured with
	// SuccessReturnToOrRedirect consumes it.
	ReturnToKey = "returnTo"
)

// Store is a mutable session mapping reachable from a request.
//
// Get returns nil for absent keys. Implementations are only ever
// accessed from the request's own goroutine and need no internal
// locking on passage's account.
type Store interface {
	Get(key string) any
	Set(key string, value any)
	Delete(key string)
}

// Saver is an optional Store capability. Stores that buffer writes
// implement it so pending writes can be flushed before a redirect
// races the response out.
type Saver interface {
	Save(ctx context.Context) error
}

// Flasher is an optional Store capability used as the sink for
// single-read flash messages.
type Flasher interface {
	Flash(typ, message string)
}

type ctxKey struct{}

//nolint:gochecknoglobals
var kCtxKey = ctxKey{}

// WithStore returns a context carrying the session store.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, kCtxKey, store)
}

// FromContext returns the session store attached to the context, or
// nil when the request has no session support.
func FromContext(ctx context.Context) Store {
	if store, ok := ctx.Value(kCtxKey).(Store); ok {
		return store
	}

	return nil
}

// FromRequest returns the session store attached to the request, or
// nil when the request has no session support.
func FromRequest(r *http.Request) Store {
	return FromContext(r.Context())
}

// OpenFunc opens (or creates) the session store for a request.
type OpenFunc func(w http.ResponseWriter, r *http.Request) (Store, error)

// Middleware attaches the host's session store to every request
// passing through it. Place it before any passage middleware that
// needs session state.
func Middleware(open OpenFunc, errorHandler httperror.ErrorHandler) httpmiddleware.MiddlewareFunc {
	debug.Assert(open != nil, "open must be set")
	debug.Assert(errorHandler != nil, "errorHandler must be set")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, err := open(w, r)
			if err != nil {
				errorHandler.ServeHTTP(
					w,
					r,
					httperror.FromError(err, http.StatusInternalServerError),
				)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), store)))
		})
	}
}

// AppendMessage appends msg to the session message list.
func AppendMessage(store Store, msg string) {
	messages, _ := store.Get(MessagesKey).([]string)
	store.Set(MessagesKey, append(messages, msg))
}

// Messages returns the accumulated session message list.
func Messages(store Store) []string {
	messages, _ := store.Get(MessagesKey).([]string)
	return messages
}
