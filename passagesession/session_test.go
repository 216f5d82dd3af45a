package passagesession_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.inout.gg/passage/internal/sessiontest"
	"go.inout.gg/passage/passagesession"
)

type errorHandler struct {
	errs []error
}

func (h *errorHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request, err error) {
	h.errs = append(h.errs, err)
	w.WriteHeader(http.StatusInternalServerError)
}

func TestStoreContext(t *testing.T) {
	t.Parallel()

	store := sessiontest.NewStore()

	ctx := passagesession.WithStore(context.Background(), store)
	assert.Equal(t, passagesession.Store(store), passagesession.FromContext(ctx))

	assert.Nil(t, passagesession.FromContext(context.Background()))
	assert.Nil(t, passagesession.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("attaches the store to the request", func(t *testing.T) {
		t.Parallel()

		store := sessiontest.NewStore()
		open := func(http.ResponseWriter, *http.Request) (passagesession.Store, error) {
			return store, nil
		}

		var got passagesession.Store

		eh := &errorHandler{}
		handler := passagesession.Middleware(open, eh)(
			http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = passagesession.FromRequest(r)
			}),
		)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, passagesession.Store(store), got)
		assert.Empty(t, eh.errs)
	})

	t.Run("routes open failures to the error handler", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("session backend down")
		open := func(http.ResponseWriter, *http.Request) (passagesession.Store, error) {
			return nil, cause
		}

		eh := &errorHandler{}
		nextCalled := false
		handler := passagesession.Middleware(open, eh)(
			http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				nextCalled = true
			}),
		)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, nextCalled)

		if assert.Len(t, eh.errs, 1) {
			assert.ErrorIs(t, eh.errs[0], cause)
		}
	})
}

func TestMessages(t *testing.T) {
	t.Parallel()

	store := sessiontest.NewStore()

	assert.Empty(t, passagesession.Messages(store))

	passagesession.AppendMessage(store, "welcome back")
	passagesession.AppendMessage(store, "profile incomplete")

	assert.Equal(
		t,
		[]string{"welcome back", "profile incomplete"},
		passagesession.Messages(store),
	)
}
