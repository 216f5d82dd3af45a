package passagestrategy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go.inout.gg/passage/passagestrategy"
)

func wait(t *testing.T, a *passagestrategy.Actions) passagestrategy.Outcome {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	outcome, err := a.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}

	return outcome
}

func TestActionsVerbs(t *testing.T) {
	t.Parallel()

	t.Run("Success delivers identity and info", func(t *testing.T) {
		t.Parallel()

		a := passagestrategy.NewActions()
		a.Success("u1", "greetings")

		outcome := wait(t, a)
		assert.Equal(t, passagestrategy.KindSuccess, outcome.Kind)
		assert.Equal(t, "u1", outcome.Identity)
		assert.Equal(t, "greetings", outcome.Info)
	})

	t.Run("Fail records challenge and status", func(t *testing.T) {
		t.Parallel()

		a := passagestrategy.NewActions()
		a.Fail("Basic realm=x", http.StatusUnauthorized)

		outcome := wait(t, a)
		assert.Equal(t, passagestrategy.KindFail, outcome.Kind)
		assert.Equal(t, "Basic realm=x", outcome.Challenge)
		assert.Equal(t, http.StatusUnauthorized, outcome.Status)
	})

	t.Run("Fail with numeric-only argument is a bare status", func(t *testing.T) {
		t.Parallel()

		a := passagestrategy.NewActions()
		a.Fail(http.StatusUnauthorized, 0)

		outcome := wait(t, a)
		assert.Equal(t, passagestrategy.KindFail, outcome.Kind)
		assert.Nil(t, outcome.Challenge)
		assert.Equal(t, http.StatusUnauthorized, outcome.Status)
	})

	t.Run("Fail reinterprets an int challenge over a given status", func(t *testing.T) {
		t.Parallel()

		a := passagestrategy.NewActions()
		a.Fail(http.StatusForbidden, http.StatusUnauthorized)

		outcome := wait(t, a)
		assert.Nil(t, outcome.Challenge)
		assert.Equal(t, http.StatusForbidden, outcome.Status)
	})

	t.Run("Redirect defaults to 302", func(t *testing.T) {
		t.Parallel()

		a := passagestrategy.NewActions()
		a.Redirect("/login", 0)

		outcome := wait(t, a)
		assert.Equal(t, passagestrategy.KindRedirect, outcome.Kind)
		assert.Equal(t, "/login", outcome.URL)
		assert.Equal(t, http.StatusFound, outcome.Status)
	})

	t.Run("Redirect keeps an explicit status", func(t *testing.T) {
		t.Parallel()

		a := passagestrategy.NewActions()
		a.Redirect("/login", http.StatusSeeOther)

		outcome := wait(t, a)
		assert.Equal(t, http.StatusSeeOther, outcome.Status)
	})

	t.Run("Pass delivers no data", func(t *testing.T) {
		t.Parallel()

		a := passagestrategy.NewActions()
		a.Pass()

		outcome := wait(t, a)
		assert.Equal(t, passagestrategy.KindPass, outcome.Kind)
	})

	t.Run("Error carries the cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("identity provider unreachable")

		a := passagestrategy.NewActions()
		a.Error(cause)

		outcome := wait(t, a)
		assert.Equal(t, passagestrategy.KindError, outcome.Kind)
		assert.Equal(t, cause, outcome.Err)
	})
}

func TestActionsSingleDelivery(t *testing.T) {
	t.Parallel()

	a := passagestrategy.NewActions()
	a.Success("u1", nil)
	a.Fail("late", http.StatusUnauthorized)
	a.Pass()

	outcome := wait(t, a)
	assert.Equal(t, passagestrategy.KindSuccess, outcome.Kind)
	assert.Equal(t, "u1", outcome.Identity)
}

func TestActionsWaitCancellation(t *testing.T) {
	t.Parallel()

	a := passagestrategy.NewActions()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestActionsAsyncResolution(t *testing.T) {
	t.Parallel()

	a := passagestrategy.NewActions()

	go func() {
		time.Sleep(5 * time.Millisecond)
		a.Success("u1", nil)
	}()

	outcome := wait(t, a)
	assert.Equal(t, passagestrategy.KindSuccess, outcome.Kind)
}

func TestFuncAdapter(t *testing.T) {
	t.Parallel()

	strategy := passagestrategy.Func(func(a *passagestrategy.Actions, _ *http.Request) {
		a.Pass()
	})

	a := passagestrategy.NewActions()
	strategy.Authenticate(a, httptest.NewRequest(http.MethodGet, "/", nil))

	outcome := wait(t, a)
	assert.Equal(t, passagestrategy.KindPass, outcome.Kind)
}
