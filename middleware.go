package passage

import (
	"cmp"
	"fmt"
	"io"
	"net/http"

	"go.inout.gg/foundations/debug"
	"go.inout.gg/foundations/http/httperror"
	"go.inout.gg/foundations/http/httpmiddleware"

	"go.inout.gg/passage/passagesession"
	"go.inout.gg/passage/passagestrategy"
)

//nolint:gochecknoglobals
var d = debug.Debuglog("passage")

// StrategyRef identifies one strategy to try: either a name resolved
// through the Registry or an already configured instance.
type StrategyRef struct {
	name     string
	strategy passagestrategy.Strategy
}

// Named references a strategy registered in the Registry.
func Named(name string) StrategyRef {
	return StrategyRef{name: name}
}

// Instance references an already configured strategy instance,
// bypassing the Registry.
func Instance(strategy passagestrategy.Strategy) StrategyRef {
	return StrategyRef{strategy: strategy}
}

func (ref StrategyRef) resolve(registry *Registry) (passagestrategy.Strategy, error) {
	if ref.strategy != nil {
		return ref.strategy, nil
	}

	if strategy, ok := registry.Lookup(ref.name); ok {
		return strategy, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, ref.name)
}

// Authenticate returns a middleware that drives the given strategies,
// in order, against each request.
//
// A strategy that fails advances the chain; the first strategy to
// succeed, redirect, pass or error resolves the whole dispatch and no
// further strategy is attempted. Once every strategy has failed, the
// response is shaped by config: a redirect, flash/message side
// effects, or a status-text body defaulting to 401 with the string
// challenges joined into the WWW-Authenticate header.
//
// Failure priority follows chain order: the first strategy listed
// drives the default failure presentation regardless of how slowly its
// asynchronous work completed.
//
// If config.Callback is set, outcome handling is fully delegated to
// it. If config is nil, the default config is used.
func (a *Authenticator) Authenticate(
	refs []StrategyRef,
	errorHandler httperror.ErrorHandler,
	config *Config,
) httpmiddleware.MiddlewareFunc {
	debug.Assert(errorHandler != nil, "errorHandler must be set")

	if config == nil {
		config = NewConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dsp := dispatch{
				auth:         a,
				config:       config,
				errorHandler: errorHandler,
				next:         next,
			}
			dsp.run(w, r, refs)
		})
	}
}

// failure is one recorded strategy failure, in chain order.
type failure struct {
	challenge any
	status    int
}

// dispatch is the state of one in-flight chain execution. It is
// private to a single request and needs no locking.
type dispatch struct {
	auth         *Authenticator
	config       *Config
	errorHandler httperror.ErrorHandler
	next         http.Handler
	failures     []failure
}

func (dsp *dispatch) run(w http.ResponseWriter, r *http.Request, refs []StrategyRef) {
	for _, ref := range refs {
		strategy, err := ref.resolve(dsp.auth.registry)
		if err != nil {
			// A misconfigured chain, not a failed attempt: fatal and
			// never retried.
			dsp.fatal(w, r, err)
			return
		}

		actions := passagestrategy.NewActions()
		strategy.Authenticate(actions, r)

		outcome, err := actions.Wait(r.Context())
		if err != nil {
			// The request went away mid-chain; abandon the dispatch
			// without writing a response.
			d("dispatch abandoned: %v", err)
			return
		}

		switch outcome.Kind {
		case passagestrategy.KindFail:
			dsp.failures = append(dsp.failures, failure{
				challenge: outcome.Challenge,
				status:    outcome.Status,
			})

		case passagestrategy.KindSuccess:
			dsp.success(w, r, outcome.Identity, outcome.Info)
			return

		case passagestrategy.KindRedirect:
			w.Header().Set("Location", outcome.URL)
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(outcome.Status)

			return

		case passagestrategy.KindPass:
			dsp.next.ServeHTTP(w, r)
			return

		case passagestrategy.KindError:
			if cb := dsp.config.Callback; cb != nil {
				cb(w, r, outcome.Err, nil)
				return
			}

			dsp.fatal(w, r, outcome.Err)

			return

		default:
			dsp.fatal(w, r, fmt.Errorf(
				"passage: strategy reported an invalid outcome (%d)",
				outcome.Kind,
			))

			return
		}
	}

	dsp.allFailed(w, r)
}

// success runs the success procedure: flash/message side effects,
// context attachment, session login, info transformation and the
// configured completion (redirect or continue).
func (dsp *dispatch) success(w http.ResponseWriter, r *http.Request, identity, info any) {
	if cb := dsp.config.Callback; cb != nil {
		cb(w, r, nil, &Result{Identity: identity, Info: info})
		return
	}

	store := passagesession.FromRequest(r)

	if dsp.config.SuccessFlash != nil {
		if !dsp.recordFlash(w, r, store, dsp.config.SuccessFlash, info, "success") {
			return
		}
	}

	if dsp.config.SuccessMessage != nil && store != nil {
		if msg := resolveMessage(*dsp.config.SuccessMessage, info); msg != "" {
			passagesession.AppendMessage(store, msg)
		}
	}

	if dsp.config.AssignProperty != "" {
		// Assigning a property bypasses session login and the info
		// transform entirely: the identity is attached and the
		// pipeline continues right away.
		ctx := withIdentity(r.Context(), dsp.config.AssignProperty, identity)
		dsp.next.ServeHTTP(w, r.WithContext(ctx))

		return
	}

	ctx := withIdentity(r.Context(), DefaultProperty, identity)

	if !dsp.config.DisableSession {
		if err := dsp.auth.sessions.LogIn(r, identity); err != nil {
			dsp.fatal(w, r, err)
			return
		}
	}

	if !dsp.config.DisableAuthInfo {
		transformed, err := dsp.auth.transformAuthInfo(r, info)
		if err != nil {
			dsp.fatal(w, r, err)
			return
		}

		ctx = withAuthInfo(ctx, transformed)
	}

	if dsp.config.SuccessReturnToOrRedirect != "" {
		url := dsp.config.SuccessReturnToOrRedirect

		if store != nil {
			if returnTo, ok := store.Get(passagesession.ReturnToKey).(string); ok && returnTo != "" {
				url = returnTo

				store.Delete(passagesession.ReturnToKey)
			}
		}

		dsp.redirect(w, r, store, url)

		return
	}

	if dsp.config.SuccessRedirect != "" {
		dsp.redirect(w, r, store, dsp.config.SuccessRedirect)
		return
	}

	dsp.next.ServeHTTP(w, r.WithContext(ctx))
}

// allFailed runs the all-failed procedure once the chain is exhausted.
// The first failure recorded drives the flash/message presentation;
// the response status is the first non-zero status any strategy
// reported, 401 otherwise.
func (dsp *dispatch) allFailed(w http.ResponseWriter, r *http.Request) {
	if cb := dsp.config.Callback; cb != nil {
		result := Result{
			Challenges: make([]any, 0, len(dsp.failures)),
			Statuses:   make([]int, 0, len(dsp.failures)),
		}
		for _, f := range dsp.failures {
			result.Challenges = append(result.Challenges, f.challenge)
			result.Statuses = append(result.Statuses, f.status)
		}

		cb(w, r, nil, &result)

		return
	}

	store := passagesession.FromRequest(r)

	var first failure
	if len(dsp.failures) > 0 {
		first = dsp.failures[0]
	}

	if dsp.config.FailureFlash != nil {
		if !dsp.recordFlash(w, r, store, dsp.config.FailureFlash, first.challenge, "error") {
			return
		}
	}

	if dsp.config.FailureMessage != nil && store != nil {
		if msg := resolveMessage(*dsp.config.FailureMessage, first.challenge); msg != "" {
			passagesession.AppendMessage(store, msg)
		}
	}

	if dsp.config.FailureRedirect != "" {
		dsp.redirect(w, r, store, dsp.config.FailureRedirect)
		return
	}

	// Only string challenges feed the authenticate header; structured
	// challenges still contribute their status to the response code.
	var challenges []string

	status := 0

	for _, f := range dsp.failures {
		if status == 0 {
			status = f.status
		}

		if challenge, ok := f.challenge.(string); ok {
			challenges = append(challenges, challenge)
		}
	}

	status = cmp.Or(status, http.StatusUnauthorized)

	if status == http.StatusUnauthorized {
		for _, challenge := range challenges {
			w.Header().Add("WWW-Authenticate", challenge)
		}
	}

	if dsp.config.FailWithError {
		dsp.errorHandler.ServeHTTP(
			w,
			r,
			httperror.FromError(
				ErrAuthenticationFailed,
				status,
				http.StatusText(status),
			),
		)

		return
	}

	w.WriteHeader(status)
	_, _ = io.WriteString(w, http.StatusText(status))
}

// recordFlash records the resolved flash message through the store's
// Flasher capability. It reports false when the dispatch must stop
// because the store cannot record a resolved message.
func (dsp *dispatch) recordFlash(
	w http.ResponseWriter,
	r *http.Request,
	store passagesession.Store,
	configured *Flash,
	source any,
	defaultType string,
) bool {
	flash, ok := resolveFlash(configured, source, defaultType)
	if !ok {
		return true
	}

	flasher, ok := store.(passagesession.Flasher)
	if !ok {
		dsp.fatal(w, r, ErrFlashUnsupported)
		return false
	}

	flasher.Flash(flash.Type, flash.Message)

	return true
}

// redirect sends a 302 to url, flushing buffered session writes first
// so they are not lost to a racing response.
func (dsp *dispatch) redirect(
	w http.ResponseWriter,
	r *http.Request,
	store passagesession.Store,
	url string,
) {
	if saver, ok := store.(passagesession.Saver); ok {
		if err := saver.Save(r.Context()); err != nil {
			dsp.fatal(w, r, fmt.Errorf(
				"passage: failed to save session before redirect: %w",
				err,
			))

			return
		}
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func (dsp *dispatch) fatal(w http.ResponseWriter, r *http.Request, err error) {
	dsp.errorHandler.ServeHTTP(
		w,
		r,
		httperror.FromError(err, http.StatusInternalServerError),
	)
}
