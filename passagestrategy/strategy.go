// Package passagestrategy defines the contract between the passage
// dispatcher and pluggable authentication strategies.
package passagestrategy

import (
	"context"
	"net/http"
	"sync"
)

// Strategy implements a single authentication scheme.
//
// Authenticate inspects the request and reports its decision through
// exactly one of the Actions verbs. A verb may be called before
// Authenticate returns or later from another goroutine. Calling a
// second verb is a contract violation; every call after the first is
// ignored.
//
// Strategies are configured at construction and must be safe for
// concurrent use across requests.
type Strategy interface {
	Authenticate(a *Actions, r *http.Request)
}

// Func is an adapter that allows a plain function to be used as a
// Strategy.
type Func func(a *Actions, r *http.Request)

func (f Func) Authenticate(a *Actions, r *http.Request) { f(a, r) }

// Challenge describes why or how authentication failed. Strategies
// report a plain string instead when no type is needed; only string
// challenges appear in the WWW-Authenticate header.
type Challenge struct {
	Type    string
	Message string
}

// Kind discriminates Outcome variants.
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindFail
	KindRedirect
	KindPass
	KindError
)

// Outcome is the terminal result of one strategy invocation.
type Outcome struct {
	Kind Kind

	Identity any // KindSuccess
	Info     any // KindSuccess

	Challenge any // KindFail: string or Challenge
	Status    int // KindFail, KindRedirect

	URL string // KindRedirect

	Err error // KindError
}

// Actions binds the strategy action verbs to a single in-flight
// strategy invocation. The dispatcher creates one per attempt with
// NewActions; the zero value is not usable.
type Actions struct {
	once sync.Once
	ch   chan Outcome
}

// NewActions creates the action binding for one strategy invocation.
func NewActions() *Actions {
	return &Actions{ch: make(chan Outcome, 1)}
}

// Success reports an authenticated identity. info carries optional
// scheme-specific details made available to the application after the
// dispatch completes.
func (a *Actions) Success(identity, info any) {
	a.resolve(Outcome{Kind: KindSuccess, Identity: identity, Info: info})
}

// Fail reports that this strategy could not authenticate the request.
// The dispatcher records the challenge and status and advances to the
// next strategy in the chain.
//
// An int-typed challenge is reinterpreted as a bare status code with
// no challenge, overriding status.
func (a *Actions) Fail(challenge any, status int) {
	if s, ok := challenge.(int); ok {
		challenge, status = nil, s
	}

	a.resolve(Outcome{Kind: KindFail, Challenge: challenge, Status: status})
}

// Redirect responds to the request with a redirect to url. A zero
// status defaults to 302. No further strategy is attempted.
func (a *Actions) Redirect(url string, status int) {
	if status == 0 {
		status = http.StatusFound
	}

	a.resolve(Outcome{Kind: KindRedirect, URL: url, Status: status})
}

// Pass declines to make a decision: the surrounding pipeline continues
// and no further strategy in the chain is attempted.
func (a *Actions) Pass() {
	a.resolve(Outcome{Kind: KindPass})
}

// Error reports an internal strategy error, aborting the dispatch.
func (a *Actions) Error(err error) {
	a.resolve(Outcome{Kind: KindError, Err: err})
}

// Wait blocks until a verb delivers the outcome or ctx is done.
func (a *Actions) Wait(ctx context.Context) (Outcome, error) {
	select {
	case outcome := <-a.ch:
		return outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (a *Actions) resolve(outcome Outcome) {
	a.once.Do(func() { a.ch <- outcome })
}
