// Package passage dispatches request authentication across one or more
// pluggable strategies and converts the first decisive outcome into a
// middleware action: continue the pipeline, redirect, respond with an
// unauthorized status, or hand the result to an application callback.
//
// Strategies implement the passagestrategy.Strategy contract; the
// session-persisted identity is managed by passagesession.
package passage

import (
	"errors"
	"log/slog"
)

var (
	// ErrUnknownStrategy is reported when a named strategy is not
	// registered. It aborts the whole dispatch: a misconfigured chain
	// is never treated as a failed authentication attempt.
	ErrUnknownStrategy = errors.New("passage: unknown authentication strategy")

	// ErrAuthenticationFailed is the error routed to the error handler
	// when every strategy in the chain has failed and
	// Config.FailWithError is set.
	ErrAuthenticationFailed = errors.New("passage: authentication failed")

	// ErrFlashUnsupported is reported when a flash message is
	// configured but the request's session store does not implement
	// passagesession.Flasher.
	ErrFlashUnsupported = errors.New("passage: session store does not support flash messages")
)

// DefaultLogger is used by configurations that do not set a logger of
// their own.
//
//nolint:gochecknoglobals
var DefaultLogger = slog.Default()
