package passage

import (
	"cmp"
	"log/slog"
	"net/http"

	"go.inout.gg/foundations/debug"
)

// Flash is a flash-message value recorded through the session store's
// Flasher capability.
type Flash struct {
	Type    string
	Message string
}

// Result carries a dispatch outcome to a Callback.
//
// On success Identity and Info are set. On failure Identity is nil and
// Challenges/Statuses hold one entry per failed strategy, in chain
// order; a single-strategy chain yields at most one entry each.
type Result struct {
	Identity   any
	Info       any
	Challenges []any
	Statuses   []int
}

// Callback fully delegates outcome handling to the application. When
// set, the dispatcher performs no session login, redirect or response
// writing of its own: it invokes the callback with the outcome (result
// is nil when err is set) and stops.
type Callback func(w http.ResponseWriter, r *http.Request, err error, result *Result)

// Config is the configuration for one Authenticate middleware. It is
// read-only for the duration of a dispatch.
type Config struct {
	Logger *slog.Logger

	// DisableSession skips persisting the identity into the session
	// on success. The identity is still attached to the request
	// context.
	DisableSession bool

	// DisableAuthInfo skips transforming and attaching strategy info
	// on success.
	DisableAuthInfo bool

	// AssignProperty attaches the identity to the request context
	// under the given property name instead of logging it into the
	// session.
	AssignProperty string

	// SuccessRedirect redirects there after a successful
	// authentication.
	SuccessRedirect string

	// SuccessReturnToOrRedirect redirects to the URL captured in the
	// session before authentication began, consuming it, and falls
	// back to the configured URL. Takes precedence over
	// SuccessRedirect.
	SuccessReturnToOrRedirect string

	// FailureRedirect redirects there once every strategy has failed.
	FailureRedirect string

	// SuccessFlash and FailureFlash record a flash message through the
	// session store. Empty fields are derived from the
	// strategy-supplied info or challenge; the message is only
	// recorded when one resolves.
	SuccessFlash *Flash
	FailureFlash *Flash

	// SuccessMessage and FailureMessage append a message to the
	// session message list. An empty string derives the message from
	// the strategy-supplied info or challenge.
	SuccessMessage *string
	FailureMessage *string

	// FailWithError routes the terminal authentication failure to the
	// error handler, carrying the computed status, instead of writing
	// the status-text response body.
	FailWithError bool

	// Callback, when set, takes over all outcome handling.
	Callback Callback
}

// WithSuccessRedirect sets the URL redirected to on success.
func WithSuccessRedirect(url string) func(*Config) {
	return func(c *Config) { c.SuccessRedirect = url }
}

// WithSuccessReturnToOrRedirect redirects to the session's captured
// return-to URL on success, falling back to url.
func WithSuccessReturnToOrRedirect(url string) func(*Config) {
	return func(c *Config) { c.SuccessReturnToOrRedirect = url }
}

// WithFailureRedirect sets the URL redirected to once every strategy
// has failed.
func WithFailureRedirect(url string) func(*Config) {
	return func(c *Config) { c.FailureRedirect = url }
}

// WithAssignProperty attaches the identity under the given context
// property instead of logging it into the session.
func WithAssignProperty(property string) func(*Config) {
	return func(c *Config) { c.AssignProperty = property }
}

// WithoutSession disables persisting the identity into the session on
// success.
func WithoutSession() func(*Config) {
	return func(c *Config) { c.DisableSession = true }
}

// WithoutAuthInfo disables transforming and attaching strategy info on
// success.
func WithoutAuthInfo() func(*Config) {
	return func(c *Config) { c.DisableAuthInfo = true }
}

// WithSuccessFlash records the given flash message on success. Leave
// fields empty to derive them from the strategy-supplied info.
func WithSuccessFlash(flash Flash) func(*Config) {
	return func(c *Config) { c.SuccessFlash = &flash }
}

// WithFailureFlash records the given flash message once every strategy
// has failed. Leave fields empty to derive them from the first
// challenge.
func WithFailureFlash(flash Flash) func(*Config) {
	return func(c *Config) { c.FailureFlash = &flash }
}

// WithSuccessMessage appends msg to the session message list on
// success.
func WithSuccessMessage(msg string) func(*Config) {
	return func(c *Config) { c.SuccessMessage = &msg }
}

// WithDerivedSuccessMessage appends a message derived from the
// strategy-supplied info to the session message list on success.
func WithDerivedSuccessMessage() func(*Config) {
	var derived string
	return func(c *Config) { c.SuccessMessage = &derived }
}

// WithFailureMessage appends msg to the session message list once
// every strategy has failed.
func WithFailureMessage(msg string) func(*Config) {
	return func(c *Config) { c.FailureMessage = &msg }
}

// WithDerivedFailureMessage appends a message derived from the first
// challenge to the session message list once every strategy has
// failed.
func WithDerivedFailureMessage() func(*Config) {
	var derived string
	return func(c *Config) { c.FailureMessage = &derived }
}

// WithFailWithError routes the terminal authentication failure to the
// error handler instead of writing a response body.
func WithFailWithError() func(*Config) {
	return func(c *Config) { c.FailWithError = true }
}

// WithCallback delegates all outcome handling to cb.
func WithCallback(cb Callback) func(*Config) {
	return func(c *Config) { c.Callback = cb }
}

// NewConfig returns a new configuration for the Authenticate
// middleware.
func NewConfig(opts ...func(*Config)) *Config {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	config.Logger = cmp.Or(config.Logger, DefaultLogger)

	debug.Assert(config.Logger != nil, "Logger must be set")

	return &config
}
