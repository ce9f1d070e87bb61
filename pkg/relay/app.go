package relay

import (
	"log/slog"
	"net/http"

	"github.com/relayhttp/relay/internal/errors"
)

// App is a Relay application: an ordered middleware chain plus the
// long-lived application context every request context extends.
//
// Wiring (Use, SetContext) happens during setup, before traffic starts.
// Mutating an App while requests are dispatched against it is a precondition
// violation, not a supported operation.
type App struct {
	middleware []Handler
	base       map[string]any
	logger     *slog.Logger
}

// New creates an empty application.
func New() *App {
	return &App{
		base:   make(map[string]any),
		logger: slog.Default().With("component", "relay"),
	}
}

// Use appends middleware to the application chain. It panics if a handler is
// nil: registration-time failures are fatal by design.
func (a *App) Use(handlers ...Handler) *App {
	for i, h := range handlers {
		if h == nil {
			panic(errors.New("E101").WithDetailf("application middleware %d is nil", len(a.middleware)+i))
		}
	}
	a.middleware = append(a.middleware, handlers...)
	return a
}

// UseFunc appends a function handler to the application chain.
func (a *App) UseFunc(fns ...func(ctx *Context, next Next) (*Response, error)) *App {
	for i, fn := range fns {
		if fn == nil {
			panic(errors.New("E101").WithDetailf("application middleware %d is nil", len(a.middleware)+i))
		}
		a.middleware = append(a.middleware, HandlerFunc(fn))
	}
	return a
}

// SetContext stores an application-level context value. Every request
// context reads through to these values; they must be set during wiring and
// treated as immutable once traffic starts.
func (a *App) SetContext(key string, value any) *App {
	a.base[key] = value
	return a
}

// SetLogger replaces the application logger.
func (a *App) SetLogger(logger *slog.Logger) *App {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// NewContext builds a fresh request context extending the application base.
func (a *App) NewContext(req *Request) *Context {
	return &Context{
		app:     a,
		Request: req,
		Method:  req.Method,
		Path:    req.URL.EscapedPath(),
		URL:     req.URL,
		Params:  make(map[string]string),
	}
}

// Handler returns the composed application chain. The chain's terminal
// continuation answers 404 "Not found", so an application with no matching
// route (or no routes at all) responds 404.
func (a *App) Handler() Handler {
	chain := Compose(a.middleware)
	return HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
		if next == nil {
			next = defaultNotFound
		}
		return chain.Serve(ctx, next)
	})
}

// Handle runs one request through the application chain and normalizes the
// result. Handler errors propagate to the caller; translating them into
// responses is the transport's (or an error-coercion middleware's) job.
func (a *App) Handle(req *Request) (*CanonicalResponse, error) {
	ctx := a.NewContext(req)
	res, err := a.Handler().Serve(ctx, nil)
	if err != nil {
		return nil, err
	}
	return Normalize(req, res), nil
}

// defaultNotFound is the terminal continuation of the application chain.
func defaultNotFound() (*Response, error) {
	return Text(http.StatusNotFound, "Not found"), nil
}
