package relay

import (
	"net/url"
)

// Route describes a matched route entry. It is implemented by
// router.Layer; the indirection keeps the core free of a routing
// dependency while still letting allowed-method computation read the
// method sets off ctx.Matched.
type Route interface {
	// RouteName returns the route's registered name, or "".
	RouteName() string

	// RouteMethods returns the route's method set. Empty means
	// method-agnostic middleware.
	RouteMethods() []string

	// RoutePath returns the route's path pattern.
	RoutePath() string
}

// Context is the per-request, mutable state threaded through a handler
// chain. A fresh Context is built for every request by extending the
// application's base values, so two concurrent requests never observe each
// other's mutations.
type Context struct {
	app *App

	// Request is the canonical immutable inbound message.
	Request *Request

	// Method is the request verb, copied here for convenience.
	Method string

	// Path is the effective path used for route matching. Routers may
	// rewrite it while dispatching; Request.URL keeps the original.
	Path string

	// URL is the original absolute request URL.
	URL *url.URL

	// Params holds decoded named path parameters, merged across nested
	// routers.
	Params map[string]string

	// Captures holds the raw (undecoded) capture groups of the most
	// recently bound layer.
	Captures []string

	// RouterPath is the matching path stamped by an enclosing router for
	// its nested routers.
	RouterPath string

	// Matched accumulates every layer that matched the path, in
	// ancestor-then-descendant registration order.
	Matched []Route

	// MatchedRoute is the most specific layer matched by path and method.
	MatchedRoute Route

	// MatchedRouteName is MatchedRoute's name, or "".
	MatchedRouteName string

	// Router is the dispatcher that last routed this request, when routing
	// ran. Typed any to keep the core free of a routing dependency; assert
	// to *router.Router to use it.
	Router any

	values map[string]any
}

// Get returns a request-scoped value, falling back to the application-level
// base context. Returns nil when the key is unset at both levels.
func (c *Context) Get(key string) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	if c.app != nil {
		if v, ok := c.app.base[key]; ok {
			return v
		}
	}
	return nil
}

// Set stores a request-scoped value. It never touches the application base,
// so concurrent requests stay isolated.
func (c *Context) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// App returns the application this context belongs to.
func (c *Context) App() *App {
	return c.app
}
