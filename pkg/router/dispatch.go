package router

import (
	"github.com/relayhttp/relay/pkg/relay"
)

// Dispatcher is the router's dispatch middleware. It is a distinct concrete
// type (rather than a bare relay.HandlerFunc) so that Use and Mount can
// recognize a mounted router and clone its layers instead of nesting
// dispatch calls.
type Dispatcher struct {
	router *Router
}

// Middleware returns the dispatch handler for the router. Mount it on an
// application with app.Use(r.Middleware()).
func (r *Router) Middleware() relay.Handler {
	return &Dispatcher{router: r}
}

// Router returns the router the dispatcher was built from.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Serve matches the request against the router's stack and runs the
// handlers of every matching layer in registration order, each preceded by
// a frame that binds that layer's captures and params onto the context.
// When no route matches, control falls through to next so sibling
// middleware (and AllowedMethods) still observe the request.
func (d *Dispatcher) Serve(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
	path := d.router.opts.RouterPath
	if path == "" {
		path = ctx.RouterPath
	}
	if path == "" {
		path = ctx.Path
	}

	ctx.Router = d.router

	matched := d.router.Match(path, ctx.Method)
	for _, l := range matched.Path {
		ctx.Matched = append(ctx.Matched, l)
	}

	if !matched.Route {
		if next == nil {
			return nil, nil
		}
		return next()
	}

	// The last (most specific) matching route wins the matched-route slot.
	most := matched.PathAndMethod[len(matched.PathAndMethod)-1]
	ctx.MatchedRoute = most
	ctx.MatchedRouteName = most.name

	chain := make([]relay.Handler, 0, len(matched.PathAndMethod)*2)
	for _, layer := range matched.PathAndMethod {
		l := layer
		chain = append(chain, relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
			ctx.Captures = l.Captures(path)
			ctx.Params = l.Params(ctx.Captures, ctx.Params)
			ctx.RouterPath = l.path
			return next()
		}))
		chain = append(chain, l.stack...)
	}
	return relay.Compose(chain).Serve(ctx, next)
}
