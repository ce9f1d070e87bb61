package relay

// Next is the continuation passed to a handler. Calling it runs the rest of
// the chain and yields the downstream response. A handler may call it at
// most once per invocation.
type Next func() (*Response, error)

// Handler processes one request. Implementations may short-circuit by
// returning without calling next, delegate by returning next()'s result, or
// transform the downstream response before returning it. A nil response with
// a nil error means the handler produced nothing.
type Handler interface {
	Serve(ctx *Context, next Next) (*Response, error)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx *Context, next Next) (*Response, error)

// Serve implements Handler.
func (f HandlerFunc) Serve(ctx *Context, next Next) (*Response, error) {
	return f(ctx, next)
}
