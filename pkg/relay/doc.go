// Package relay implements the transport-agnostic core of the Relay HTTP
// engine: middleware composition, the per-request context, and the
// request/response normalization layer.
//
// A Relay application is an ordered chain of handlers. Each handler receives
// the request context and a continuation, and may short-circuit, delegate
// downstream, or transform the downstream result:
//
//	app := relay.New()
//	app.UseFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
//	    start := time.Now()
//	    res, err := next()
//	    log.Printf("%s %s took %v", ctx.Method, ctx.Path, time.Since(start))
//	    return res, err
//	})
//	app.UseFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
//	    return relay.JSON(200, map[string]string{"hello": "world"}), nil
//	})
//
// Routing lives in pkg/router and is wired in as ordinary middleware. The
// HTTP binding lives in pkg/httpserver; the core never touches the wire.
//
// Handlers produce a *Response value (string, bytes, JSON value, stream, or
// WebSocket upgrade). Normalize converts it into a canonical response the
// transport can write verbatim, applying the HTTP no-body rules and
// Content-Length bookkeeping.
package relay
