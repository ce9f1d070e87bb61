package router

import (
	"net/http"
	"strings"

	"github.com/relayhttp/relay/internal/errors"
	"github.com/relayhttp/relay/pkg/relay"
)

// Options holds router-wide configuration. Use the With* functional
// options with New rather than constructing this directly.
type Options struct {
	// Prefix is prepended to every registered pattern. It may contain
	// named parameters.
	Prefix string

	// Sensitive and Strict are matching defaults inherited by layers.
	Sensitive bool
	Strict    bool

	// Methods is the set of methods the router implements, consulted by
	// AllowedMethods to distinguish 501 from 405.
	Methods []string

	// RouterPath, when set, is matched instead of the request path.
	RouterPath string
}

// Option mutates router Options.
type Option func(*Options)

// WithPrefix prepends a path prefix to every registered route.
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = strings.TrimSuffix(prefix, "/") }
}

// WithSensitive enables case-sensitive matching.
func WithSensitive() Option {
	return func(o *Options) { o.Sensitive = true }
}

// WithStrict disables the optional trailing slash.
func WithStrict() Option {
	return func(o *Options) { o.Strict = true }
}

// WithMethods overrides the implemented method set.
func WithMethods(methods ...string) Option {
	return func(o *Options) {
		o.Methods = make([]string, 0, len(methods))
		for _, m := range methods {
			o.Methods = append(o.Methods, strings.ToUpper(m))
		}
	}
}

// WithRouterPath pins the path the router matches against, overriding the
// request path. Useful for internal re-dispatch.
func WithRouterPath(path string) Option {
	return func(o *Options) { o.RouterPath = path }
}

// Router holds an ordered stack of layers and dispatches requests through
// the handlers of every layer that matches, in registration order.
//
// Registration is not safe for concurrent use with dispatch: build the
// router fully before serving traffic.
type Router struct {
	opts  Options
	stack []*Layer
}

// New creates an empty router.
func New(opts ...Option) *Router {
	o := Options{
		Methods: []string{
			http.MethodHead,
			http.MethodOptions,
			http.MethodGet,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Router{opts: o}
}

// Register adds a layer for the given methods and pattern. An empty
// methods slice registers a use-layer that matches every method. The
// created layer is returned so callers can read its final path or build
// URLs from it.
func (r *Router) Register(path string, methods []string, handlers []relay.Handler, opts LayerOptions) *Layer {
	opts.Sensitive = opts.Sensitive || r.opts.Sensitive
	opts.Strict = opts.Strict || r.opts.Strict
	layer := NewLayer(path, methods, handlers, opts)
	if r.opts.Prefix != "" {
		layer.SetPrefix(r.opts.Prefix)
	}
	r.stack = append(r.stack, layer)
	return layer
}

// Get registers handlers for GET (and implicitly HEAD) requests.
func (r *Router) Get(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodGet}, handlers, LayerOptions{})
	return r
}

// Head registers handlers for HEAD requests.
func (r *Router) Head(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodHead}, handlers, LayerOptions{})
	return r
}

// Options registers handlers for OPTIONS requests.
func (r *Router) Options(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodOptions}, handlers, LayerOptions{})
	return r
}

// Put registers handlers for PUT requests.
func (r *Router) Put(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodPut}, handlers, LayerOptions{})
	return r
}

// Patch registers handlers for PATCH requests.
func (r *Router) Patch(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodPatch}, handlers, LayerOptions{})
	return r
}

// Post registers handlers for POST requests.
func (r *Router) Post(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodPost}, handlers, LayerOptions{})
	return r
}

// Delete registers handlers for DELETE requests.
func (r *Router) Delete(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodDelete}, handlers, LayerOptions{})
	return r
}

// Trace registers handlers for TRACE requests.
func (r *Router) Trace(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodTrace}, handlers, LayerOptions{})
	return r
}

// Connect registers handlers for CONNECT requests.
func (r *Router) Connect(path string, handlers ...relay.Handler) *Router {
	r.Register(path, []string{http.MethodConnect}, handlers, LayerOptions{})
	return r
}

// All registers handlers for every method in the router's implemented set.
func (r *Router) All(path string, handlers ...relay.Handler) *Router {
	r.Register(path, append([]string(nil), r.opts.Methods...), handlers, LayerOptions{})
	return r
}

// Use registers middleware that runs for every request whose path falls
// under the router, regardless of method. Passing another router's
// Middleware() mounts that router: its layers are structurally cloned into
// this router's stack, so later mutations of the child are not observed.
func (r *Router) Use(middleware ...relay.Handler) *Router {
	return r.useWithPath("", middleware)
}

// Mount is Use scoped to a path prefix. The prefix may contain named
// parameters, which become params for the mounted handlers.
func (r *Router) Mount(path string, middleware ...relay.Handler) *Router {
	return r.useWithPath(path, middleware)
}

func (r *Router) useWithPath(path string, middleware []relay.Handler) *Router {
	hasPath := path != ""
	for i, m := range middleware {
		if m == nil {
			panic(errors.New("E101").WithDetailf("middleware %d mounted at %q is nil", i, path))
		}
		if d, ok := m.(*Dispatcher); ok {
			for _, l := range d.router.stack {
				cl := l.clone()
				if hasPath {
					cl.SetPrefix(path)
				}
				if r.opts.Prefix != "" {
					cl.SetPrefix(r.opts.Prefix)
				}
				r.stack = append(r.stack, cl)
			}
			continue
		}
		p := path
		if !hasPath {
			p = "([^/]*)"
		}
		r.Register(p, nil, []relay.Handler{m}, LayerOptions{
			PrefixMatch:    true,
			IgnoreCaptures: !hasPath && !strings.Contains(r.opts.Prefix, ":"),
		})
	}
	return r
}

// Prefix sets the router prefix and re-prefixes already registered layers.
// Prefer passing WithPrefix to New; calling Prefix after registration
// prepends to paths that may already carry an earlier prefix.
func (r *Router) Prefix(prefix string) *Router {
	prefix = strings.TrimSuffix(prefix, "/")
	r.opts.Prefix = prefix
	for _, l := range r.stack {
		l.SetPrefix(prefix)
	}
	return r
}

// Route returns the layer registered under name, or nil.
func (r *Router) Route(name string) *Layer {
	for _, l := range r.stack {
		if l.name != "" && l.name == name {
			return l
		}
	}
	return nil
}

// URL builds the path of the named route with params substituted.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	l := r.Route(name)
	if l == nil {
		return "", errors.New("E204").WithDetailf("no route named %q", name)
	}
	return l.URL(params), nil
}

// Redirect registers a route on source that responds with a redirect to
// destination. Either argument may be a route name instead of a path; names
// are resolved at registration time and an unknown name panics. A zero
// code defaults to 301.
func (r *Router) Redirect(source, destination string, code int) *Router {
	if !strings.HasPrefix(source, "/") {
		resolved, err := r.URL(source, nil)
		if err != nil {
			panic(err)
		}
		source = resolved
	}
	if !strings.HasPrefix(destination, "/") {
		resolved, err := r.URL(destination, nil)
		if err != nil {
			panic(err)
		}
		destination = resolved
	}
	if code == 0 {
		code = http.StatusMovedPermanently
	}
	return r.All(source, relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		return relay.Redirect(code, destination), nil
	}))
}

// MatchResult reports which layers a path and method matched.
type MatchResult struct {
	// Path holds every layer whose pattern matched the path.
	Path []*Layer

	// PathAndMethod holds the subset that also accepts the method
	// (use-layers accept every method).
	PathAndMethod []*Layer

	// Route is true when at least one matched layer is a real route,
	// i.e. carries an explicit method set.
	Route bool
}

// Match runs the stack against a path and method without dispatching.
func (r *Router) Match(path, method string) *MatchResult {
	res := &MatchResult{}
	for _, layer := range r.stack {
		if !layer.Match(path) {
			continue
		}
		res.Path = append(res.Path, layer)
		if len(layer.methods) == 0 || containsMethod(layer.methods, method) {
			res.PathAndMethod = append(res.PathAndMethod, layer)
			if len(layer.methods) > 0 {
				res.Route = true
			}
		}
	}
	return res
}
