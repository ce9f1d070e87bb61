package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/relayhttp/relay/internal/errors"
	"github.com/relayhttp/relay/pkg/relay"
	"github.com/relayhttp/relay/pkg/routepath"
)

// LayerOptions configures a registered route entry.
type LayerOptions struct {
	// Name registers the layer under a name for reverse routing.
	Name string

	// Sensitive enables case-sensitive matching.
	Sensitive bool

	// Strict disallows an optional trailing slash.
	Strict bool

	// PrefixMatch makes the pattern match any sub-path from the mount
	// point onward (use-layers). Route layers match the whole path.
	PrefixMatch bool

	// IgnoreCaptures discards capture groups so they never pollute params.
	IgnoreCaptures bool
}

// Layer is one registered route entry: a path pattern, its compiled
// matcher, the accepted method set, and the ordered handler stack.
// Layers are immutable after registration except for SetPrefix, which is
// part of mounting.
type Layer struct {
	path    string
	name    string
	methods []string
	stack   []relay.Handler
	matcher *routepath.Matcher
	opts    LayerOptions
}

// NewLayer creates a route entry. It panics if any handler is nil or the
// pattern does not compile: both are wiring bugs surfaced at registration
// time, not request time.
//
// Registering GET implicitly also registers HEAD.
func NewLayer(path string, methods []string, handlers []relay.Handler, opts LayerOptions) *Layer {
	for i, h := range handlers {
		if h == nil {
			panic(errors.New("E101").WithDetailf(
				"handler %d registered for %s %q is nil", i, methodsLabel(methods), path))
		}
	}

	ms := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		ms = append(ms, strings.ToUpper(m))
	}
	if containsMethod(ms, http.MethodGet) && !containsMethod(ms, http.MethodHead) {
		ms = append([]string{http.MethodHead}, ms...)
	}

	l := &Layer{
		path:    path,
		name:    opts.Name,
		methods: ms,
		stack:   append([]relay.Handler(nil), handlers...),
		opts:    opts,
	}
	l.compile()
	return l
}

func (l *Layer) compile() {
	m, err := routepath.Compile(l.path, routepath.Options{
		Sensitive: l.opts.Sensitive,
		Strict:    l.opts.Strict,
		End:       !l.opts.PrefixMatch,
	})
	if err != nil {
		panic(errors.New("E203").WithDetailf("pattern %q: %v", l.path, err))
	}
	l.matcher = m
}

// Match tests the compiled matcher against a path.
func (l *Layer) Match(path string) bool {
	return l.matcher.Match(path)
}

// Captures returns the raw (undecoded) capture groups for a matching path,
// or nothing when IgnoreCaptures is set.
func (l *Layer) Captures(path string) []string {
	if l.opts.IgnoreCaptures {
		return nil
	}
	caps, ok := l.matcher.Captures(path)
	if !ok {
		return nil
	}
	return caps
}

// Params zips the pattern's parameter names with the captures and merges
// them into existing, which is returned. Captures are percent-decoded; a
// capture that fails to decode is kept verbatim rather than failing the
// request.
func (l *Layer) Params(captures []string, existing map[string]string) map[string]string {
	if existing == nil {
		existing = make(map[string]string)
	}
	keys := l.matcher.Keys()
	for i, c := range captures {
		if i >= len(keys) || c == "" {
			continue
		}
		decoded, err := url.PathUnescape(c)
		if err != nil {
			decoded = c
		}
		existing[keys[i].Name] = decoded
	}
	return existing
}

// SetPrefix prepends a mount prefix to the pattern and recompiles the
// matcher. A bare "/" path collapses to the prefix itself (unless strict),
// so mounting a root route under /api yields /api, not /api/. The prefix
// may contain named parameters; they are captured like any other.
func (l *Layer) SetPrefix(prefix string) *Layer {
	if l.path == "/" && !l.opts.Strict {
		l.path = prefix
	} else {
		l.path = prefix + l.path
	}
	l.compile()
	return l
}

// URL substitutes params into the layer's pattern for reverse routing.
func (l *Layer) URL(params map[string]string) string {
	return routepath.BuildPath(l.path, params)
}

// clone shallow-copies the layer for mounting. The handler stack is shared
// (handlers are immutable); SetPrefix on the clone recompiles only the
// clone's matcher.
func (l *Layer) clone() *Layer {
	c := *l
	c.methods = append([]string(nil), l.methods...)
	return &c
}

// RouteName implements relay.Route.
func (l *Layer) RouteName() string {
	return l.name
}

// RouteMethods implements relay.Route.
func (l *Layer) RouteMethods() []string {
	return l.methods
}

// RoutePath implements relay.Route.
func (l *Layer) RoutePath() string {
	return l.path
}

func containsMethod(methods []string, m string) bool {
	for _, x := range methods {
		if x == m {
			return true
		}
	}
	return false
}

func methodsLabel(methods []string) string {
	if len(methods) == 0 {
		return "USE"
	}
	return strings.Join(methods, ",")
}
