package router

import (
	"net/http"
	"strings"

	"github.com/relayhttp/relay/internal/errors"
	"github.com/relayhttp/relay/pkg/relay"
)

// Condition is the error produced by AllowedMethods in Throw mode. It
// carries the HTTP status (501 or 405) and the union of methods the
// matched routes accept, so an error-handling layer can set the Allow
// header itself. Unwrap yields the registry error (E201 or E202).
type Condition struct {
	Status  int
	Allowed []string
	err     *errors.RelayError
}

func newCondition(status int, allowed []string) *Condition {
	code := "E201"
	if status == http.StatusMethodNotAllowed {
		code = "E202"
	}
	return &Condition{Status: status, Allowed: allowed, err: errors.New(code)}
}

func (c *Condition) Error() string {
	if c.err != nil {
		return c.err.Error()
	}
	return http.StatusText(c.Status)
}

func (c *Condition) Unwrap() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

// StatusCode implements relay.StatusCoder.
func (c *Condition) StatusCode() int {
	return c.Status
}

// AllowedOptions configures AllowedMethods.
type AllowedOptions struct {
	// Throw reports method mismatches as errors instead of responses.
	Throw bool

	// NotImplemented and MethodNotAllowed, when set with Throw, build the
	// error for their case. They receive the allowed-method union.
	NotImplemented   func(allowed []string) error
	MethodNotAllowed func(allowed []string) error
}

// AllowedMethods returns middleware that answers requests no route
// handled, based on what the routes that matched by path alone accept:
//
//   - a method outside the router's implemented set gets 501
//   - OPTIONS gets 200 with the Allow header
//   - an implemented method no matched route accepts gets 405 with Allow
//
// It only acts when downstream produced nothing or a 404, so real routes
// and upstream middleware keep precedence. Mount it after Middleware.
//
// In Throw mode the 501 and 405 cases surface as *Condition errors (or
// whatever the custom factories build); no Allow header is set, since the
// caller decides how to render the condition.
func (r *Router) AllowedMethods(opts AllowedOptions) relay.Handler {
	implemented := append([]string(nil), r.opts.Methods...)
	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		var res *relay.Response
		var err error
		if next != nil {
			res, err = next()
			if err != nil {
				return res, err
			}
		}
		if res != nil && res.Status != 0 && res.Status != http.StatusNotFound {
			return res, nil
		}

		allowed := methodUnion(ctx.Matched)

		// Unimplemented verbs get 501 whether or not any route matched
		// the path; only the OPTIONS and 405 branches need a match.
		if !containsMethod(implemented, ctx.Method) {
			if opts.Throw {
				if opts.NotImplemented != nil {
					return nil, opts.NotImplemented(allowed)
				}
				return nil, newCondition(http.StatusNotImplemented, allowed)
			}
			out := &relay.Response{Status: http.StatusNotImplemented}
			out.SetHeader("Allow", strings.Join(allowed, ", "))
			return out, nil
		}

		if len(allowed) == 0 {
			return res, nil
		}

		if ctx.Method == http.MethodOptions {
			out := &relay.Response{Status: http.StatusOK}
			out.SetHeader("Allow", strings.Join(allowed, ", "))
			return out, nil
		}

		if !containsMethod(allowed, ctx.Method) {
			if opts.Throw {
				if opts.MethodNotAllowed != nil {
					return nil, opts.MethodNotAllowed(allowed)
				}
				return nil, newCondition(http.StatusMethodNotAllowed, allowed)
			}
			out := &relay.Response{Status: http.StatusMethodNotAllowed}
			out.SetHeader("Allow", strings.Join(allowed, ", "))
			return out, nil
		}
		return res, nil
	})
}

// methodUnion collects the method sets of every matched route, first
// occurrence order, no duplicates.
func methodUnion(matched []relay.Route) []string {
	var allowed []string
	seen := make(map[string]bool)
	for _, route := range matched {
		for _, m := range route.RouteMethods() {
			if !seen[m] {
				seen[m] = true
				allowed = append(allowed, m)
			}
		}
	}
	return allowed
}
