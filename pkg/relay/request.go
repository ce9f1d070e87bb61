package relay

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Methods lists the nine HTTP verbs the engine recognizes.
var Methods = []string{
	http.MethodHead,
	http.MethodOptions,
	http.MethodGet,
	http.MethodPut,
	http.MethodPatch,
	http.MethodPost,
	http.MethodDelete,
	http.MethodTrace,
	http.MethodConnect,
}

// IsMethod reports whether s (case-insensitively) names a known HTTP verb.
func IsMethod(s string) bool {
	u := strings.ToUpper(s)
	for _, m := range Methods {
		if m == u {
			return true
		}
	}
	return false
}

// Request is the canonical, transport-agnostic inbound message. It is
// constructed once per message and never mutated afterwards; routing-time
// path rewrites happen on the Context, not here.
type Request struct {
	// Method is the uppercase HTTP verb.
	Method string

	// URL is the absolute request URL, reconstructed from forwarded headers
	// when present (see NewRequest).
	URL *url.URL

	// Header holds the request headers. Key lookup through http.Header is
	// case-insensitive.
	Header http.Header

	// Body is the request body stream, nil for GET and HEAD requests and
	// for requests without a body. It is single-consumption and backed by
	// the transport socket; closing it releases transport resources.
	Body io.ReadCloser

	// RemoteIP is the resolved client address, as determined by the
	// transport adapter.
	RemoteIP string

	ctx context.Context
}

// RequestOption configures NewRequest.
type RequestOption func(*requestOptions)

type requestOptions struct {
	fallbackHost string
	remoteIP     string
}

// WithFallbackHost sets the host used when neither forwarded headers nor the
// Host header identify one.
func WithFallbackHost(host string) RequestOption {
	return func(o *requestOptions) {
		o.fallbackHost = host
	}
}

// WithRemoteIP sets the resolved client address on the request.
func WithRemoteIP(ip string) RequestOption {
	return func(o *requestOptions) {
		o.remoteIP = ip
	}
}

// NewRequest builds a canonical Request from an inbound net/http request.
//
// The absolute URL is reconstructed using, in priority order, the
// X-Forwarded-Proto and X-Forwarded-Host headers, then the Host header, then
// the configured fallback host. Trusting forwarded headers is deliberate: the
// engine is designed to sit behind reverse proxies.
//
// The body is attached only for methods other than GET and HEAD.
func NewRequest(r *http.Request, opts ...RequestOption) *Request {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	scheme := headerFirst(r.Header, "X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}

	host := headerFirst(r.Header, "X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	if host == "" {
		host = o.fallbackHost
	}
	if host == "" {
		host = "localhost"
	}

	u := *r.URL
	u.Scheme = scheme
	u.Host = host

	method := strings.ToUpper(r.Method)

	var body io.ReadCloser
	if method != http.MethodGet && method != http.MethodHead {
		if r.Body != nil && r.Body != http.NoBody {
			body = r.Body
		}
	}

	return &Request{
		Method:   method,
		URL:      &u,
		Header:   r.Header.Clone(),
		Body:     body,
		RemoteIP: o.remoteIP,
		ctx:      r.Context(),
	}
}

// Context returns the request's cancellation context. It is done when the
// underlying connection aborts.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// headerFirst returns the first value of a potentially comma-separated
// header, trimmed.
func headerFirst(h http.Header, key string) string {
	v := h.Get(key)
	if v == "" {
		return ""
	}
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
