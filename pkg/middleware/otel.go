package middleware

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/relayhttp/relay/pkg/relay"
)

// Default tracer name for relay applications.
const defaultTracerName = "relay"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "relay").
	TracerName string

	// Filter determines which requests to trace.
	// Return true to trace the request, false to skip.
	// If nil, all requests are traced.
	Filter func(ctx *relay.Context) bool

	// AttributeExtractor extracts custom attributes from the context.
	// Called for each traced request.
	AttributeExtractor func(ctx *relay.Context) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTraceFilter sets a filter function for requests.
func WithTraceFilter(filter func(ctx *relay.Context) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx *relay.Context) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that opens a span per request.
//
// The span is named "METHOD route-pattern" once a route has matched, and
// records method, path, matched route, status, and handler errors. The
// tracer comes from the global OpenTelemetry tracer provider; configure
// that in main() before serving.
func OpenTelemetry(opts ...OTelOption) relay.Handler {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		_, span := config.tracer.Start(ctx.Request.Context(), ctx.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", ctx.Method),
				attribute.String("url.path", ctx.Path),
			),
		)
		defer span.End()

		res, err := next()

		if ctx.MatchedRoute != nil {
			route := ctx.MatchedRoute.RoutePath()
			span.SetName(ctx.Method + " " + route)
			span.SetAttributes(attribute.String("http.route", route))
		}
		if config.AttributeExtractor != nil {
			span.SetAttributes(config.AttributeExtractor(ctx)...)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return res, err
		}
		if res != nil {
			status := res.Status
			if status == 0 {
				status = 200
			}
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if status >= 500 {
				span.SetStatus(codes.Error, "")
			}
		}
		return res, nil
	})
}
