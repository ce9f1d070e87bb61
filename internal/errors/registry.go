package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Composition Errors (E100-E119)
	// ============================================

	"E101": {
		Category:   CategoryComposition,
		Message:    "Invalid middleware",
		Detail:     "A nil handler was registered in a middleware chain or route.",
		Suggestion: "Check the handler arguments passed to Use, Mount, and the verb registration methods.",
		DocURL:     "https://relayhttp.dev/docs/errors/E101",
	},
	"E102": {
		Category:   CategoryComposition,
		Message:    "next() called multiple times",
		Detail:     "A handler invoked its continuation more than once within a single dispatch.",
		Suggestion: "Call next at most once per handler invocation and return its result.",
		DocURL:     "https://relayhttp.dev/docs/errors/E102",
	},

	// ============================================
	// Routing Errors (E200-E219)
	// ============================================

	"E201": {
		Category: CategoryRouting,
		Message:  "Method not implemented",
		Detail:   "The request method is not in the router's implemented method list.",
		DocURL:   "https://relayhttp.dev/docs/errors/E201",
	},
	"E202": {
		Category: CategoryRouting,
		Message:  "Method not allowed",
		Detail:   "The path matched one or more routes, but none accepts the request method.",
		DocURL:   "https://relayhttp.dev/docs/errors/E202",
	},
	"E203": {
		Category:   CategoryRouting,
		Message:    "Invalid route pattern",
		Detail:     "The route pattern could not be compiled to a matcher.",
		Suggestion: "Check for unbalanced groups or invalid regular expression literals in the pattern.",
		DocURL:     "https://relayhttp.dev/docs/errors/E203",
	},
	"E204": {
		Category:   CategoryRouting,
		Message:    "Unknown named route",
		Detail:     "No registered route has the requested name.",
		Suggestion: "Register the route with a name before referring to it in Redirect or URL.",
		DocURL:     "https://relayhttp.dev/docs/errors/E204",
	},

	// ============================================
	// Protocol Errors (E300-E319)
	// ============================================

	"E301": {
		Category: CategoryProtocol,
		Message:  "Request aborted",
		Detail:   "The client connection was closed before the response completed.",
		DocURL:   "https://relayhttp.dev/docs/errors/E301",
	},
	"E302": {
		Category:   CategoryProtocol,
		Message:    "WebSocket upgrade failed",
		Detail:     "The protocol upgrade handshake could not be completed.",
		Suggestion: "Check the Upgrader origin policy and that the response status was 101.",
		DocURL:     "https://relayhttp.dev/docs/errors/E302",
	},

	// ============================================
	// Configuration Errors (E400-E419)
	// ============================================

	"E401": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "The relay.json or relay.yaml configuration file is malformed.",
		Suggestion: "Validate the file syntax and compare against the documented schema.",
		DocURL:     "https://relayhttp.dev/docs/errors/E401",
	},
	"E402": {
		Category: CategoryConfig,
		Message:  "Invalid listen address",
		Detail:   "The configured listen address could not be parsed.",
		DocURL:   "https://relayhttp.dev/docs/errors/E402",
	},
}
