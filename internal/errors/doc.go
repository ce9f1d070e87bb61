// Package errors provides structured, actionable error messages for Relay.
//
// The errors package implements a structured error system that:
//   - Assigns each failure class a stable code
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - composition: middleware chain errors (nil handlers, control flow)
//   - routing: route registration and dispatch errors
//   - protocol: HTTP/WebSocket wire errors (aborted requests, upgrades)
//   - config: configuration file and environment errors
//   - cli: command-line usage errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E101") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E102").
//	    WithDetailf("handler %d in chain for %s", i, path).
//	    WithSuggestion("Return after calling next instead of calling it again")
//
//	fmt.Println(err.Format())
package errors
