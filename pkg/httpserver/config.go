package httpserver

import (
	"net/http"
	"time"
)

// Config holds configuration for the HTTP transport.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// FallbackHost is used for absolute-URL reconstruction when neither
	// X-Forwarded-Host nor the Host header is present.
	// Default: "localhost".
	FallbackHost string

	// TrustedProxies lists IPs or CIDRs whose Forwarded / X-Forwarded-For
	// headers are honored when resolving the client IP.
	// Default: none (forwarded headers ignored for client IP).
	TrustedProxies []string

	// CanonicalizePaths redirects requests with non-canonical paths
	// (dot segments, duplicate slashes, uppercase escapes) with a
	// 308 Permanent Redirect to the canonical form.
	// Default: false.
	CanonicalizePaths bool

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the origin of upgrade requests.
	// Default: allows all origins (not recommended for production).
	CheckOrigin func(r *http.Request) bool

	// Server lifecycle

	// ReadHeaderTimeout is the maximum time to read request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the maximum time to read the full request.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to write the response.
	// Default: 60 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle limit.
	// Default: 120 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		FallbackHost:      "localhost",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       func(r *http.Request) bool { return true },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}
}
