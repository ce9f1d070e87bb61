// Package health exposes liveness and readiness probe routes built on the
// relay router, for wiring into kubernetes-style orchestration.
package health

import (
	"net/http"
	"sync"

	"github.com/relayhttp/relay/pkg/relay"
	"github.com/relayhttp/relay/pkg/router"
)

// Check reports one dependency's health. A nil error means healthy.
type Check func() error

// Handler serves GET /livez and GET /readyz. Liveness is unconditional;
// readiness runs the registered checks and reports each by name.
type Handler struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// New creates a Handler with no readiness checks.
func New() *Handler {
	return &Handler{checks: make(map[string]Check)}
}

// AddCheck registers a named readiness check. Safe for concurrent use.
func (h *Handler) AddCheck(name string, check Check) {
	h.mu.Lock()
	h.checks[name] = check
	h.mu.Unlock()
}

// Routes returns the probe routes as mountable middleware.
//
//	app.Use(probes.Routes("/healthz"))
func (h *Handler) Routes(prefix string) relay.Handler {
	r := router.New(router.WithPrefix(prefix))
	r.Get("/livez", relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		return relay.Text(http.StatusOK, "ok"), nil
	}))
	r.Get("/readyz", relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		status := http.StatusOK
		report := make(map[string]string)

		h.mu.RLock()
		for name, check := range h.checks {
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
			} else {
				report[name] = "ok"
			}
		}
		h.mu.RUnlock()

		return relay.JSON(status, report), nil
	}))
	return r.Middleware()
}
