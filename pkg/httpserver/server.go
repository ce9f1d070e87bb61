package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/relayhttp/relay/internal/errors"
	"github.com/relayhttp/relay/pkg/relay"
	"github.com/relayhttp/relay/pkg/routepath"
)

// Server adapts a relay.App to net/http: it builds the canonical request,
// runs the middleware chain, and writes the normalized response back,
// including 101 upgrades.
type Server struct {
	app            *relay.App
	config         *Config
	trustedProxies *proxyMatcher
	upgrader       websocket.Upgrader
	httpServer     *http.Server
	logger         *slog.Logger
	sidecars       *http.ServeMux
}

// New creates a Server around an application. A nil config uses defaults;
// a partial config has its unset fields filled in.
func New(app *relay.App, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if config.Address == "" {
			config.Address = defaults.Address
		}
		if config.FallbackHost == "" {
			config.FallbackHost = defaults.FallbackHost
		}
		if config.ReadBufferSize == 0 {
			config.ReadBufferSize = defaults.ReadBufferSize
		}
		if config.WriteBufferSize == 0 {
			config.WriteBufferSize = defaults.WriteBufferSize
		}
		if config.CheckOrigin == nil {
			config.CheckOrigin = defaults.CheckOrigin
		}
		if config.ReadHeaderTimeout == 0 {
			config.ReadHeaderTimeout = defaults.ReadHeaderTimeout
		}
		if config.ReadTimeout == 0 {
			config.ReadTimeout = defaults.ReadTimeout
		}
		if config.WriteTimeout == 0 {
			config.WriteTimeout = defaults.WriteTimeout
		}
		if config.IdleTimeout == 0 {
			config.IdleTimeout = defaults.IdleTimeout
		}
		if config.ShutdownTimeout == 0 {
			config.ShutdownTimeout = defaults.ShutdownTimeout
		}
	}

	logger := slog.Default().With("component", "httpserver")

	return &Server{
		app:            app,
		config:         config,
		trustedProxies: newProxyMatcher(config.TrustedProxies, logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
	}
}

// App returns the application the server dispatches to.
func (s *Server) App() *relay.App {
	return s.app
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Mount registers a plain http.Handler under a ServeMux pattern, served
// before the application dispatches. Intended for sidecar endpoints like
// Prometheus exposition or pprof that already speak net/http.
func (s *Server) Mount(pattern string, handler http.Handler) {
	if s.sidecars == nil {
		s.sidecars = http.NewServeMux()
	}
	s.sidecars.Handle(pattern, handler)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.sidecars != nil {
		if handler, pattern := s.sidecars.Handler(r); pattern != "" {
			handler.ServeHTTP(w, r)
			return
		}
	}

	if s.config.CanonicalizePaths {
		rawPath := r.URL.EscapedPath()
		input := rawPath
		if r.URL.RawQuery != "" {
			input = rawPath + "?" + r.URL.RawQuery
		}
		result, err := routepath.CanonicalizePath(input)
		if err != nil {
			http.Error(w, "Invalid path", http.StatusBadRequest)
			return
		}
		if result.Changed {
			canonURL := result.Path
			if result.Query != "" {
				canonURL = result.Path + "?" + result.Query
			} else if r.URL.RawQuery != "" {
				canonURL = result.Path + "?" + r.URL.RawQuery
			}
			// 308 preserves the method, unlike 301.
			http.Redirect(w, r, canonURL, http.StatusPermanentRedirect)
			return
		}
	}

	req := relay.NewRequest(r,
		relay.WithFallbackHost(s.config.FallbackHost),
		relay.WithRemoteIP(s.clientIP(r)),
	)

	res, err := s.app.Handle(req)
	if err != nil {
		if r.Context().Err() != nil {
			// The client went away mid-handling; nobody is listening for a 500.
			s.logger.Debug("request aborted",
				"method", req.Method, "path", r.URL.Path,
				"error", errors.New("E301").Wrap(err))
			return
		}
		// Error details stay in the log; the wire gets a generic 500.
		s.logger.Error("unhandled request error",
			"method", req.Method, "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if res.Upgrade != nil {
		s.handleUpgrade(w, r, res.Upgrade)
		return
	}

	s.write(w, r, res)
}

// Handler returns an http.Handler for mounting in external routers
// (chi, gorilla/mux, stdlib mux).
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.ServeHTTP(w, r)
	})
}

// Run starts the server and blocks until SIGINT/SIGTERM or a listener
// error, then shuts down gracefully.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
