package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/relayhttp/relay/internal/config"
	"github.com/relayhttp/relay/pkg/health"
	"github.com/relayhttp/relay/pkg/httpserver"
	"github.com/relayhttp/relay/pkg/middleware"
	"github.com/relayhttp/relay/pkg/relay"
	"github.com/relayhttp/relay/pkg/router"
)

func serveCmd() *cobra.Command {
	var (
		dir     string
		address string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a demo relay server",
		Long: `Start a relay server wired with the standard middleware stack
(recovery, logging, metrics, error coercion), the health probe routes,
and a Prometheus exposition endpoint at /metrics.

Configuration is read from relay.json / relay.yaml in the project
directory, .env, and RELAY_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger := cfg.Logger()
			slog.SetDefault(logger)
			for _, warning := range cfg.Warnings() {
				logger.Warn("config warning", "warning", warning)
			}

			srv := httpserver.New(buildApp(), cfg.HTTPConfig())
			srv.Mount("/metrics", promhttp.Handler())
			return srv.Run()
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory to load configuration from")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address, overriding configuration")

	return cmd
}

// buildApp wires the demo application: standard middleware, health probes,
// and a couple of example routes.
func buildApp() *relay.App {
	app := relay.New()
	app.Use(
		middleware.Recover(nil),
		middleware.Logger(nil),
		middleware.Metrics(),
		middleware.Errors(),
	)

	probes := health.New()
	app.Use(probes.Routes("/healthz"))

	r := router.New()
	r.Get("/", relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		return relay.Text(http.StatusOK, "relay is running"), nil
	}))
	r.Get("/echo/:word", relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		return relay.JSON(http.StatusOK, map[string]string{"word": ctx.Params["word"]}), nil
	}))
	app.Use(r.Middleware())
	app.Use(r.AllowedMethods(router.AllowedOptions{}))

	return app
}
