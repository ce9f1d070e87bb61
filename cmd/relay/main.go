package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	relayerrors "github.com/relayhttp/relay/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relay",
		Short: "Transport-agnostic HTTP middleware engine",
		Long: `Relay is a middleware-composition HTTP engine for Go.

Handlers are composed into an onion-style chain with explicit
continuations, routed by an ordered, nestable router, and served
over net/http with WebSocket upgrade support.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var relayErr *relayerrors.RelayError
		if errors.As(err, &relayErr) {
			fmt.Fprintln(os.Stderr, relayErr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}
