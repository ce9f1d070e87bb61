package middleware

import (
	"log/slog"
	"time"

	"github.com/relayhttp/relay/pkg/relay"
)

// Logger creates middleware that writes one structured access-log line per
// request. A nil logger uses the application logger.
func Logger(logger *slog.Logger) relay.Handler {
	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		log := logger
		if log == nil {
			log = ctx.App().Logger()
		}

		start := time.Now()
		res, err := next()
		elapsed := time.Since(start)

		if err != nil {
			log.Error("request failed",
				"method", ctx.Method,
				"path", ctx.Path,
				"duration", elapsed,
				"error", err)
			return res, err
		}

		status := 0
		if res != nil {
			status = res.Status
			if status == 0 {
				status = 200
			}
		}
		log.Info("request",
			"method", ctx.Method,
			"path", ctx.Path,
			"status", status,
			"duration", elapsed)
		return res, nil
	})
}
