package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/relayhttp/relay/pkg/relay"
)

// Recover creates middleware that converts downstream panics into a 500
// response and logs the stack. A nil logger uses the application logger.
func Recover(logger *slog.Logger) relay.Handler {
	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (res *relay.Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				log := logger
				if log == nil {
					log = ctx.App().Logger()
				}
				log.Error("handler panic",
					"method", ctx.Method,
					"path", ctx.Path,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()))
				res = relay.Text(http.StatusInternalServerError,
					http.StatusText(http.StatusInternalServerError))
				err = nil
			}
		}()
		return next()
	})
}
