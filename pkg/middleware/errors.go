package middleware

import (
	"errors"
	"net/http"

	"github.com/relayhttp/relay/pkg/relay"
)

// Errors creates middleware that renders handler errors as responses
// instead of letting them reach the transport's 500 catch-all.
//
// Errors implementing relay.StatusCoder keep their status; *relay.Error
// additionally keeps its message and body. Everything else becomes a plain
// 500 with no detail on the wire.
func Errors() relay.Handler {
	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		res, err := next()
		if err == nil {
			return res, nil
		}

		var relayErr *relay.Error
		if errors.As(err, &relayErr) {
			out := &relay.Response{Status: relayErr.Status}
			switch body := relayErr.Body.(type) {
			case nil:
				out.Body = relay.StringBody(relayErr.Error())
			case string:
				out.Body = relay.StringBody(body)
			case []byte:
				out.Body = relay.BytesBody(body)
			default:
				out.Body = relay.JSONBody{Value: body}
			}
			return out, nil
		}

		var coder relay.StatusCoder
		if errors.As(err, &coder) {
			status := coder.StatusCode()
			return relay.Text(status, http.StatusText(status)), nil
		}

		return relay.Text(http.StatusInternalServerError,
			http.StatusText(http.StatusInternalServerError)), nil
	})
}
