package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/relayhttp/relay/pkg/relay"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists allowed origins. "*" allows any origin.
	// Default: "*".
	AllowOrigins []string

	// AllowMethods lists methods advertised on preflight.
	// Default: GET, HEAD, PUT, PATCH, POST, DELETE.
	AllowMethods []string

	// AllowHeaders lists request headers advertised on preflight.
	// Default: echo the Access-Control-Request-Headers header.
	AllowHeaders []string

	// ExposeHeaders lists response headers readable by the browser.
	ExposeHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials. Incompatible
	// with a literal "*" origin; the matched origin is echoed instead.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. 0 omits the header.
	MaxAge int
}

// CORS creates middleware that answers preflight requests and stamps CORS
// headers on actual responses.
func CORS(config CORSConfig) relay.Handler {
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		}
	}
	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	exposeHeaders := strings.Join(config.ExposeHeaders, ", ")

	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" {
			return next()
		}

		allowed := matchOrigin(config.AllowOrigins, origin)
		if allowed == "" {
			return next()
		}
		if config.AllowCredentials && allowed == "*" {
			allowed = origin
		}

		if ctx.Method == http.MethodOptions && ctx.Request.Header.Get("Access-Control-Request-Method") != "" {
			res := relay.NoContent()
			res.SetHeader("Access-Control-Allow-Origin", allowed)
			res.SetHeader("Access-Control-Allow-Methods", allowMethods)
			res.AddHeader("Vary", "Origin")
			if allowHeaders != "" {
				res.SetHeader("Access-Control-Allow-Headers", allowHeaders)
			} else if reqHeaders := ctx.Request.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				res.SetHeader("Access-Control-Allow-Headers", reqHeaders)
			}
			if config.AllowCredentials {
				res.SetHeader("Access-Control-Allow-Credentials", "true")
			}
			if config.MaxAge > 0 {
				res.SetHeader("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
			}
			return res, nil
		}

		res, err := next()
		if err != nil || res == nil {
			return res, err
		}
		res.SetHeader("Access-Control-Allow-Origin", allowed)
		res.AddHeader("Vary", "Origin")
		if config.AllowCredentials {
			res.SetHeader("Access-Control-Allow-Credentials", "true")
		}
		if exposeHeaders != "" {
			res.SetHeader("Access-Control-Expose-Headers", exposeHeaders)
		}
		return res, nil
	})
}

func matchOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		if o == "*" {
			return "*"
		}
		if strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
