package integration_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/relayhttp/relay/pkg/httpserver"
	"github.com/relayhttp/relay/pkg/relay"
	"github.com/relayhttp/relay/pkg/router"
)

// buildApp wires a small relay application for mounting inside chi.
func buildApp() *relay.App {
	app := relay.New()
	r := router.New()
	r.Get("/users/:id", relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		return relay.JSON(http.StatusOK, map[string]string{"id": ctx.Params["id"]}), nil
	}))
	app.Use(r.Middleware())
	app.Use(r.AllowedMethods(router.AllowedOptions{}))
	return app
}

// TestChiMountIntegration mounts a relay server under a chi router and
// checks the two routing worlds coexist on one mux.
func TestChiMountIntegration(t *testing.T) {
	srv := httpserver.New(buildApp(), nil)

	root := chi.NewRouter()
	root.Use(chimw.Recoverer)
	root.Get("/native", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("chi"))
	})
	root.Handle("/*", srv.Handler())

	t.Run("chi route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/native", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "chi" {
			t.Fatalf("got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("relay route through chi", func(t *testing.T) {
		rec := httptest.NewRecorder()
		root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/9", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Body.String(); got != `{"id":"9"}` {
			t.Fatalf("body = %q", got)
		}
	})

	t.Run("chi middleware runs before relay", func(t *testing.T) {
		executed := false
		wrapped := chi.NewRouter()
		wrapped.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				executed = true
				next.ServeHTTP(w, r)
			})
		})
		wrapped.Handle("/*", srv.Handler())

		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/1", nil))
		if !executed {
			t.Fatal("chi middleware did not run")
		}
	})

	t.Run("method not allowed through chi", func(t *testing.T) {
		rec := httptest.NewRecorder()
		root.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/9", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", rec.Code)
		}
		if got := rec.Header().Get("Allow"); got != "HEAD, GET" {
			t.Fatalf("Allow = %q", got)
		}
	})
}
