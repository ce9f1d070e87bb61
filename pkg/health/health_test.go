package health

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/relayhttp/relay/pkg/relay"
)

func probe(t *testing.T, h *Handler, target string) *relay.CanonicalResponse {
	t.Helper()
	app := relay.New()
	app.Use(h.Routes("/healthz"))
	res, err := app.Handle(relay.NewRequest(httptest.NewRequest(http.MethodGet, target, nil)))
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	return res
}

func TestLiveness(t *testing.T) {
	res := probe(t, New(), "/healthz/livez")
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Status)
	}
}

func TestReadinessHealthy(t *testing.T) {
	h := New()
	h.AddCheck("store", func() error { return nil })

	res := probe(t, h, "/healthz/readyz")
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Status)
	}
	if !strings.Contains(string(res.Body), `"store":"ok"`) {
		t.Fatalf("body = %q", res.Body)
	}
}

func TestReadinessFailingCheck(t *testing.T) {
	h := New()
	h.AddCheck("store", func() error { return nil })
	h.AddCheck("broker", func() error { return errors.New("connection refused") })

	res := probe(t, h, "/healthz/readyz")
	if res.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.Status)
	}
	if !strings.Contains(string(res.Body), "connection refused") {
		t.Fatalf("body = %q", res.Body)
	}
}
