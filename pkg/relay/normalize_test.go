package relay

import (
	"io"
	"strings"
	"sync"
	"testing"
)

func TestNormalizeNilResultIs501(t *testing.T) {
	res := Normalize(newTestRequest("GET", "/"), nil)
	if res.Status != 501 {
		t.Errorf("Status = %d, want 501", res.Status)
	}
	if string(res.Body) != "Server did not produce a valid response" {
		t.Errorf("Body = %q", res.Body)
	}
}

func TestNormalizeJSONRoundTrip(t *testing.T) {
	res := Normalize(newTestRequest("GET", "/"), JSON(201, map[string]int{"a": 1}))
	if res.Status != 201 {
		t.Errorf("Status = %d, want 201", res.Status)
	}
	if got := res.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if string(res.Body) != `{"a":1}` {
		t.Errorf("Body = %q, want %q", res.Body, `{"a":1}`)
	}
	if got := res.Header.Get("Content-Length"); got != "7" {
		t.Errorf("Content-Length = %q, want 7", got)
	}
}

func TestNormalizeStringDefaultsContentType(t *testing.T) {
	res := Normalize(newTestRequest("GET", "/"), Text(0, "hello"))
	if res.Status != 200 {
		t.Errorf("Status = %d, want 200", res.Status)
	}
	if got := res.Header.Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := res.Header.Get("Content-Length"); got != "5" {
		t.Errorf("Content-Length = %q", got)
	}
}

func TestNormalizeStringKeepsExplicitContentType(t *testing.T) {
	r := Text(200, "<b>hi</b>")
	r.SetHeader("Content-Type", "text/html")

	res := Normalize(newTestRequest("GET", "/"), r)
	if got := res.Header.Get("Content-Type"); got != "text/html" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestNormalizeBytesNoContentTypeInference(t *testing.T) {
	res := Normalize(newTestRequest("GET", "/"), Bytes(200, []byte{1, 2, 3}))
	if got := res.Header.Get("Content-Type"); got != "" {
		t.Errorf("Content-Type = %q, want unset", got)
	}
	if got := res.Header.Get("Content-Length"); got != "3" {
		t.Errorf("Content-Length = %q, want 3", got)
	}
}

func TestNormalizeHeadStripsBody(t *testing.T) {
	res := Normalize(newTestRequest("HEAD", "/x"), JSON(200, map[string]int{"a": 1}))
	if res.Status != 200 {
		t.Errorf("Status = %d, want 200", res.Status)
	}
	if res.Body != nil {
		t.Errorf("Body = %q, want none", res.Body)
	}
	for _, h := range []string{"Content-Type", "Content-Length", "Transfer-Encoding"} {
		if got := res.Header.Get(h); got != "" {
			t.Errorf("%s = %q, want stripped", h, got)
		}
	}
}

func TestNormalizeNoContentStripsBody(t *testing.T) {
	r := Text(204, "should vanish")
	r.SetHeader("X-Custom", "kept")

	res := Normalize(newTestRequest("GET", "/"), r)
	if res.Body != nil {
		t.Errorf("Body = %q, want none", res.Body)
	}
	if got := res.Header.Get("X-Custom"); got != "kept" {
		t.Errorf("X-Custom = %q, want kept", got)
	}
}

func TestNormalizeEmptyBodyDefaultsContentLengthZero(t *testing.T) {
	res := Normalize(newTestRequest("GET", "/"), &Response{Status: 200})
	if got := res.Header.Get("Content-Length"); got != "0" {
		t.Errorf("Content-Length = %q, want 0", got)
	}
}

func TestNormalizeStreamPassthrough(t *testing.T) {
	rc := io.NopCloser(strings.NewReader("streamed"))
	res := Normalize(newTestRequest("GET", "/"), Stream(200, rc))
	if res.Body != nil {
		t.Error("stream body must not be buffered")
	}
	if res.Stream == nil {
		t.Fatal("Stream not set")
	}
	if got := res.Header.Get("Content-Length"); got != "" {
		t.Errorf("Content-Length = %q, want unset for streams", got)
	}
	data, err := io.ReadAll(res.Stream)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "streamed" {
		t.Errorf("stream = %q", data)
	}
}

type countingCloser struct {
	io.Reader
	mu     sync.Mutex
	closes int
}

func (c *countingCloser) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func TestNormalizeHeadClosesStrippedStream(t *testing.T) {
	cc := &countingCloser{Reader: strings.NewReader("x")}
	res := Normalize(newTestRequest("HEAD", "/"), Stream(200, cc))

	if res.Stream != nil {
		t.Fatal("Stream survived a HEAD response")
	}
	if cc.closes != 1 {
		t.Errorf("closes = %d, want exactly 1", cc.closes)
	}
}

func TestNormalizeNoContentClosesStrippedStream(t *testing.T) {
	cc := &countingCloser{Reader: strings.NewReader("x")}
	res := Normalize(newTestRequest("GET", "/"), Stream(204, cc))

	if res.Stream != nil {
		t.Fatal("Stream survived a 204 response")
	}
	if cc.closes != 1 {
		t.Errorf("closes = %d, want exactly 1", cc.closes)
	}
}

func TestNormalizeStreamCloseIsIdempotent(t *testing.T) {
	cc := &countingCloser{Reader: strings.NewReader("x")}
	res := Normalize(newTestRequest("GET", "/"), Stream(200, cc))

	// Completion and abort paths may both close; the hook fires once.
	res.Stream.Close()
	res.Stream.Close()

	if cc.closes != 1 {
		t.Errorf("closes = %d, want exactly 1", cc.closes)
	}
}

func TestNormalizeUpgradePreservesAcceptSlot(t *testing.T) {
	called := false
	res := Normalize(newTestRequest("GET", "/ws"), Upgrade(func(s Socket) {
		called = true
	}))
	if res.Status != 101 {
		t.Errorf("Status = %d, want 101", res.Status)
	}
	if res.Body != nil || res.Stream != nil {
		t.Error("101 response must carry no body")
	}
	if res.Upgrade == nil {
		t.Fatal("Upgrade slot lost in normalization")
	}
	res.Upgrade(nil)
	if !called {
		t.Error("accept callback not preserved")
	}
}

func TestNormalizeStatusDefaultsTo200WithBody(t *testing.T) {
	res := Normalize(newTestRequest("GET", "/"), &Response{Body: StringBody("ok")})
	if res.Status != 200 {
		t.Errorf("Status = %d, want 200", res.Status)
	}
}
