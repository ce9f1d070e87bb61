package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
)

// CanonicalResponse is the fully-normalized outbound response a transport
// adapter writes to the wire: resolved status, final headers, and exactly one
// of Body (buffered) or Stream, plus the out-of-band upgrade slot for 101s.
type CanonicalResponse struct {
	Status int
	Header http.Header

	// Body is the buffered response body. Nil when Stream is set or the
	// response has no body.
	Body []byte

	// Stream is a pass-through body stream. Close is idempotent, so the
	// transport may destroy it on both completion and abort paths.
	Stream io.ReadCloser

	// Upgrade carries the accept callback of a 101 response. It is not a
	// header and must be handed to the transport untouched.
	Upgrade AcceptFunc
}

// Normalize converts a handler result into a canonical response.
//
// A nil result means the chain completed without producing anything and
// yields a 501. Statuses in 1xx, 204, 304 and HEAD requests carry no body;
// any body and body-related headers are stripped. Otherwise the body is
// rendered by type: raw bytes as-is, strings as UTF-8 text, streams
// untouched, everything else as JSON.
func Normalize(req *Request, res *Response) *CanonicalResponse {
	if res == nil {
		return Normalize(req, &Response{
			Status: http.StatusNotImplemented,
			Body:   StringBody("Server did not produce a valid response"),
		})
	}

	out := &CanonicalResponse{Header: make(http.Header)}
	for k, vs := range res.Header {
		for _, v := range vs {
			out.Header.Add(k, v)
		}
	}

	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	if _, ok := res.Body.(UpgradeBody); ok {
		status = http.StatusSwitchingProtocols
	}
	out.Status = status

	if u, ok := res.Body.(UpgradeBody); ok {
		out.Upgrade = u.Accept
	}

	if bodyless(status) || (req != nil && req.Method == http.MethodHead) {
		// A stripped stream still owns a transport resource; release it.
		if b, ok := res.Body.(StreamBody); ok && b.Reader != nil {
			closeOnce(b.Reader).Close()
		}
		out.Header.Del("Content-Type")
		out.Header.Del("Content-Length")
		out.Header.Del("Transfer-Encoding")
		return out
	}

	switch b := res.Body.(type) {
	case nil:
		// fall through to the empty-body default below

	case BytesBody:
		out.Body = []byte(b)
		out.Header.Set("Content-Length", strconv.Itoa(len(b)))

	case StringBody:
		if out.Header.Get("Content-Type") == "" {
			out.Header.Set("Content-Type", "text/plain; charset=utf-8")
		}
		out.Body = []byte(b)
		out.Header.Set("Content-Length", strconv.Itoa(len(out.Body)))

	case StreamBody:
		// Transfer framing is the transport's concern; no Content-Length.
		out.Stream = closeOnce(b.Reader)

	case JSONBody:
		data, err := json.Marshal(b.Value)
		if err != nil {
			return Normalize(req, &Response{
				Status: http.StatusInternalServerError,
				Body:   StringBody("Response serialization failed"),
			})
		}
		if out.Header.Get("Content-Type") == "" {
			out.Header.Set("Content-Type", "application/json")
		}
		out.Body = data
		out.Header.Set("Content-Length", strconv.Itoa(len(data)))
	}

	if out.Body == nil && out.Stream == nil && out.Header.Get("Content-Length") == "" {
		out.Header.Set("Content-Length", "0")
	}

	return out
}

// bodyless reports whether a status belongs to the HTTP no-body classes.
func bodyless(status int) bool {
	return (status >= 100 && status < 200) ||
		status == http.StatusNoContent ||
		status == http.StatusNotModified
}

// onceCloser makes a stream's Close idempotent so the destroy hook fires
// exactly once even when completion and abort paths race.
type onceCloser struct {
	io.Reader
	c    io.Closer
	once sync.Once
	err  error
}

func closeOnce(rc io.ReadCloser) io.ReadCloser {
	if rc == nil {
		return nil
	}
	if _, ok := rc.(*onceCloser); ok {
		return rc
	}
	return &onceCloser{Reader: rc, c: rc}
}

func (o *onceCloser) Close() error {
	o.once.Do(func() {
		o.err = o.c.Close()
	})
	return o.err
}
