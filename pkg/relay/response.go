package relay

import (
	"io"
	"net/http"
)

// Body is a handler-produced response body. The concrete types cover the
// shapes the normalizer knows how to render: strings, raw bytes, streams,
// JSON-serializable values, and WebSocket upgrades.
type Body interface {
	body()
}

// StringBody is a UTF-8 text body.
type StringBody string

func (StringBody) body() {}

// BytesBody is a raw byte body. The normalizer sets Content-Length exactly
// and infers no content type.
type BytesBody []byte

func (BytesBody) body() {}

// JSONBody wraps a JSON-serializable value.
type JSONBody struct {
	Value any
}

func (JSONBody) body() {}

// StreamBody is a finite, single-consumption byte stream. The transport is
// responsible for chunked transfer and for destroying the stream on both
// completion and abort.
type StreamBody struct {
	Reader io.ReadCloser
}

func (StreamBody) body() {}

// UpgradeBody marks a WebSocket upgrade. Accept is invoked by the transport
// adapter with the socket handle once the handshake completes.
type UpgradeBody struct {
	Accept AcceptFunc
}

func (UpgradeBody) body() {}

// Response is the pre-normalization result of a handler. Status 0 means
// unset (defaulted during normalization); a nil Header is treated as empty.
type Response struct {
	Status int
	Header http.Header
	Body   Body
}

// SetHeader sets a response header, allocating the header map if needed.
// It returns the response for chaining.
func (r *Response) SetHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// AddHeader appends a response header value.
func (r *Response) AddHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Add(key, value)
	return r
}

// Text builds a plain-text response.
func Text(status int, s string) *Response {
	return &Response{Status: status, Body: StringBody(s)}
}

// Bytes builds a raw byte response.
func Bytes(status int, b []byte) *Response {
	return &Response{Status: status, Body: BytesBody(b)}
}

// JSON builds a JSON response.
func JSON(status int, v any) *Response {
	return &Response{Status: status, Body: JSONBody{Value: v}}
}

// Stream builds a streaming response. The stream is destroyed by the
// transport when the response completes or the client aborts.
func Stream(status int, rc io.ReadCloser) *Response {
	return &Response{Status: status, Body: StreamBody{Reader: rc}}
}

// NoContent builds an empty 204 response.
func NoContent() *Response {
	return &Response{Status: http.StatusNoContent}
}

// Redirect builds a redirect response to the given location.
func Redirect(status int, location string) *Response {
	res := &Response{Status: status}
	res.SetHeader("Location", location)
	return res
}

// Upgrade builds a 101 response carrying a WebSocket accept callback. The
// callback travels out-of-band through normalization and is invoked by the
// transport after the protocol handshake.
func Upgrade(accept AcceptFunc) *Response {
	return &Response{Status: http.StatusSwitchingProtocols, Body: UpgradeBody{Accept: accept}}
}
