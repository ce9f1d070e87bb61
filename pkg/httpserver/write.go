package httpserver

import (
	"io"
	"net/http"

	"github.com/relayhttp/relay/pkg/relay"
)

// write sends a normalized response over the wire. Streams are copied until
// EOF or client abort and closed exactly once either way.
func (s *Server) write(w http.ResponseWriter, r *http.Request, res *relay.CanonicalResponse) {
	header := w.Header()
	for k, vs := range res.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	w.WriteHeader(res.Status)

	if r.Method == http.MethodHead {
		return
	}

	if res.Stream != nil {
		defer res.Stream.Close()
		if _, err := io.Copy(w, res.Stream); err != nil {
			// The peer went away mid-stream; nothing to send anymore.
			s.logger.Debug("stream copy aborted",
				"method", r.Method, "path", r.URL.Path, "error", err)
		}
		return
	}

	if len(res.Body) > 0 {
		if _, err := w.Write(res.Body); err != nil {
			s.logger.Debug("response write failed",
				"method", r.Method, "path", r.URL.Path, "error", err)
		}
	}
}
