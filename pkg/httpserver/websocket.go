package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relayhttp/relay/internal/errors"
	"github.com/relayhttp/relay/pkg/relay"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 1 << 20 // 1MB
)

// handleUpgrade completes the WebSocket handshake for a 101 response and
// hands the socket to the application's accept callback. The callback
// registers its hooks before the read loop starts, so no message can race
// past an unregistered OnMessage.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request, accept relay.AcceptFunc) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error to the client.
		s.logger.Error("websocket upgrade failed",
			"path", r.URL.Path, "error", errors.New("E302").Wrap(err))
		return
	}
	conn.SetReadLimit(wsReadLimit)

	sock := newWSSocket(conn)
	accept(sock)
	go sock.readLoop()
}

// wsSocket implements relay.Socket over a gorilla connection. Writes are
// serialized by a mutex; Close is idempotent.
type wsSocket struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu        sync.Mutex
	closed    bool
	onMessage func(data []byte)
	onClose   func(err error)
	onError   func(err error)
}

func newWSSocket(conn *websocket.Conn) *wsSocket {
	return &wsSocket{conn: conn}
}

func (s *wsSocket) Send(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (s *wsSocket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.conn.Close()
}

func (s *wsSocket) OnMessage(fn func(data []byte)) {
	s.mu.Lock()
	s.onMessage = fn
	s.mu.Unlock()
}

func (s *wsSocket) OnClose(fn func(err error)) {
	s.mu.Lock()
	s.onClose = fn
	s.mu.Unlock()
}

func (s *wsSocket) OnError(fn func(err error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// readLoop pumps inbound messages into the OnMessage hook until the
// connection closes. Unexpected close errors reach OnError; OnClose always
// fires exactly once afterward.
func (s *wsSocket) readLoop() {
	var loopErr error
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				loopErr = err
			}
			break
		}

		s.mu.Lock()
		fn := s.onMessage
		s.mu.Unlock()
		if fn != nil {
			fn(msg)
		}
	}

	s.mu.Lock()
	onError := s.onError
	onClose := s.onClose
	s.mu.Unlock()

	if loopErr != nil && onError != nil {
		onError(loopErr)
	}
	s.Close()
	if onClose != nil {
		onClose(loopErr)
	}
}
