package relay

// Socket is the handle a WebSocket accept callback receives after the
// transport completes the protocol handshake. Callbacks register their
// OnMessage/OnClose/OnError hooks before the transport starts the read loop.
type Socket interface {
	// Send writes a message to the peer.
	Send(data []byte) error

	// Close closes the connection. Safe to call more than once.
	Close() error

	// OnMessage registers the inbound message hook.
	OnMessage(fn func(data []byte))

	// OnClose registers the connection-closed hook.
	OnClose(fn func(err error))

	// OnError registers the error hook.
	OnError(fn func(err error))
}

// AcceptFunc is invoked with the socket handle once a 101 upgrade completes.
type AcceptFunc func(Socket)
