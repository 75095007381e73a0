package client

import "context"

// Transport is a long-lived bidirectional message stream carrying one
// complete envelope JSON text per frame. Implementations own framing and
// reconnection; the client only sends frames and is handed inbound frames
// via HandleFrame. See WebSocket for the standard implementation.
type Transport interface {
	// Send transmits one complete frame.
	Send(ctx context.Context, frame []byte) error

	// Close tears the connection down.
	Close() error
}
