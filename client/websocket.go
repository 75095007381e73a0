package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/indrajala/indralib/logging"
)

// WebSocketConfig describes how to reach a server.
type WebSocketConfig struct {
	// URL is the ws:// or wss:// endpoint.
	URL string

	// CAFile optionally pins a CA bundle for wss:// connections.
	CAFile string

	// InsecureSkipVerify disables certificate verification. Test setups
	// only.
	InsecureSkipVerify bool

	// HandshakeTimeout bounds the dial; zero means 10s.
	HandshakeTimeout time.Duration
}

// WebSocket is the standard Transport: one envelope JSON text per WebSocket
// text frame, message boundaries guaranteed by the protocol.
type WebSocket struct {
	conn *websocket.Conn
	log  *logging.Logger

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// DialWebSocket connects to a server. The returned transport is not yet
// pumping; attach it to a Client and start ReadLoop, or use Connect which
// does both.
func DialWebSocket(ctx context.Context, cfg WebSocketConfig, log *logging.Logger) (*WebSocket, error) {
	if log == nil {
		log = logging.Default()
	}
	timeout := cfg.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	if cfg.CAFile != "" || cfg.InsecureSkipVerify {
		tlsCfg := &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}
		if cfg.CAFile != "" {
			pem, err := os.ReadFile(cfg.CAFile)
			if err != nil {
				return nil, fmt.Errorf("client: read CA file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("client: no certificates in %s", cfg.CAFile)
			}
			tlsCfg.RootCAs = pool
		}
		dialer.TLSClientConfig = tlsCfg
	}

	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", cfg.URL, err)
	}
	return &WebSocket{conn: conn, log: log}, nil
}

// Send writes one frame. Writes are serialized; gorilla connections allow
// only one concurrent writer.
func (w *WebSocket) Send(ctx context.Context, frame []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = w.conn.SetWriteDeadline(deadline)
	} else {
		_ = w.conn.SetWriteDeadline(time.Time{})
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("client: websocket send: %w", err)
	}
	return nil
}

// Close closes the underlying connection, which also terminates ReadLoop.
func (w *WebSocket) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.conn.Close()
	})
	return w.closeErr
}

// ReadLoop pumps inbound frames into onFrame until the connection dies,
// then reports the terminal error to onClose. Run it in its own goroutine.
func (w *WebSocket) ReadLoop(onFrame func([]byte), onClose func(error)) {
	for {
		_, frame, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = nil
			}
			onClose(err)
			return
		}
		onFrame(frame)
	}
}

// Connect dials, builds a session and starts the inbound pump. Frame decode
// failures are logged and skipped; a dead connection fails all pending
// transactions.
func Connect(ctx context.Context, cfg WebSocketConfig, opts ...Option) (*Client, error) {
	log := logging.Default()
	ws, err := DialWebSocket(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	c := New(ws, opts...)
	go ws.ReadLoop(
		func(frame []byte) {
			if err := c.HandleFrame(frame); err != nil {
				c.log.Warn("dropping undecodable frame", logging.Error(err))
			}
		},
		func(err error) {
			if err != nil {
				c.log.Warn("connection lost", logging.Error(err))
			}
			c.FailPending(err)
		},
	)
	return c, nil
}
