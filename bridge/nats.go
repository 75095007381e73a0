package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/indrajala/indralib/logging"
)

// NATSConfig holds broker connection settings.
type NATSConfig struct {
	// URL is the broker address, nats.DefaultURL if empty.
	URL string

	// Name identifies this connection on the broker.
	Name string

	// MaxReconnects and ReconnectWait tune the reconnect policy; zero
	// values keep nats.go defaults.
	MaxReconnects int
	ReconnectWait time.Duration
}

// NATSPublisher republishes bus events onto a NATS broker.
type NATSPublisher struct {
	conn *nats.Conn
	log  *logging.Logger
}

// ConnectNATS establishes the broker connection with reconnect handling.
func ConnectNATS(cfg NATSConfig, log *logging.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = logging.Default()
	}
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	name := cfg.Name
	if name == "" {
		name = "indra-bridge"
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", logging.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}
	if cfg.MaxReconnects != 0 {
		opts = append(opts, nats.MaxReconnects(cfg.MaxReconnects))
	}
	if cfg.ReconnectWait != 0 {
		opts = append(opts, nats.ReconnectWait(cfg.ReconnectWait))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("bridge: connect nats %s: %w", url, err)
	}
	log.Info("nats connected", "url", conn.ConnectedUrl())
	return &NATSPublisher{conn: conn, log: log}, nil
}

// Publish sends one event frame to the broker. The ctx deadline bounds the
// flush, so a slow broker surfaces as an error instead of silent buffering.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("bridge: publish %s: %w", subject, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := p.conn.FlushTimeout(time.Until(deadline)); err != nil {
			return fmt.Errorf("bridge: flush %s: %w", subject, err)
		}
	}
	return nil
}

// Close drains the connection so buffered messages are delivered before the
// socket drops.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("bridge: drain nats: %w", err)
	}
	return nil
}
