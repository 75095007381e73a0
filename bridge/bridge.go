// Package bridge republishes Indrajāla bus events to an external message
// broker. It plays the role the original daemon's MQTT bridge played:
// subscribe to a topic filter, forward every matched envelope verbatim to
// the broker under a mapped subject.
package bridge

import (
	"context"
	"time"

	"github.com/indrajala/indralib/client"
	"github.com/indrajala/indralib/event"
	"github.com/indrajala/indralib/logging"
)

// Publisher is the broker side of the bridge.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// Bridge forwards events matching Filter from a session to a Publisher.
type Bridge struct {
	client *client.Client
	pub    Publisher
	log    *logging.Logger

	// Filter is the subscription filter; "#" forwards everything.
	Filter string

	// Prefix namespaces broker subjects, DefaultPrefix if empty.
	Prefix string

	// PublishTimeout bounds each broker publish; zero means 5s.
	PublishTimeout time.Duration
}

// New creates a bridge between a connected session and a broker publisher.
func New(c *client.Client, pub Publisher, filter string, log *logging.Logger) *Bridge {
	if log == nil {
		log = logging.Default()
	}
	return &Bridge{client: c, pub: pub, log: log, Filter: filter, Prefix: DefaultPrefix}
}

// Run subscribes the bridge's filter and forwards matches until the
// subscription is torn down. Broker failures are logged per event, not
// fatal; the bus must not stall because the broker hiccups.
func (b *Bridge) Run(ctx context.Context) error {
	timeout := b.PublishTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return b.client.Subscribe(ctx, b.Filter, func(ev *event.IndraEvent) {
		frame, err := ev.ToJSON()
		if err != nil {
			b.log.Warn("bridge: skip unencodable event", logging.EventID(ev.ID), logging.Error(err))
			return
		}
		pctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		subject := Subject(b.Prefix, ev.Domain)
		if err := b.pub.Publish(pctx, subject, frame); err != nil {
			b.log.Warn("bridge: publish failed",
				logging.Domain(ev.Domain), "subject", subject, logging.Error(err))
		}
	})
}

// Stop unsubscribes the filter and closes the broker connection.
func (b *Bridge) Stop(ctx context.Context) error {
	err := b.client.Unsubscribe(ctx, b.Filter)
	if cerr := b.pub.Close(); err == nil {
		err = cerr
	}
	return err
}
