// Package client implements the Indrajāla transaction/session layer: a
// session object owning the transport handle, the shared auth token, the
// pending-transaction map, and the subscription registry. One Client per
// logical connection; no package-level state.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/indrajala/indralib/event"
	"github.com/indrajala/indralib/logging"
)

// Handler receives events matched by a subscription filter.
type Handler func(*event.IndraEvent)

// Client correlates outgoing $trx/ requests with their responses and fans
// inbound events out to subscription handlers. All methods are safe for
// concurrent use; request issuance and frame arrival are expected to race.
type Client struct {
	transport Transport
	fromID    string
	log       *logging.Logger

	mu       sync.Mutex
	authHash string
	pending  map[string]*Transaction
	subs     map[string]Handler
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithFromID sets the sender identifier stamped on outgoing envelopes.
func WithFromID(id string) Option {
	return func(c *Client) { c.fromID = id }
}

// New creates a session over an established transport.
func New(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		fromID:    "ws/go",
		log:       logging.Default(),
		pending:   make(map[string]*Transaction),
		subs:      make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthHash returns the current session token, empty when unauthenticated.
func (c *Client) AuthHash() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authHash
}

func (c *Client) setAuthHash(h string) {
	c.mu.Lock()
	c.authHash = h
	c.mu.Unlock()
}

// SetAuthHash adopts a previously issued session token, so callers can
// resume without a fresh Login. The server decides whether it still
// honors the token.
func (c *Client) SetAuthHash(h string) { c.setAuthHash(h) }

// newEvent builds an outgoing envelope stamped with the sender id and the
// session token.
func (c *Client) newEvent(domain, dataType, data string) (*event.IndraEvent, error) {
	ev, err := event.New()
	if err != nil {
		return nil, err
	}
	ev.Domain = domain
	ev.FromID = c.fromID
	ev.DataType = dataType
	ev.Data = data
	ev.AuthHash = c.AuthHash()
	return ev, nil
}

// send serializes and transmits a single envelope.
func (c *Client) send(ctx context.Context, ev *event.IndraEvent) error {
	frame, err := ev.ToJSON()
	if err != nil {
		return err
	}
	return c.transport.Send(ctx, frame)
}

// Request sends a transactional envelope and returns the future that
// resolves when the response with the same id arrives. The caller decides
// how long to wait via the context passed to Await.
func (c *Client) Request(ctx context.Context, ev *event.IndraEvent) (*Transaction, error) {
	if !strings.HasPrefix(ev.Domain, "$trx/") {
		return nil, fmt.Errorf("client: %q is not a transactional domain", ev.Domain)
	}
	trx := newTransaction(ev.ID)
	c.mu.Lock()
	c.pending[ev.ID] = trx
	c.mu.Unlock()

	if err := c.send(ctx, ev); err != nil {
		c.mu.Lock()
		delete(c.pending, ev.ID)
		c.mu.Unlock()
		return nil, err
	}
	return trx, nil
}

// request is the send-and-await shorthand used by the session operations.
func (c *Client) request(ctx context.Context, domain, dataType, data string) (*event.IndraEvent, error) {
	ev, err := c.newEvent(domain, dataType, data)
	if err != nil {
		return nil, err
	}
	trx, err := c.Request(ctx, ev)
	if err != nil {
		return nil, err
	}
	return trx.Await(ctx)
}

// Publish sends a fire-and-forget event on a concrete topic. Topics with
// subscription wildcards are rejected before anything hits the wire.
func (c *Client) Publish(ctx context.Context, domain, dataType, data string) error {
	if err := event.ValidateTopic(domain); err != nil {
		return err
	}
	ev, err := c.newEvent(domain, dataType, data)
	if err != nil {
		return err
	}
	return c.send(ctx, ev)
}

// PublishEvent sends a caller-built envelope, stamping the session token if
// the caller left it empty.
func (c *Client) PublishEvent(ctx context.Context, ev *event.IndraEvent) error {
	if err := event.ValidateTopic(ev.Domain); err != nil {
		return err
	}
	if ev.AuthHash == "" {
		ev.AuthHash = c.AuthHash()
	}
	return c.send(ctx, ev)
}

// Subscribe registers handler for every inbound event whose domain matches
// filter and announces the subscription on $cmd/subs. Re-subscribing the
// same filter replaces its handler.
func (c *Client) Subscribe(ctx context.Context, filter string, handler Handler) error {
	if err := event.ValidateFilter(filter); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("client: nil handler for filter %q", filter)
	}
	data, err := json.Marshal([]string{filter})
	if err != nil {
		return fmt.Errorf("client: encode subscription: %w", err)
	}
	ev, err := c.newEvent("$cmd/subs", "vector/string", string(data))
	if err != nil {
		return err
	}
	if err := c.send(ctx, ev); err != nil {
		return err
	}
	c.mu.Lock()
	c.subs[filter] = handler
	c.mu.Unlock()
	return nil
}

// Unsubscribe removes the filter from the registry and announces it on
// $cmd/unsubs.
func (c *Client) Unsubscribe(ctx context.Context, filter string) error {
	c.mu.Lock()
	_, known := c.subs[filter]
	delete(c.subs, filter)
	c.mu.Unlock()
	if !known {
		return fmt.Errorf("client: not subscribed to %q", filter)
	}
	data, err := json.Marshal([]string{filter})
	if err != nil {
		return fmt.Errorf("client: encode unsubscription: %w", err)
	}
	ev, err := c.newEvent("$cmd/unsubs", "vector/string", string(data))
	if err != nil {
		return err
	}
	return c.send(ctx, ev)
}

// HandleFrame processes one inbound wire frame. Pending transactions are
// checked first by exact id; a match resolves exactly that future and is
// never also delivered to subscribers. Everything else fans out to every
// handler whose filter matches the domain.
func (c *Client) HandleFrame(frame []byte) error {
	ev, err := event.FromJSON(frame)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if trx, ok := c.pending[ev.ID]; ok {
		delete(c.pending, ev.ID)
		c.mu.Unlock()
		trx.resolve(ev)
		return nil
	}
	var handlers []Handler
	for filter, h := range c.subs {
		if event.Match(ev.Domain, filter) {
			handlers = append(handlers, h)
		}
	}
	c.mu.Unlock()

	if len(handlers) == 0 {
		c.log.Debug("unroutable event", logging.Domain(ev.Domain), logging.EventID(ev.ID))
		return nil
	}
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// FailPending rejects every outstanding transaction with err (wrapped in
// ErrConnectionClosed semantics) and clears the session token. The
// transport calls this when the connection drops so futures never hang
// past a noticed disconnect.
func (c *Client) FailPending(err error) {
	if err == nil {
		err = ErrConnectionClosed
	} else {
		err = fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]*Transaction)
	c.authHash = ""
	c.mu.Unlock()

	for _, trx := range pending {
		trx.fail(err)
	}
	if len(pending) > 0 {
		c.log.Warn("failed pending transactions on disconnect", "count", len(pending))
	}
}

// Close shuts the transport down and fails whatever is still pending.
func (c *Client) Close() error {
	err := c.transport.Close()
	c.FailPending(nil)
	return err
}
