package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/indrajala/indralib/event"
)

// ErrConnectionClosed is delivered to every pending transaction when the
// transport drops before the response arrives.
var ErrConnectionClosed = errors.New("client: connection closed")

// ProtocolError is a remote refusal: the peer answered the transaction but
// flagged the result as an error (data_type prefixed "error"). It is the
// resolved outcome of a future, distinct from transport or input failures.
type ProtocolError struct {
	DataType string
	Message  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("client: remote error (%s): %s", e.DataType, e.Message)
}

// Transaction is a one-shot future for a request envelope sent into the
// $trx/ namespace. It resolves when an inbound envelope carrying the same
// id arrives, or fails when the connection is lost.
type Transaction struct {
	id   string
	done chan struct{}
	once sync.Once

	ev  *event.IndraEvent
	err error
}

func newTransaction(id string) *Transaction {
	return &Transaction{id: id, done: make(chan struct{})}
}

// ID returns the correlation id of the request envelope.
func (t *Transaction) ID() string { return t.id }

func (t *Transaction) resolve(ev *event.IndraEvent) {
	t.once.Do(func() {
		t.ev = ev
		close(t.done)
	})
}

func (t *Transaction) fail(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Await blocks until the response arrives, the transaction fails, or ctx is
// done. A ProtocolError is returned when the remote answered with an error
// payload; the response envelope is still returned alongside it.
func (t *Transaction) Await(ctx context.Context) (*event.IndraEvent, error) {
	select {
	case <-t.done:
		if t.err != nil {
			return nil, t.err
		}
		if perr := remoteError(t.ev); perr != nil {
			return t.ev, perr
		}
		return t.ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// remoteError inspects a response envelope for the remote error convention.
func remoteError(ev *event.IndraEvent) *ProtocolError {
	if ev != nil && strings.HasPrefix(ev.DataType, "error") {
		return &ProtocolError{DataType: ev.DataType, Message: ev.Data}
	}
	return nil
}
