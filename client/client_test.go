package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrajala/indralib/event"
)

// fakeTransport records sent frames and never blocks.
type fakeTransport struct {
	mu      sync.Mutex
	frames  [][]byte
	sendErr error
	closed  bool
}

func (f *fakeTransport) Send(_ context.Context, frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) sent(t *testing.T) []*event.IndraEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	evs := make([]*event.IndraEvent, 0, len(f.frames))
	for _, frame := range f.frames {
		ev, err := event.FromJSON(frame)
		require.NoError(t, err)
		evs = append(evs, ev)
	}
	return evs
}

func (f *fakeTransport) last(t *testing.T) *event.IndraEvent {
	t.Helper()
	evs := f.sent(t)
	require.NotEmpty(t, evs)
	return evs[len(evs)-1]
}

// respond builds a response frame reusing the request's id.
func respond(t *testing.T, req *event.IndraEvent, dataType, data, authHash string) []byte {
	t.Helper()
	resp := &event.IndraEvent{
		Domain:    req.Domain,
		FromID:    "server",
		ID:        req.ID,
		TimeStart: req.TimeStart,
		DataType:  dataType,
		Data:      data,
		AuthHash:  authHash,
	}
	frame, err := resp.ToJSON()
	require.NoError(t, err)
	return frame
}

func TestRequest_CorrelatesById(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)

	ev, err := c.newEvent("$trx/kv/req/read", "kvread", `{"key":"k"}`)
	require.NoError(t, err)
	trx, err := c.Request(context.Background(), ev)
	require.NoError(t, err)

	// An unrelated envelope must not resolve the future.
	other, err := event.New()
	require.NoError(t, err)
	other.Domain = "$trx/kv/req/read"
	frame, err := other.ToJSON()
	require.NoError(t, err)
	require.NoError(t, c.HandleFrame(frame))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = trx.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The matching id resolves it.
	require.NoError(t, c.HandleFrame(respond(t, ev, "kvread", `"v"`, "")))
	resp, err := trx.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ev.ID, resp.ID)
	assert.Equal(t, `"v"`, resp.Data)

	// Resolved transactions leave the pending set.
	c.mu.Lock()
	assert.Empty(t, c.pending)
	c.mu.Unlock()
}

func TestRequest_RejectsNonTransactionalDomain(t *testing.T) {
	c := New(&fakeTransport{})
	ev, err := c.newEvent("sensor/temp", "number/float", "1")
	require.NoError(t, err)
	_, err = c.Request(context.Background(), ev)
	assert.Error(t, err)
}

func TestRequest_SendFailureUnregisters(t *testing.T) {
	ft := &fakeTransport{sendErr: errors.New("boom")}
	c := New(ft)
	ev, err := c.newEvent("$trx/kv/req/read", "kvread", "{}")
	require.NoError(t, err)
	_, err = c.Request(context.Background(), ev)
	require.Error(t, err)

	c.mu.Lock()
	assert.Empty(t, c.pending)
	c.mu.Unlock()
}

func TestTransactionResponse_NotDeliveredToSubscribers(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)

	var delivered []*event.IndraEvent
	require.NoError(t, c.Subscribe(context.Background(), "#", func(ev *event.IndraEvent) {
		delivered = append(delivered, ev)
	}))

	ev, err := c.newEvent("$trx/kv/req/read", "kvread", "{}")
	require.NoError(t, err)
	trx, err := c.Request(context.Background(), ev)
	require.NoError(t, err)

	require.NoError(t, c.HandleFrame(respond(t, ev, "kvread", `"v"`, "")))
	_, err = trx.Await(context.Background())
	require.NoError(t, err)
	assert.Empty(t, delivered)
}

func TestSubscribe_FanOutToAllMatchingFilters(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)

	var mu sync.Mutex
	got := map[string]int{}
	handler := func(name string) Handler {
		return func(*event.IndraEvent) {
			mu.Lock()
			got[name]++
			mu.Unlock()
		}
	}
	require.NoError(t, c.Subscribe(context.Background(), "a/+/c", handler("plus")))
	require.NoError(t, c.Subscribe(context.Background(), "a/#", handler("hash")))
	require.NoError(t, c.Subscribe(context.Background(), "x/#", handler("other")))

	ev, err := event.New()
	require.NoError(t, err)
	ev.Domain = "a/b/c"
	frame, err := ev.ToJSON()
	require.NoError(t, err)
	require.NoError(t, c.HandleFrame(frame))

	assert.Equal(t, map[string]int{"plus": 1, "hash": 1}, got)
}

func TestSubscribe_SendsAnnouncement(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)
	require.NoError(t, c.Subscribe(context.Background(), "sensor/#", func(*event.IndraEvent) {}))

	sent := ft.last(t)
	assert.Equal(t, "$cmd/subs", sent.Domain)
	assert.Equal(t, "vector/string", sent.DataType)

	var filters []string
	require.NoError(t, json.Unmarshal([]byte(sent.Data), &filters))
	assert.Equal(t, []string{"sensor/#"}, filters)
}

func TestSubscribe_ReplacesHandlerForSameFilter(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)

	first, second := 0, 0
	require.NoError(t, c.Subscribe(context.Background(), "a/#", func(*event.IndraEvent) { first++ }))
	require.NoError(t, c.Subscribe(context.Background(), "a/#", func(*event.IndraEvent) { second++ }))

	ev, err := event.New()
	require.NoError(t, err)
	ev.Domain = "a/b"
	frame, err := ev.ToJSON()
	require.NoError(t, err)
	require.NoError(t, c.HandleFrame(frame))

	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestSubscribe_Validation(t *testing.T) {
	c := New(&fakeTransport{})
	assert.Error(t, c.Subscribe(context.Background(), "", func(*event.IndraEvent) {}))
	assert.Error(t, c.Subscribe(context.Background(), "a/#/b", func(*event.IndraEvent) {}))
	assert.Error(t, c.Subscribe(context.Background(), "a/#", nil))
}

func TestUnsubscribe(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)
	require.NoError(t, c.Subscribe(context.Background(), "a/#", func(*event.IndraEvent) {}))
	require.NoError(t, c.Unsubscribe(context.Background(), "a/#"))

	sent := ft.last(t)
	assert.Equal(t, "$cmd/unsubs", sent.Domain)

	// Unknown filters are an error.
	assert.Error(t, c.Unsubscribe(context.Background(), "a/#"))
}

func TestPublish(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft, WithFromID("test/sender"))
	c.SetAuthHash("tok")

	require.NoError(t, c.Publish(context.Background(), "sensor/temp/kitchen", "number/float", "21.5"))

	sent := ft.last(t)
	assert.Equal(t, "sensor/temp/kitchen", sent.Domain)
	assert.Equal(t, "test/sender", sent.FromID)
	assert.Equal(t, "number/float", sent.DataType)
	assert.Equal(t, "21.5", sent.Data)
	assert.Equal(t, "tok", sent.AuthHash)
	assert.NotEmpty(t, sent.ID)
	assert.Greater(t, sent.TimeStart, 2450000.0)
}

func TestPublish_RejectsWildcardTopic(t *testing.T) {
	c := New(&fakeTransport{})
	assert.Error(t, c.Publish(context.Background(), "sensor/+/kitchen", "x", "1"))
	assert.Error(t, c.Publish(context.Background(), "sensor/#", "x", "1"))
}

func TestHandleFrame_MalformedFrame(t *testing.T) {
	c := New(&fakeTransport{})
	assert.Error(t, c.HandleFrame([]byte("{not json")))
}

func TestFailPending(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)
	c.SetAuthHash("tok")

	ev, err := c.newEvent("$trx/kv/req/read", "kvread", "{}")
	require.NoError(t, err)
	trx, err := c.Request(context.Background(), ev)
	require.NoError(t, err)

	c.FailPending(errors.New("socket reset"))

	_, err = trx.Await(context.Background())
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.Empty(t, c.AuthHash())

	// Later responses for the failed id are not transactions anymore.
	require.NoError(t, c.HandleFrame(respond(t, ev, "kvread", `"late"`, "")))
}

func TestClose_FailsPending(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)

	ev, err := c.newEvent("$trx/kv/req/read", "kvread", "{}")
	require.NoError(t, err)
	trx, err := c.Request(context.Background(), ev)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.True(t, ft.closed)

	_, err = trx.Await(context.Background())
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestAwait_RemoteError(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft)

	ev, err := c.newEvent("$trx/kv/req/read", "kvread", "{}")
	require.NoError(t, err)
	trx, err := c.Request(context.Background(), ev)
	require.NoError(t, err)

	require.NoError(t, c.HandleFrame(respond(t, ev, "error/kv", "no such key", "")))

	resp, err := trx.Await(context.Background())
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "error/kv", perr.DataType)
	assert.Equal(t, "no such key", perr.Message)
	// The envelope is still available alongside the error.
	require.NotNil(t, resp)
	assert.Equal(t, "no such key", resp.Data)
}
