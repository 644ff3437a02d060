package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"feedback_backend/internal/algorithms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls atomic.Int32
}

func (s *countingSource) Current(context.Context) algorithms.Summary {
	s.calls.Add(1)
	return algorithms.Summarize(nil, algorithms.SummaryOptions{Now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)})
}

func startManager(t *testing.T, interval time.Duration) (*WebSocketManager, *countingSource) {
	t.Helper()
	source := &countingSource{}
	m := NewWebSocketManager(source, interval)
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-m.done
	})
	return m, source
}

func testClient(m *WebSocketManager) *Client {
	return NewClient(m, nil, "ann")
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("no push received")
		return nil
	}
}

func TestManager_FirstSubscriberGetsImmediatePush(t *testing.T) {
	m, source := startManager(t, time.Hour)
	assert.False(t, m.Publishing())

	c := testClient(m)
	require.True(t, m.Subscribe(c))

	payload := receive(t, c)
	var summary algorithms.Summary
	require.NoError(t, json.Unmarshal(payload, &summary))
	assert.Len(t, summary.Categories, 5)
	assert.Equal(t, int32(1), source.calls.Load())

	assert.Eventually(t, m.Publishing, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, m.Count())
}

func TestManager_TickPushesToEverySubscriber(t *testing.T) {
	m, _ := startManager(t, 20*time.Millisecond)

	a, b := testClient(m), testClient(m)
	require.True(t, m.Subscribe(a))
	require.True(t, m.Subscribe(b))

	// immediate push plus at least one tick each
	for _, c := range []*Client{a, b} {
		receive(t, c)
		receive(t, c)
	}
}

func TestManager_IdleAfterLastSubscriberLeaves(t *testing.T) {
	m, source := startManager(t, 10*time.Millisecond)

	c := testClient(m)
	require.True(t, m.Subscribe(c))
	receive(t, c)

	c.Cancel()
	assert.Eventually(t, func() bool { return !m.Publishing() && m.Count() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	for open {
		_, open = <-c.Send
	}

	calls := source.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, source.calls.Load(), "no summaries are computed while idle")
}

func TestManager_CancelIsIdempotent(t *testing.T) {
	m, _ := startManager(t, time.Hour)

	c := testClient(m)
	require.True(t, m.Subscribe(c))
	receive(t, c)

	c.Cancel()
	c.Cancel()
	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManager_DropsSlowSubscriber(t *testing.T) {
	m, _ := startManager(t, 5*time.Millisecond)

	slow := testClient(m)
	require.True(t, m.Subscribe(slow))

	assert.Eventually(t, func() bool { return m.Count() == 0 }, 2*time.Second, 5*time.Millisecond)

	drained := 0
	for range slow.Send {
		drained++
	}
	assert.Equal(t, sendBuffer, drained)
}

// blockingSource holds every summary until release is closed.
type blockingSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *blockingSource) Current(ctx context.Context) algorithms.Summary {
	s.calls.Add(1)
	select {
	case <-s.release:
	case <-ctx.Done():
	}
	return algorithms.Summarize(nil, algorithms.SummaryOptions{Now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)})
}

func within(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		fn()
	}()
	select {
	case <-finished:
	case <-time.After(d):
		t.Fatal("call blocked behind a pending summary")
	}
}

func TestManager_SlowSummaryDoesNotBlockSubscribers(t *testing.T) {
	source := &blockingSource{release: make(chan struct{})}
	m := NewWebSocketManager(source, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-m.done
	})

	a, b := testClient(m), testClient(m)
	within(t, time.Second, func() { assert.True(t, m.Subscribe(a)) })
	assert.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	within(t, time.Second, func() { assert.True(t, m.Subscribe(b)) })
	within(t, time.Second, a.Cancel)
	assert.Eventually(t, func() bool { return m.Count() == 1 }, time.Second, 5*time.Millisecond)

	close(source.release)
	payload := receive(t, b)
	var summary algorithms.Summary
	require.NoError(t, json.Unmarshal(payload, &summary))

	_, open := <-a.Send
	assert.False(t, open, "a client that left gets no summary")
}

func TestManager_SubscribeAfterStop(t *testing.T) {
	source := &countingSource{}
	m := NewWebSocketManager(source, 0)
	assert.Equal(t, DefaultPushInterval, m.interval)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Run(ctx)

	assert.False(t, m.Subscribe(testClient(m)))
	m.Unsubscribe(testClient(m))
}
