package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"feedback_backend/internal/algorithms"
	"feedback_backend/internal/logger"
)

const DefaultPushInterval = 10 * time.Second

// SummarySource produces the summary pushed to subscribers.
type SummarySource interface {
	Current(ctx context.Context) algorithms.Summary
}

// WebSocketManager publishes the live analytics summary. It is idle while
// nobody is subscribed. The first subscriber receives a summary at once and
// arms a shared ticker; every tick computes one summary and pushes it to all
// subscribers. The ticker stops when the last subscriber leaves.
//
// Summaries are computed outside the run loop, so a slow store never holds up
// subscribing or unsubscribing.
type WebSocketManager struct {
	source   SummarySource
	interval time.Duration

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	snapshots  chan snapshot
	done       chan struct{}
	mu         sync.RWMutex
	publishing bool
}

// snapshot is one computed summary. A nil target means every subscriber.
type snapshot struct {
	target  *Client
	payload []byte
}

func NewWebSocketManager(source SummarySource, interval time.Duration) *WebSocketManager {
	if interval <= 0 {
		interval = DefaultPushInterval
	}
	return &WebSocketManager{
		source:     source,
		interval:   interval,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		snapshots:  make(chan snapshot),
		done:       make(chan struct{}),
	}
}

// Run owns the subscriber set and the ticker until ctx is cancelled.
func (manager *WebSocketManager) Run(ctx context.Context) {
	var ticker *time.Ticker
	var tick <-chan time.Time
	broadcasting := false

	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		manager.setPublishing(false)
	}

	defer func() {
		stopTicker()
		manager.mu.Lock()
		for id, client := range manager.clients {
			close(client.Send)
			delete(manager.clients, id)
		}
		manager.mu.Unlock()
		close(manager.done)
		logger.WorkerLog("analytics_publisher", "stop", nil)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.ID] = client
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("Subscriber registered", "client_id", client.ID, "total", total)

			go manager.compute(ctx, client)
			if ticker == nil {
				ticker = time.NewTicker(manager.interval)
				tick = ticker.C
				manager.setPublishing(true)
				logger.Info("Analytics publisher started", "interval", manager.interval.String())
			}

		case client := <-manager.unregister:
			manager.mu.Lock()
			if _, ok := manager.clients[client.ID]; ok {
				close(client.Send)
				delete(manager.clients, client.ID)
			}
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("Subscriber unregistered", "client_id", client.ID, "total", total)

			if total == 0 && ticker != nil {
				stopTicker()
				logger.Info("Analytics publisher idle")
			}

		case <-tick:
			if broadcasting {
				continue
			}
			broadcasting = true
			go manager.compute(ctx, nil)

		case snap := <-manager.snapshots:
			if snap.target == nil {
				broadcasting = false
				if snap.payload != nil {
					manager.broadcast(snap.payload)
				}
				continue
			}
			if snap.payload != nil && manager.subscribed(snap.target) {
				manager.deliver(snap.target, snap.payload)
			}
		}
	}
}

// Subscribe hands the client to the run loop. It reports false once the
// manager has stopped.
func (manager *WebSocketManager) Subscribe(client *Client) bool {
	select {
	case manager.register <- client:
		return true
	case <-manager.done:
		return false
	}
}

// Unsubscribe removes the client. Unknown or already removed clients are ignored.
func (manager *WebSocketManager) Unsubscribe(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

// Count returns the number of live subscribers.
func (manager *WebSocketManager) Count() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

// Publishing reports whether the ticker is armed.
func (manager *WebSocketManager) Publishing() bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.publishing
}

func (manager *WebSocketManager) setPublishing(v bool) {
	manager.mu.Lock()
	manager.publishing = v
	manager.mu.Unlock()
}

// compute builds one summary and hands it back to the run loop. A failed
// encode is still reported so the loop can clear its in-flight state.
func (manager *WebSocketManager) compute(ctx context.Context, target *Client) {
	snap := snapshot{target: target}
	payload, err := json.Marshal(manager.source.Current(ctx))
	if err != nil {
		logger.WorkerLog("analytics_publisher", "marshal_summary", err)
	} else {
		snap.payload = payload
	}

	select {
	case manager.snapshots <- snap:
	case <-ctx.Done():
	}
}

func (manager *WebSocketManager) subscribed(client *Client) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, ok := manager.clients[client.ID]
	return ok
}

func (manager *WebSocketManager) broadcast(payload []byte) {
	manager.mu.RLock()
	clients := make([]*Client, 0, len(manager.clients))
	for _, client := range manager.clients {
		clients = append(clients, client)
	}
	manager.mu.RUnlock()

	for _, client := range clients {
		manager.deliver(client, payload)
	}
}

// deliver never blocks. A subscriber whose buffer is full is dropped.
func (manager *WebSocketManager) deliver(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		manager.mu.Lock()
		if _, ok := manager.clients[client.ID]; ok {
			close(client.Send)
			delete(manager.clients, client.ID)
		}
		manager.mu.Unlock()
		logger.Warn("Subscriber dropped, send buffer full", "client_id", client.ID)
	}
}
