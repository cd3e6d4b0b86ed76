package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/parley/parley/internal/metrics"
)

// Hub manages all WebSocket client connections and fans broadcast events
// out to every one of them. Registration, unregistration, and broadcast all
// flow through the single Run loop; the client set is additionally guarded
// by a mutex so BroadcastAll can snapshot it from any goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu      sync.RWMutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewHub creates a Hub ready to accept clients. Run must be started in its
// own goroutine before clients connect.
func NewHub(logger *slog.Logger, recorder metrics.Recorder) *Hub {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws.hub"),
		metrics:    recorder,
	}
}

// BroadcastAll delivers the event to every currently connected client.
// Fire-and-forget: marshal failures are logged and dropped, and a client
// whose send buffer is full is disconnected rather than blocking the hub.
// Clients connecting after the call do not receive the event.
func (h *Hub) BroadcastAll(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload", "event", event, "error", err)
		return
	}

	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal broadcast envelope", "event", event, "error", err)
		return
	}

	select {
	case h.broadcast <- frame:
		h.metrics.IncEventBroadcast()
	case <-h.ctx.Done():
	}
}

// Run is the hub's main event loop. It blocks until Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.metrics.SetConnectedClients(int64(count))
			h.logger.Info("client connected",
				"client_id", client.id,
				"remote_addr", client.addr,
				"total_clients", count,
			)

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closed = true
				count := len(h.clients)
				h.mu.Unlock()
				close(client.send)

				h.metrics.SetConnectedClients(int64(count))
				h.logger.Info("client disconnected",
					"client_id", client.id,
					"remote_addr", client.addr,
					"total_clients", count,
				)
			} else {
				h.mu.Unlock()
			}

		case frame := <-h.broadcast:
			h.fanOut(frame)
		}
	}
}

// Shutdown stops the hub, closes every client connection, and waits for the
// pump goroutines to finish or the context deadline to expire.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		h.logger.Info("hub stopped")
		return nil
	case <-ctx.Done():
		h.logger.Warn("hub shutdown timed out")
		return ctx.Err()
	}
}

// fanOut delivers one frame to every registered client, dropping clients
// whose send buffers are full.
func (h *Hub) fanOut(frame []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	var stalled []*Client
	for _, client := range targets {
		if !h.trySend(client, frame) {
			stalled = append(stalled, client)
		}
	}

	h.dropClients(stalled)
}

// trySend queues a frame on the client's send channel without blocking.
func (h *Hub) trySend(client *Client, frame []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client]; !ok || client.closed {
		return false
	}

	select {
	case client.send <- frame:
		return true
	default:
		return false
	}
}

func (h *Hub) dropClients(stalled []*Client) {
	if len(stalled) == 0 {
		return
	}

	h.mu.Lock()
	var toClose []chan []byte
	for _, client := range stalled {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			client.closed = true
			toClose = append(toClose, client.send)

			h.metrics.IncClientDropped()
			h.logger.Warn("client dropped, send buffer full",
				"client_id", client.id,
				"remote_addr", client.addr,
			)
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetConnectedClients(int64(count))
	for _, ch := range toClose {
		close(ch)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			_ = client.conn.Close()
		}
	}

	if len(clients) > 0 {
		h.logger.Info("closed client connections", "count", len(clients))
	}
}

// clientCount returns the number of registered clients.
func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
