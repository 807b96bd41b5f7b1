package frontend

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mwuertinger/nest-events/pkg/event"
)

const (
	clientBuffer = 16
	writeTimeout = 5 * time.Second
)

// Hub pushes a summary of every handled message to all connected websocket
// clients. Slow clients miss messages instead of blocking the sender.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex // protects everything below
	closed  bool
	clients map[chan event.Summary]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan event.Summary]struct{})}
}

func (h *Hub) HandleEvent(ctx context.Context, msg *event.Message) error {
	summary, err := event.Summarize(msg)
	if err != nil {
		return err
	}
	h.Broadcast(summary)
	return nil
}

func (h *Hub) Broadcast(summary event.Summary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c <- summary:
		default:
		}
	}
}

func (h *Hub) subscribe() (chan event.Summary, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	c := make(chan event.Summary, clientBuffer)
	h.clients[c] = struct{}{}
	return c, true
}

func (h *Hub) unsubscribe(c chan event.Summary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c)
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	c, ok := h.subscribe()
	if !ok {
		return
	}
	defer h.unsubscribe(c)

	// The client never sends anything; reading detects when it goes away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case summary, ok := <-c:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(writeTimeout))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(summary); err != nil {
				log.Printf("websocket write: %v", err)
				return
			}
		case <-gone:
			return
		}
	}
}
