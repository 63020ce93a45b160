// Package feed streams executed trades to websocket subscribers. It only
// carries this platform's own executions; it is not a market data feed.
package feed

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"tradingplatform/src/model"
)

const writeTimeout = 5 * time.Second

// subscriber owns one connection. The websocket package allows at most one
// concurrent writer per connection, so every write takes mu first.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(trade model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(trade)
}

// Hub fans each executed trade out to all connected subscribers.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]*subscriber
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]*subscriber),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away. Subscribers are write-only; inbound messages are
// drained and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("[feed] websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = &subscriber{conn: conn}
	subscribers := len(h.conns)
	h.mu.Unlock()

	logger.WithField("subscribers", subscribers).Info("[feed] subscriber connected")

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends the trade to every subscriber. It is safe to call from
// concurrent request goroutines; writes to each connection are serialized
// through the subscriber's lock. Connections that fail to accept the write
// are dropped.
func (h *Hub) Publish(trade model.Trade) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.conns))
	for _, sub := range h.conns {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(trade); err != nil {
			logger.WithError(err).Debug("[feed] dropping slow subscriber")
			h.drop(sub.conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()

	if ok {
		_ = conn.Close()
	}
}
