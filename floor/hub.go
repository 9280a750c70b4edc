// Package floor pushes table and reservation changes to connected host stands over websockets.
package floor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/utils"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a client may fall behind before it is dropped.
	sendBuffer = 32
)

type client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

// Hub holds the connected floor clients. Publish never waits on a client's socket; each
// client has its own writer goroutine fed through a buffered channel.
type Hub struct {
	clients map[*client]struct{}
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Serve upgrades the request and keeps the connection registered until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, role string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}
	h.register(c)
	defer h.unregister(c)
	go c.writePump()

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// writePump is the only writer on the connection. It closes the connection when send is
// closed or a write fails.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			utils.ErrorLogger.WithField("role", c.role).Errorf("floor write failed: %v", err)
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[c] = struct{}{}
	utils.InfoLogger.WithField("role", c.role).Debug("floor client connected")
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues the event for every client. A client whose queue is full is dropped.
func (h *Hub) Publish(_ context.Context, evt events.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.WithFields(logrus.Fields{
				"event": evt.Type,
				"role":  c.role,
			}).Error("floor client fell behind, dropping it")
			h.removeLocked(c)
		}
	}
	return nil
}
