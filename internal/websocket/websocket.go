package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/models"
)

// MessageCountdown carries the schedule countdown text
const MessageCountdown = "countdown"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // OBS browser sources connect from file:// and arbitrary hosts
	},
}

// Hub fans display updates out to every connected page. The newest message of
// each type is retained and replayed on connect, so a display opened mid-event
// renders immediately.
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	latest     map[string]models.WSMessage
	order      []string // message types in first-seen order
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage
}

// New creates a new Hub instance
func New(log logger.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WSMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		latest:     make(map[string]models.WSMessage),
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.sendLatest(client)
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			if _, seen := h.latest[message.Type]; !seen {
				h.order = append(h.order, message.Type)
			}
			h.latest[message.Type] = message
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// sendLatest replays the retained messages to a newly registered client.
// Caller holds h.mutex.
func (h *Hub) sendLatest(client *Client) {
	for _, t := range h.order {
		select {
		case client.send <- h.latest[t]:
		default:
			return
		}
	}
}

// ClientCount reports the number of connected displays
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// BroadcastMessage sends a message to all connected clients.
// Implements services.Broadcaster.
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	h.broadcast <- models.WSMessage{
		Type:    msgType,
		Payload: payload,
	}
}

// Latest returns the last message broadcast with msgType
func (h *Hub) Latest(msgType string) (models.WSMessage, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	msg, ok := h.latest[msgType]
	return msg, ok
}

// readPump drains the connection until it closes, keeping pong deadlines fresh
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Displays are receive-only; incoming messages are logged and dropped
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump writes queued messages and periodic pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and registers the display with the hub
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, sendBuffer),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// StartCountdown broadcasts the countdown text once a second whenever it
// changes, until ctx is cancelled.
func (h *Hub) StartCountdown(ctx context.Context, countdown func(now time.Time) string) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			h.log.Info("Countdown stopped")
			return
		case now := <-ticker.C:
			last = h.updateCountdown(countdown(now), last)
		}
	}
}

// updateCountdown broadcasts value when it differs from last and returns it
func (h *Hub) updateCountdown(value, last string) string {
	if value == last {
		return last
	}
	h.BroadcastMessage(MessageCountdown, map[string]string{"countdown": value})
	return value
}
