package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"oddslens/src/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// per-client send buffer; a client this far behind is dropped
	sendBuffer = 16
)

// StreamMessage is the envelope pushed to WebSocket clients. Data carries a
// payload matching the corresponding REST response shape.
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Ts   int64       `json:"ts"`
}

// streamClient owns one connection. All writes, pings included, go through
// the send channel and its single write pump: gorilla/websocket allows at
// most one concurrent writer per connection.
type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *streamClient) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped this client.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (c *streamClient) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Hub fans portfolio updates out to connected WebSocket clients. The watcher
// pushes a snapshot every poll; clients that fall behind are dropped rather
// than allowed to block the broadcast. The client map is touched only by Run,
// so no locking is needed.
type Hub struct {
	clients    map[*streamClient]bool
	broadcast  chan []byte
	register   chan *streamClient
	unregister chan *streamClient
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*streamClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
	}
}

func (h *Hub) drop(c *streamClient) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.WebSocketClients.Dec()
	}
}

// Run starts the hub's main event loop. Must be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			metrics.WebSocketClients.Inc()
			logger.WithField("total", len(h.clients)).Info("ws client connected")

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.drop(c)
				}
			}
		}
	}
}

// Broadcast wraps the payload in an envelope and sends it to every connected
// client. Drops the message if the buffer is full so the watcher never
// blocks on a slow consumer.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	msg := StreamMessage{
		Type: messageType,
		Data: data,
		Ts:   time.Now().UnixMilli(),
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		logger.WithError(err).Error("failed to encode stream message")
		return
	}
	select {
	case h.broadcast <- raw:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleWS handles WebSocket upgrade requests at GET /ws/portfolio.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Error("ws upgrade failed")
		return
	}

	c := &streamClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c

	go c.writePump(h)
	go c.readPump(h)
}
