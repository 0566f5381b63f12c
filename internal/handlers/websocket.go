package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"casino-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const clientSendBuffer = 32

// WebSocketHandler pushes balance and rank-up events to connected clients.
// It implements services.Broadcaster.
type WebSocketHandler struct {
	hub *WebSocketHub
}

type WebSocketHub struct {
	clients    map[int64]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

// Client is one connected account. All frames go out through the send
// channel, drained by a single writer goroutine; the connection itself
// allows only one concurrent writer.
type Client struct {
	UserID int64
	conn   *websocket.Conn
	send   chan *Message
}

type Message struct {
	Type   string      `json:"type"`
	UserID int64       `json:"user_id,omitempty"`
	Data   interface{} `json:"data"`
}

func NewWebSocketHandler() *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		// Guests get no push channel; their balance is returned per request.
		c.JSON(http.StatusForbidden, gin.H{"error": "WebSocket requires an account"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("failed to upgrade to websocket")
		return
	}

	client := &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan *Message, clientSendBuffer),
	}

	h.hub.register <- client
	go client.writePump()

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Warn("websocket error")
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

// writePump is the connection's only writer. It exits when the hub closes
// the send channel on unregister.
func (c *Client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			logrus.WithField("user_id", c.UserID).WithError(err).Debug("websocket write failed")
		}
	}
}

// enqueue hands a frame to the writer, dropping it when the client cannot
// keep up. Pushes are advisory; the profile endpoint remains authoritative.
func (c *Client) enqueue(msg *Message) {
	select {
	case c.send <- msg:
	default:
		logrus.WithField("user_id", c.UserID).Warn("websocket send buffer full, dropping message")
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		client.enqueue(&Message{
			Type: "PONG",
			Data: gin.H{
				"timestamp": time.Now().Unix(),
			},
		})
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			// A reconnect displaces the previous connection; its writer is
			// shut down here and its own unregister becomes a no-op.
			if old, ok := hub.clients[client.UserID]; ok {
				close(old.send)
			}
			hub.clients[client.UserID] = client
			logrus.WithField("user_id", client.UserID).Debug("websocket client registered")

		case client := <-hub.unregister:
			// Only the hub closes send channels, and only after the client
			// leaves the map, so nothing can enqueue afterwards.
			if current, ok := hub.clients[client.UserID]; ok && current == client {
				delete(hub.clients, client.UserID)
				close(client.send)
				logrus.WithField("user_id", client.UserID).Debug("websocket client unregistered")
			}

		case message := <-hub.broadcast:
			hub.send(message)
		}
	}
}

func (hub *WebSocketHub) send(message *Message) {
	if message.UserID != 0 {
		if client, ok := hub.clients[message.UserID]; ok {
			client.enqueue(message)
		}
	} else {
		for _, client := range hub.clients {
			client.enqueue(message)
		}
	}
}

// BroadcastBalanceUpdate implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastBalanceUpdate(userID int64, balance decimal.Decimal) {
	h.hub.broadcast <- &Message{
		Type:   "BALANCE_UPDATE",
		UserID: userID,
		Data: gin.H{
			"balance":   balance,
			"timestamp": time.Now().Unix(),
		},
	}
}

// BroadcastRankUp implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastRankUp(userID int64, rank models.Rank, shopPoints int64) {
	h.hub.broadcast <- &Message{
		Type:   "RANK_UP",
		UserID: userID,
		Data: gin.H{
			"rank":        rank.Name,
			"emoji":       rank.Emoji,
			"index":       rank.Index,
			"shop_points": shopPoints,
			"timestamp":   time.Now().Unix(),
		},
	}
}
