package gatews

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/gate"
)

// Hub fans gate and nudge transitions out to every connected client of a
// user, so open tabs see redirects and the nudge modal at the same time.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Event is the wire format pushed to clients. For "nudge" events Kind is
// "open" or "close"; for "gate" events State carries the new gate state.
type Event struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind,omitempty"`
	State     string `json:"state,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PushNudge forwards a controller transition. Safe to call from timer
// goroutines; the buffered channel keeps controller locks out of I/O.
func (h *Hub) PushNudge(ev gate.NudgeEvent) {
	h.push(&Event{
		Type:      "nudge",
		UserID:    strconv.FormatInt(ev.UserID, 10),
		Kind:      ev.Kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// PushState announces a recomputed gate state for the user.
func (h *Hub) PushState(userID int64, state gate.State) {
	h.push(&Event{
		Type:      "gate",
		UserID:    strconv.FormatInt(userID, 10),
		State:     string(state),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Hub) push(event *Event) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("gate hub: dropping event for user %s, broadcast backlog full", event.UserID)
	}
}

func (h *Hub) deliver(event *Event) {
	encoded, err := json.Marshal(event)
	if err != nil {
		log.Printf("gate hub encode event: %v", err)
		return
	}
	h.sendToUser(event.UserID, encoded)
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump drains the connection until it drops. Clients have nothing to
// say on this channel; inbound payloads are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
