package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tevino/abool"
	"github.com/wricardo/maze-solver/maze/runs"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// EventSolved is sent for every recorded run
const EventSolved = "solved"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	Maze  string      `json:"maze"`
	Event string      `json:"event"`
	Run   *runs.Run   `json:"run,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Client represents a WebSocket client subscribed to one maze
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	maze string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by maze id. Only the Run loop writes to it.
	mazes map[string]map[*Client]bool
	mu    sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	done    chan struct{}
	stopped *abool.AtomicBool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		mazes:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		stopped:    abool.New(),
	}
}

// Run starts the hub's event loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client. Safe to call more
// than once.
func (h *Hub) Stop() {
	if h.stopped.SetToIf(false, true) {
		close(h.done)
	}
}

// Stopped reports whether Stop has been called
func (h *Hub) Stopped() bool {
	return h.stopped.IsSet()
}

// ServeWS upgrades the request and subscribes the client to maze
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, maze string) {
	if h.stopped.IsSet() {
		http.Error(w, "hub stopped", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		maze: maze,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastRun notifies a maze's subscribers of a recorded run
func (h *Hub) BroadcastRun(run *runs.Run) {
	if run == nil {
		return
	}
	h.send(&Message{
		Maze:  run.Maze,
		Event: EventSolved,
		Run:   run,
	})
}

// BroadcastEvent sends a custom event to all clients of a maze
func (h *Hub) BroadcastEvent(maze string, event string, data interface{}) {
	h.send(&Message{
		Maze:  maze,
		Event: event,
		Data:  data,
	})
}

func (h *Hub) send(message *Message) {
	if h.stopped.IsSet() {
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// ClientCount returns how many clients are subscribed to maze
func (h *Hub) ClientCount(maze string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.mazes[maze])
}

// registerClient adds a client to a maze
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.mazes[client.maze] == nil {
		h.mazes[client.maze] = make(map[*Client]bool)
	}
	h.mazes[client.maze][client] = true

	log.Printf("Client registered for maze %s (total clients: %d)",
		client.maze, len(h.mazes[client.maze]))
}

// unregisterClient removes a client from a maze
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.mazes[client.maze]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	// Clean up empty mazes
	if len(clients) == 0 {
		delete(h.mazes, client.maze)
	}

	log.Printf("Client unregistered from maze %s (remaining clients: %d)",
		client.maze, len(clients))
}

// broadcastMessage sends a message to all clients of a maze
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.mazes[message.Maze] {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.mazes {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Incoming messages are ignored; reading keeps the connection alive
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
