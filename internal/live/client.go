package live

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yashikaparyani/event-management-backend/internal/models"
)

// Identity is the authenticated caller, resolved once when the connection
// is accepted. Role is the stored role, not a client-declared one.
type Identity struct {
	ID   uint
	Name string
	Role models.Role
}

// Conn is the subset of a websocket connection the live layer uses.
// *websocket.Conn satisfies it; tests substitute a fake.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Message is the wire frame in both directions.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one connected handle. Writes are serialized; gorilla permits
// only one concurrent writer per connection.
type Client struct {
	ID   string
	User Identity

	conn Conn
	mu   sync.Mutex
}

func NewClient(conn Conn, user Identity) *Client {
	return &Client{ID: uuid.NewString(), User: user, conn: conn}
}

func (c *Client) Send(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("ws: write error: %v", err)
	}
}

func (c *Client) Close() {
	c.conn.Close()
}
