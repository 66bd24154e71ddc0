package live

import (
	"log"
	"sync"
)

// Hub is the room registry and broadcast dispatcher for one activity type:
// it maps a session id to the set of connected clients and each client back
// to its room. One Hub instance exists per activity (quiz, debate), owned
// by the gateway; there is no package-global state.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[uint]map[*Client]struct{}
	byClient map[*Client]uint
}

func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[uint]map[*Client]struct{}),
		byClient: make(map[*Client]uint),
	}
}

// Join adds the client to the session's room. Idempotent; a client already
// in another room of this hub is moved.
func (h *Hub) Join(sessionID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.byClient[c]; ok {
		if prev == sessionID {
			return
		}
		h.removeLocked(prev, c)
	}

	if h.rooms[sessionID] == nil {
		h.rooms[sessionID] = make(map[*Client]struct{})
	}
	h.rooms[sessionID][c] = struct{}{}
	h.byClient[c] = sessionID
	log.Printf("ws: client %s joined session %d (total: %d)", c.ID, sessionID, len(h.rooms[sessionID]))
}

// Leave removes the client from whatever room it is in. No-op if absent.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessionID, ok := h.byClient[c]
	if !ok {
		return
	}
	h.removeLocked(sessionID, c)
	log.Printf("ws: client %s left session %d", c.ID, sessionID)
}

func (h *Hub) removeLocked(sessionID uint, c *Client) {
	delete(h.byClient, c)
	if conns, ok := h.rooms[sessionID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

func (h *Hub) Members(sessionID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*Client, 0, len(h.rooms[sessionID]))
	for c := range h.rooms[sessionID] {
		members = append(members, c)
	}
	return members
}

// Room reports which session the client currently belongs to.
func (h *Hub) Room(c *Client) (uint, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sessionID, ok := h.byClient[c]
	return sessionID, ok
}

// Broadcast delivers the event to every member of the room. At-most-once
// per connected handle; a handle that disconnected simply misses it.
func (h *Hub) Broadcast(sessionID uint, event string, data interface{}) {
	for _, c := range h.Members(sessionID) {
		c.Send(event, data)
	}
}

// UnicastUser delivers the event to every handle of one user within the
// room (a user may hold several connections).
func (h *Hub) UnicastUser(sessionID, userID uint, event string, data interface{}) {
	for _, c := range h.Members(sessionID) {
		if c.User.ID == userID {
			c.Send(event, data)
		}
	}
}
