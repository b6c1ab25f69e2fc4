package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"ruangchat/pkg/logger"
)

// Client represents one WebSocket connection. A user with several tabs open
// holds several clients, so the registry is keyed by connection id.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	done     chan struct{}
	doneOnce sync.Once
}

// NewClient wraps an upgraded connection in a client with a buffered send
// queue.
func NewClient(id, userID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// shutdown marks the client as gone. Send is never closed: projection
// callbacks snapshotted before unregister may still push, and a send on a
// closed channel would panic. Late pushes land in the buffer and are dropped
// when the client is collected.
func (c *Client) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.ID] = client
				m.mutex.Unlock()
				logger.Info("Client registered: %s (user %s)", client.ID, client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.ID]; ok {
					delete(m.clients, client.ID)
					client.shutdown()
				}
				m.mutex.Unlock()
				logger.Info("Client unregistered: %s (user %s)", client.ID, client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Push queues a message for a single client. Messages for unregistered
// clients and messages that find the buffer full are dropped rather than
// blocking the caller.
func (m *Manager) Push(client *Client, message []byte) {
	select {
	case <-client.done:
		return
	default:
	}

	select {
	case client.Send <- message:
	default:
		logger.Warn("Dropping message for slow client %s", client.ID)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Error("Write failed for client %s: %v", c.ID, err)
				return
			}

		case <-c.done:
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
