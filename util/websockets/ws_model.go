package websockets

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypeSubscribed  = "subscribed"
	MsgTypeNewMessage  = "new_message"
	MsgTypeError       = "error"
)

// sendBufferSize bounds the per-client outbound queue; a client that cannot
// drain it loses events rather than blocking the hub.
const sendBufferSize = 16

// Client represents a connected WebSocket user
type Client struct {
	Conn      *websocket.Conn
	UserID    string
	send      chan []byte
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, userID string) *Client {
	return &Client{
		Conn:   conn,
		UserID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// TrySend queues a message for delivery without blocking. Returns false when
// the client's buffer is full and the message was dropped.
func (c *Client) TrySend(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Send exposes the outbound queue for the write pump.
func (c *Client) Send() <-chan []byte {
	return c.send
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

type WebSocketManager struct {
	clients    map[*Client]struct{}
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	mu         sync.Mutex
}

type roomMessage struct {
	CommunityID string
	Data        []byte
}

// Event is the envelope pushed to subscribed clients when a message row is
// inserted for a community.
type Event struct {
	Type        string          `json:"type"`
	CommunityID string          `json:"community_id"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// InboundMessage is what connected clients send over the socket.
type InboundMessage struct {
	Type        string `json:"type"`
	CommunityID string `json:"community_id"`
}
