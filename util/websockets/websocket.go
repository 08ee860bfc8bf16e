package websockets

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SubscribeGuard decides whether a user may subscribe to a community's
// message events. It is evaluated once per subscribe request.
type SubscribeGuard func(ctx context.Context, communityID, userID string) bool

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage),
	}
}

// Run starts the WebSocket manager
func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client] = struct{}{}
			manager.mu.Unlock()

		case client := <-manager.unregister:
			manager.mu.Lock()
			if _, exists := manager.clients[client]; exists {
				delete(manager.clients, client)
				manager.dropFromRoomsLocked(client)
				client.close()
				log.Printf("Client %s disconnected", client.UserID)
			}
			manager.mu.Unlock()

		case msg := <-manager.broadcast:
			manager.mu.Lock()
			for client := range manager.rooms[msg.CommunityID] {
				if !client.TrySend(msg.Data) {
					log.Printf("dropping event for slow client %s", client.UserID)
				}
			}
			manager.mu.Unlock()
		}
	}
}

// Subscribe adds the client to a community's event channel. Authorization is
// the caller's responsibility; the hub only routes.
func (manager *WebSocketManager) Subscribe(client *Client, communityID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.rooms[communityID] == nil {
		manager.rooms[communityID] = make(map[*Client]struct{})
	}
	manager.rooms[communityID][client] = struct{}{}
}

// Unsubscribe releases the client's subscription to a community.
func (manager *WebSocketManager) Unsubscribe(client *Client, communityID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if room, ok := manager.rooms[communityID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(manager.rooms, communityID)
		}
	}
}

// Subscribers reports how many clients are subscribed to a community.
func (manager *WebSocketManager) Subscribers(communityID string) int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.rooms[communityID])
}

func (manager *WebSocketManager) dropFromRoomsLocked(client *Client) {
	for communityID, room := range manager.rooms {
		delete(room, client)
		if len(room) == 0 {
			delete(manager.rooms, communityID)
		}
	}
}

// BroadcastToCommunity pushes a stored message row to every client subscribed
// to the community, and no one else.
func (manager *WebSocketManager) BroadcastToCommunity(communityID string, payload []byte) {
	data, err := json.Marshal(Event{
		Type:        MsgTypeNewMessage,
		CommunityID: communityID,
		Payload:     payload,
	})
	if err != nil {
		log.Println("error marshalling broadcast event:", err)
		return
	}
	manager.broadcast <- roomMessage{CommunityID: communityID, Data: data}
}

// HandleConnections upgrades HTTP requests to WebSocket connections
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request, userID string, guard SubscribeGuard) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := NewClient(conn, userID)
	manager.register <- client

	go writePump(client)

	defer func() {
		manager.unregister <- client
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var message InboundMessage
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		switch message.Type {
		case MsgTypeSubscribe:
			if message.CommunityID == "" {
				sendEvent(client, Event{Type: MsgTypeError, Message: "community_id is required"})
				continue
			}
			// Membership is checked once here; it is not re-evaluated for
			// each delivered event.
			if guard != nil && !guard(r.Context(), message.CommunityID, userID) {
				sendEvent(client, Event{Type: MsgTypeError, CommunityID: message.CommunityID, Message: "not a member"})
				continue
			}
			manager.Subscribe(client, message.CommunityID)
			sendEvent(client, Event{Type: MsgTypeSubscribed, CommunityID: message.CommunityID})

		case MsgTypeUnsubscribe:
			manager.Unsubscribe(client, message.CommunityID)
		}
	}
}

func writePump(client *Client) {
	for msg := range client.Send() {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func sendEvent(client *Client, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("error marshalling event:", err)
		return
	}
	client.TrySend(data)
}
