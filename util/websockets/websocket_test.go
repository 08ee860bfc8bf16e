package websockets

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func recvEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data := <-client.Send():
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("unmarshalling event: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatalf("no event delivered to client %s", client.UserID)
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Send():
		t.Fatalf("unexpected event delivered to client %s: %s", client.UserID, data)
	case <-time.After(100 * time.Millisecond):
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBroadcastReachesOnlySubscribedClients(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()

	first := NewClient(nil, "user-a1")
	second := NewClient(nil, "user-a2")
	outsider := NewClient(nil, "user-b")

	manager.Subscribe(first, "room-a")
	manager.Subscribe(second, "room-a")
	manager.Subscribe(outsider, "room-b")

	payload := []byte(`{"content":"hello room a"}`)
	manager.BroadcastToCommunity("room-a", payload)

	for _, client := range []*Client{first, second} {
		event := recvEvent(t, client)
		if event.Type != MsgTypeNewMessage {
			t.Errorf("event type = %q; want %q", event.Type, MsgTypeNewMessage)
		}
		if event.CommunityID != "room-a" {
			t.Errorf("event community = %q; want %q", event.CommunityID, "room-a")
		}
		if string(event.Payload) != string(payload) {
			t.Errorf("event payload = %s; want %s", event.Payload, payload)
		}
	}

	assertNoEvent(t, outsider)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()

	client := NewClient(nil, "user-a")
	manager.Subscribe(client, "room-a")

	manager.BroadcastToCommunity("room-a", []byte(`{"content":"first"}`))
	recvEvent(t, client)

	manager.Unsubscribe(client, "room-a")
	if got := manager.Subscribers("room-a"); got != 0 {
		t.Fatalf("Subscribers after unsubscribe = %d; want 0", got)
	}

	manager.BroadcastToCommunity("room-a", []byte(`{"content":"second"}`))
	assertNoEvent(t, client)
}

// A subscription is authorized once, when it is made. Revoking membership
// afterwards does not silence an already-open subscription; only unsubscribe
// or disconnect does.
func TestStaleSubscriptionSurvivesLeave(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()

	client := NewClient(nil, "user-a")

	member := true
	guard := SubscribeGuard(func(ctx context.Context, communityID, userID string) bool {
		return member
	})

	if !guard(context.Background(), "room-a", client.UserID) {
		t.Fatal("guard rejected an active member")
	}
	manager.Subscribe(client, "room-a")

	member = false

	manager.BroadcastToCommunity("room-a", []byte(`{"content":"after leave"}`))
	event := recvEvent(t, client)
	if event.Type != MsgTypeNewMessage {
		t.Errorf("event type = %q; want %q", event.Type, MsgTypeNewMessage)
	}
}

func TestTrySendDropsWhenBufferFull(t *testing.T) {
	client := NewClient(nil, "user-a")

	for i := 0; i < sendBufferSize; i++ {
		if !client.TrySend([]byte("queued")) {
			t.Fatalf("TrySend failed with %d of %d slots used", i, sendBufferSize)
		}
	}

	if client.TrySend([]byte("overflow")) {
		t.Error("TrySend succeeded on a full buffer; want drop")
	}
}

func TestUnregisterClearsRoomsAndClosesClient(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()

	client := NewClient(nil, "user-a")
	manager.register <- client
	manager.Subscribe(client, "room-a")

	manager.unregister <- client
	waitFor(t, func() bool { return manager.Subscribers("room-a") == 0 })

	select {
	case _, open := <-client.Send():
		if open {
			t.Error("send channel still open after unregister")
		}
	case <-time.After(time.Second):
		t.Error("send channel not closed after unregister")
	}
}
