package responder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/google/uuid"
)

type fakeStore struct {
	inserted []model.Message
	failNext bool
}

func (s *fakeStore) InsertMessage(_ context.Context, msg model.Message) (model.Message, error) {
	if s.failNext {
		return model.Message{}, errors.New("store unavailable")
	}
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	s.inserted = append(s.inserted, msg)
	return msg, nil
}

type fakeCompleter struct {
	reply string
	err   error
}

func (c *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	return c.reply, c.err
}

type fakeNotifier struct {
	communities []string
}

func (n *fakeNotifier) BroadcastToCommunity(communityID string, _ []byte) {
	n.communities = append(n.communities, communityID)
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response body: %v", err)
	}
	return resp.Message
}

func TestChatStoresUserAndAIMessages(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	h := New(store, &fakeCompleter{reply: "Olá! Como posso ajudar?"}, notifier)

	communityID := uuid.New()
	userID := uuid.New()
	body := `{"message":"alguém por aí?","communityId":"` + communityID.String() + `","userId":"` + userID.String() + `"}`

	rec := postChat(t, h, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if got := decodeReply(t, rec); got != "Olá! Como posso ajudar?" {
		t.Errorf("reply = %q; want the completion text", got)
	}

	if len(store.inserted) != 2 {
		t.Fatalf("inserted %d messages; want 2", len(store.inserted))
	}

	userMsg := store.inserted[0]
	if userMsg.IsAI || userMsg.Content != "alguém por aí?" || userMsg.UserID != userID || userMsg.CommunityID != communityID {
		t.Errorf("first insert = %+v; want the user's message as-is", userMsg)
	}

	aiMsg := store.inserted[1]
	if !aiMsg.IsAI {
		t.Error("second insert not flagged is_ai")
	}
	if aiMsg.Content != "Olá! Como posso ajudar?" {
		t.Errorf("AI content = %q; want the completion text", aiMsg.Content)
	}
	// The completion row is attributed to the requesting user, not a
	// dedicated bot account.
	if aiMsg.UserID != userID {
		t.Errorf("AI message user = %s; want the requester %s", aiMsg.UserID, userID)
	}

	if len(notifier.communities) != 2 || notifier.communities[0] != communityID.String() || notifier.communities[1] != communityID.String() {
		t.Errorf("broadcasts = %v; want two to %s", notifier.communities, communityID)
	}
}

func TestChatRejectsNonPost(t *testing.T) {
	store := &fakeStore{}
	h := New(store, &fakeCompleter{reply: "unused"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := decodeReply(t, rec); got != "Method not allowed" {
		t.Errorf("reply = %q; want %q", got, "Method not allowed")
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted %d messages on a rejected method; want 0", len(store.inserted))
	}
}

func TestChatMalformedBody(t *testing.T) {
	store := &fakeStore{}
	h := New(store, &fakeCompleter{reply: "unused"}, nil)

	rec := postChat(t, h, `{"message":`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := decodeReply(t, rec); got != "Internal server error" {
		t.Errorf("reply = %q; want %q", got, "Internal server error")
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted %d messages on a malformed body; want 0", len(store.inserted))
	}
}

func TestChatInvalidIdentifiers(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"Bad Community", `{"message":"oi","communityId":"not-a-uuid","userId":"` + uuid.New().String() + `"}`},
		{"Bad User", `{"message":"oi","communityId":"` + uuid.New().String() + `","userId":"not-a-uuid"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			h := New(store, &fakeCompleter{reply: "unused"}, nil)

			rec := postChat(t, h, tc.body)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
			}
			if len(store.inserted) != 0 {
				t.Errorf("inserted %d messages; want 0", len(store.inserted))
			}
		})
	}
}

func TestChatCompleterFailureKeepsUserMessage(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	h := New(store, &fakeCompleter{err: errors.New("model unavailable")}, notifier)

	body := `{"message":"oi","communityId":"` + uuid.New().String() + `","userId":"` + uuid.New().String() + `"}`
	rec := postChat(t, h, body)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := decodeReply(t, rec); got != "Internal server error" {
		t.Errorf("reply = %q; want %q", got, "Internal server error")
	}

	// The user message is committed before the completion is attempted; the
	// failure does not roll it back.
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d messages; want the user message only", len(store.inserted))
	}
	if store.inserted[0].IsAI {
		t.Error("surviving message flagged is_ai; want the user's message")
	}
	if len(notifier.communities) != 1 {
		t.Errorf("broadcasts = %d; want 1 for the stored user message", len(notifier.communities))
	}
}

func TestChatStoreFailure(t *testing.T) {
	store := &fakeStore{failNext: true}
	h := New(store, &fakeCompleter{reply: "unused"}, nil)

	body := `{"message":"oi","communityId":"` + uuid.New().String() + `","userId":"` + uuid.New().String() + `"}`
	rec := postChat(t, h, body)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted %d messages; want 0", len(store.inserted))
	}
}
