package rest

import (
	"context"
	"testing"
	"time"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/google/uuid"
)

type recordingStore struct {
	inserted []model.Message
}

func (s *recordingStore) InsertMessage(_ context.Context, msg model.Message) (model.Message, error) {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	s.inserted = append(s.inserted, msg)
	return msg, nil
}

type recordingNotifier struct {
	communities []string
}

func (n *recordingNotifier) BroadcastToCommunity(communityID string, _ []byte) {
	n.communities = append(n.communities, communityID)
}

func TestNormalizeContent(t *testing.T) {
	testCases := []struct {
		name            string
		content         string
		expectedContent string
		expectedOK      bool
	}{
		{"Empty", "", "", false},
		{"Spaces Only", "   ", "", false},
		{"Tabs And Newlines", "\t\n ", "", false},
		{"Plain Text", "olá pessoal", "olá pessoal", true},
		{"Padded Text", "  olá pessoal\n", "olá pessoal", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			content, ok := NormalizeContent(tc.content)
			if content != tc.expectedContent || ok != tc.expectedOK {
				t.Errorf("NormalizeContent(%q) = (%q, %v); want (%q, %v)",
					tc.content, content, ok, tc.expectedContent, tc.expectedOK)
			}
		})
	}
}

func TestAppendMessageRejectsBlankContent(t *testing.T) {
	store := &recordingStore{}
	notifier := &recordingNotifier{}

	_, status, _, err := AppendMessage(context.Background(), store, notifier, uuid.New(), uuid.New(), "   \n")

	if err != nil {
		t.Fatalf("AppendMessage returned error %v; blank content is not an internal failure", err)
	}
	if status != values.Unprocessable {
		t.Errorf("status = %q; want %q", status, values.Unprocessable)
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted %d messages for blank content; want 0", len(store.inserted))
	}
	if len(notifier.communities) != 0 {
		t.Errorf("broadcast %d events for blank content; want 0", len(notifier.communities))
	}
}

func TestAppendMessageStoresAndBroadcasts(t *testing.T) {
	store := &recordingStore{}
	notifier := &recordingNotifier{}
	communityID := uuid.New()
	userID := uuid.New()

	message, status, _, err := AppendMessage(context.Background(), store, notifier, communityID, userID, "  olá pessoal  ")

	if err != nil {
		t.Fatalf("AppendMessage returned error %v", err)
	}
	if status != values.Created {
		t.Errorf("status = %q; want %q", status, values.Created)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d messages; want 1", len(store.inserted))
	}
	stored := store.inserted[0]
	if stored.Content != "olá pessoal" {
		t.Errorf("stored content = %q; want it trimmed", stored.Content)
	}
	if stored.IsAI {
		t.Error("stored message flagged is_ai; want a user message")
	}
	if stored.CommunityID != communityID || stored.UserID != userID {
		t.Errorf("stored ids = (%s, %s); want (%s, %s)", stored.CommunityID, stored.UserID, communityID, userID)
	}
	if message.ID == uuid.Nil {
		t.Error("returned message missing store-assigned id")
	}

	if len(notifier.communities) != 1 || notifier.communities[0] != communityID.String() {
		t.Errorf("broadcasts = %v; want one to %s", notifier.communities, communityID)
	}
}

func TestIsMemberShortCircuitsOnMissingIDs(t *testing.T) {
	api := &API{}

	testCases := []struct {
		name        string
		communityID uuid.UUID
		userID      uuid.UUID
	}{
		{"Missing User", uuid.New(), uuid.Nil},
		{"Missing Community", uuid.Nil, uuid.New()},
		{"Missing Both", uuid.Nil, uuid.Nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// api.DB is nil here; a hit on the database would panic, which
			// doubles as the proof that absent ids never reach it.
			if api.IsMember(context.Background(), tc.communityID, tc.userID) {
				t.Error("IsMember = true for a missing id; want false")
			}
		})
	}
}
