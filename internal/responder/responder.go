// Package responder implements the completion endpoint: it stores an incoming
// community message, obtains one AI completion for it, stores the completion
// as an AI-originated message, and returns the completion text.
package responder

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/google/uuid"
)

// MessageStore persists message rows. The store assigns id and created_at.
type MessageStore interface {
	InsertMessage(ctx context.Context, msg model.Message) (model.Message, error)
}

// Completer produces one completion for one user message.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// Broadcaster pushes stored rows to live subscribers. May be nil.
type Broadcaster interface {
	BroadcastToCommunity(communityID string, payload []byte)
}

type chatRequest struct {
	Message     string `json:"message"`
	CommunityID string `json:"communityId"`
	UserID      string `json:"userId"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type handler struct {
	store     MessageStore
	completer Completer
	notifier  Broadcaster
}

// New returns the POST /api/chat handler.
func New(store MessageStore, completer Completer, notifier Broadcaster) http.Handler {
	return &handler{store: store, completer: completer, notifier: notifier}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, chatResponse{Message: "Method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Error in chat API:", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		return
	}

	communityID, err := uuid.Parse(req.CommunityID)
	if err != nil {
		log.Println("Error in chat API: invalid community id:", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		return
	}
	// The caller's identity is taken on trust here, exactly like the
	// original endpoint; membership is not re-verified on this path.
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		log.Println("Error in chat API: invalid user id:", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		return
	}

	userMsg, err := h.store.InsertMessage(r.Context(), model.Message{
		CommunityID: communityID,
		UserID:      userID,
		Content:     req.Message,
		IsAI:        false,
	})
	if err != nil {
		log.Println("Error in chat API:", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		return
	}
	h.broadcast(userMsg)

	// The user message above is already committed; a completion failure from
	// here on leaves it stored.
	completion, err := h.completer.Complete(r.Context(), req.Message)
	if err != nil {
		log.Println("Error in chat API:", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		return
	}

	aiMsg, err := h.store.InsertMessage(r.Context(), model.Message{
		CommunityID: communityID,
		UserID:      userID,
		Content:     completion,
		IsAI:        true,
	})
	if err != nil {
		log.Println("Error in chat API:", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		return
	}
	h.broadcast(aiMsg)

	writeJSON(w, http.StatusOK, chatResponse{Message: completion})
}

func (h *handler) broadcast(msg model.Message) {
	if h.notifier == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Println("error marshalling message for broadcast:", err)
		return
	}
	h.notifier.BroadcastToCommunity(msg.CommunityID.String(), payload)
}

func writeJSON(w http.ResponseWriter, status int, body chatResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("error writing chat response:", err)
	}
}
