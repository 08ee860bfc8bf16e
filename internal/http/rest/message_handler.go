package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/internal/responder"
	"github.com/comuna-app/comuna_api/util"
	"github.com/comuna-app/comuna_api/util/tracing"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// NormalizeContent trims a message body and reports whether anything is left
// to send. Whitespace-only content must never reach the store.
func NormalizeContent(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	return trimmed, trimmed != ""
}

// AppendMessage validates and stores one chat message, then pushes the stored
// row to the community's live subscribers. The caller is responsible for the
// membership gate.
func AppendMessage(ctx context.Context, store responder.MessageStore, notifier responder.Broadcaster, communityID, userID uuid.UUID, content string) (model.Message, string, string, error) {
	trimmed, ok := NormalizeContent(content)
	if !ok {
		return model.Message{}, values.Unprocessable, "Message content is required", nil
	}

	message, err := store.InsertMessage(ctx, model.Message{
		CommunityID: communityID,
		UserID:      userID,
		Content:     trimmed,
		IsAI:        false,
	})
	if err != nil {
		return model.Message{}, values.Error, "Failed to send message", err
	}

	broadcastMessage(notifier, message)

	return message, values.Created, "Message sent successfully", nil
}

func (api *API) ListMessagesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	communityID, err := util.StringToUUID(chi.URLParam(r, "communityID"))
	if err != nil {
		return respondWithError(err, "invalid community id", values.BadRequestBody, &tc)
	}
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	if !api.IsMember(r.Context(), communityID, userID) {
		return respondWithError(nil, "You need to be a member to access the chat", values.NotAllowed, &tc)
	}

	messages, err := api.ListMessages(r.Context(), communityID)
	if err != nil {
		return respondWithError(err, "Failed to load messages", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Messages returned successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       messages,
	}
}

func (api *API) SendMessageHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	communityID, err := util.StringToUUID(chi.URLParam(r, "communityID"))
	if err != nil {
		return respondWithError(err, "invalid community id", values.BadRequestBody, &tc)
	}
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	if !api.IsMember(r.Context(), communityID, userID) {
		return respondWithError(nil, "You need to be a member to access the chat", values.NotAllowed, &tc)
	}

	var req model.SendMessageRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "Invalid request payload", values.BadRequestBody, &tc)
	}

	message, status, msg, err := AppendMessage(r.Context(), api, api.Deps.WebSocket, communityID, userID, req.Content)
	if err != nil || status != values.Created {
		return respondWithError(err, msg, status, &tc)
	}

	return &ServerResponse{
		Message:    msg,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       message,
	}
}
