package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/internal/responder"
	"github.com/google/uuid"
)

func (api *API) messageStore() responder.MessageStore {
	return api
}

// InsertMessage stores one message row; the store assigns id and created_at.
// The returned row carries the author's display fields for broadcast.
func (api *API) InsertMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	var created model.Message

	query := `
        WITH inserted AS (
            INSERT INTO messages (id, community_id, user_id, content, is_ai, created_at)
            VALUES ($1, $2, $3, $4, $5, NOW())
            RETURNING id, community_id, user_id, content, is_ai, created_at
        )
        SELECT i.id, i.community_id, i.user_id, i.content, i.is_ai, i.created_at,
               u.name, u.avatar_url
        FROM inserted i
        JOIN users u ON u.id = i.user_id
    `
	err := api.Deps.DB.Pool().QueryRow(ctx, query,
		uuid.New(), msg.CommunityID, msg.UserID, msg.Content, msg.IsAI,
	).Scan(
		&created.ID, &created.CommunityID, &created.UserID, &created.Content,
		&created.IsAI, &created.CreatedAt, &created.AuthorName, &created.AuthorAvatarURL,
	)
	if err != nil {
		log.Println("error inserting message", err)
		return model.Message{}, err
	}
	return created, nil
}

// ListMessages returns the full ordered history for a community, ascending by
// creation time, with author display fields joined in.
func (api *API) ListMessages(ctx context.Context, communityID uuid.UUID) ([]model.Message, error) {
	query := `
        SELECT m.id, m.community_id, m.user_id, m.content, m.is_ai, m.created_at,
               u.name, u.avatar_url
        FROM messages m
        JOIN users u ON u.id = m.user_id
        WHERE m.community_id = $1
        ORDER BY m.created_at ASC
    `

	rows, err := api.DB.Query(ctx, query, communityID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message

	for rows.Next() {
		var message model.Message
		err := rows.Scan(
			&message.ID, &message.CommunityID, &message.UserID, &message.Content,
			&message.IsAI, &message.CreatedAt, &message.AuthorName, &message.AuthorAvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning messages: %w", err)
		}

		messages = append(messages, message)
	}

	return messages, nil
}

func broadcastMessage(notifier responder.Broadcaster, msg model.Message) {
	if notifier == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Println("error marshalling message for broadcast:", err)
		return
	}
	notifier.BroadcastToCommunity(msg.CommunityID.String(), payload)
}
