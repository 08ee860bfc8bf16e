package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	UserID      uuid.UUID `json:"user_id"`
	Content     string    `json:"content"`
	IsAI        bool      `json:"is_ai"`
	CreatedAt   time.Time `json:"created_at"`
	// Author display fields, joined from the profile row. Empty for rows
	// that have not been read back with the join.
	AuthorName      string  `json:"author_name,omitempty"`
	AuthorAvatarURL *string `json:"author_avatar_url,omitempty"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,notblank"`
}
