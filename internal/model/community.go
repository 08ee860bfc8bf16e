package model

import (
	"time"

	"github.com/google/uuid"
)

type Community struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatorID   uuid.UUID `json:"created_by,omitempty"`
	// MemberCount is derived by counting membership rows, never stored.
	MemberCount int        `json:"member_count"`
	IsMember    *bool      `json:"is_member,omitempty"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateCommunityRequest struct {
	Name        string  `json:"name" validate:"required,notblank"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
}
