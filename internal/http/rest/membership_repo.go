package rest

import (
	"context"
	"fmt"
	"log"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/google/uuid"
)

// IsMember is the membership gate: it reports whether a membership row exists
// for the (community, user) pair. An absent user never reaches the database,
// and a query failure is logged and collapsed into "not a member" — callers
// cannot tell a transient backend error from genuine non-membership.
func (api *API) IsMember(ctx context.Context, communityID, userID uuid.UUID) bool {
	if userID == uuid.Nil || communityID == uuid.Nil {
		return false
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2)`
	err := api.DB.QueryRow(ctx, query, communityID, userID).Scan(&exists)
	if err != nil {
		log.Println("error checking membership:", err)
		return false
	}
	return exists
}

func (api *API) InsertMembership(ctx context.Context, communityID, userID uuid.UUID, role string) (model.Membership, error) {
	membership := model.Membership{
		ID:          uuid.New(),
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	}

	// Duplicate joins are suppressed by the unique (community_id, user_id)
	// pair rather than surfaced as an error.
	query := `
        INSERT INTO community_members (id, community_id, user_id, role, joined_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (community_id, user_id) DO NOTHING
        RETURNING joined_at
    `
	err := api.Deps.DB.Pool().QueryRow(ctx, query, membership.ID, communityID, userID, role).Scan(&membership.JoinedAt)
	if err != nil {
		log.Println("error inserting membership", err)
		return model.Membership{}, err
	}
	return membership, nil
}

func (api *API) DeleteMembership(ctx context.Context, communityID, userID uuid.UUID) error {
	query := `DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`
	_, err := api.Deps.DB.Pool().Exec(ctx, query, communityID, userID)
	if err != nil {
		log.Println("error deleting membership", err)
	}
	return err
}

func (api *API) ListMembers(ctx context.Context, communityID uuid.UUID) ([]model.Member, error) {
	query := `
        SELECT m.id, m.community_id, m.user_id, m.role, m.joined_at,
               u.name, u.email, u.avatar_url
        FROM community_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.community_id = $1
        ORDER BY m.joined_at ASC
    `

	rows, err := api.DB.Query(ctx, query, communityID)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	var members []model.Member

	for rows.Next() {
		var member model.Member
		err := rows.Scan(
			&member.ID, &member.CommunityID, &member.UserID, &member.Role, &member.JoinedAt,
			&member.Name, &member.Email, &member.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning members: %w", err)
		}

		members = append(members, member)
	}

	return members, nil
}

func (api *API) ListJoinedCommunities(ctx context.Context, userID uuid.UUID) ([]model.Community, error) {
	query := `
        SELECT c.id, c.name, c.description, c.image_url, c.creator_id, c.created_at,
               (SELECT COUNT(*) FROM community_members mc WHERE mc.community_id = c.id) AS member_count
        FROM communities c
        JOIN community_members m ON m.community_id = c.id
        WHERE m.user_id = $1 AND c.is_deleted = FALSE
        ORDER BY m.joined_at DESC
    `

	rows, err := api.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying joined communities: %w", err)
	}
	defer rows.Close()

	var communities []model.Community

	for rows.Next() {
		var community model.Community
		err := rows.Scan(
			&community.ID, &community.Name, &community.Description, &community.ImageURL,
			&community.CreatorID, &community.CreatedAt, &community.MemberCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning joined communities: %w", err)
		}

		communities = append(communities, community)
	}

	return communities, nil
}
