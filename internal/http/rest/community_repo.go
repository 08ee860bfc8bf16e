package rest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (api *API) CreateCommunity(ctx context.Context, community model.Community) (model.Community, error) {
	var createdCommunity model.Community

	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		community.ID = uuid.New()
		community.CreatedAt = time.Now()
		community.UpdatedAt = time.Now()

		query := `
            INSERT INTO communities (id, name, description, image_url, creator_id, is_deleted, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING id, name, description, image_url, creator_id, is_deleted, created_at, updated_at
        `
		err := tx.QueryRow(ctx, query,
			community.ID, community.Name, community.Description, community.ImageURL,
			community.CreatorID, community.IsDeleted, community.CreatedAt, community.UpdatedAt,
		).Scan(
			&createdCommunity.ID, &createdCommunity.Name, &createdCommunity.Description,
			&createdCommunity.ImageURL, &createdCommunity.CreatorID, &createdCommunity.IsDeleted,
			&createdCommunity.CreatedAt, &createdCommunity.UpdatedAt,
		)
		if err != nil {
			return err
		}

		// Insert creator into community_members as admin. Both inserts share
		// the transaction, so a failed membership insert rolls back the
		// community and no orphan is left behind.
		_, err = tx.Exec(ctx, `
            INSERT INTO community_members (id, community_id, user_id, role, joined_at)
            VALUES ($1, $2, $3, 'admin', NOW())
        `, uuid.New(), createdCommunity.ID, createdCommunity.CreatorID)
		return err
	})

	if err != nil {
		log.Println("error creating new community or adding creator to membership", err)
		return model.Community{}, err
	}

	return createdCommunity, nil
}

func (api *API) GetCommunityByID(ctx context.Context, communityID uuid.UUID) (model.Community, error) {
	query := `
        SELECT id, name, description, image_url, creator_id, is_deleted, created_at, updated_at
        FROM communities
        WHERE id = $1 AND is_deleted = FALSE
    `

	var community model.Community
	err := api.Deps.DB.Pool().QueryRow(ctx, query, communityID).Scan(
		&community.ID, &community.Name, &community.Description, &community.ImageURL,
		&community.CreatorID, &community.IsDeleted, &community.CreatedAt, &community.UpdatedAt,
	)

	return community, err
}

func (api *API) ListCommunities(ctx context.Context) ([]model.Community, error) {
	query := `
        SELECT c.id, c.name, c.description, c.image_url, c.creator_id, c.created_at,
               (SELECT COUNT(*) FROM community_members m WHERE m.community_id = c.id) AS member_count
        FROM communities c
        WHERE c.is_deleted = FALSE
        ORDER BY c.created_at DESC
    `

	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying communities: %w", err)
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
			return nil, fmt.Errorf("scanning communities: %w", err)
		}

		communities = append(communities, community)
	}

	return communities, nil
}

func (api *API) CountMembers(ctx context.Context, communityID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM community_members WHERE community_id = $1`
	err := api.DB.QueryRow(ctx, query, communityID).Scan(&count)
	if err != nil {
		log.Println("error counting members", err)
		return 0, err
	}
	return count, nil
}

func (api *API) SoftDeleteCommunity(ctx context.Context, communityID uuid.UUID) error {
	query := `
        UPDATE communities
        SET is_deleted = TRUE, deleted_at = NOW()
        WHERE id = $1
    `
	_, err := api.Deps.DB.Pool().Exec(ctx, query, communityID)
	return err
}
