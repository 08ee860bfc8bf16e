package rest

import (
	"context"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/util"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/google/uuid"
)

func (api *API) CreateCommunityHelper(ctx context.Context, req model.CreateCommunityRequest, creatorID uuid.UUID) (model.Community, string, string, error) {
	if err := util.ValidateStruct(req); err != nil {
		return model.Community{}, values.Unprocessable, "Community name is required", err
	}

	newCommunity := model.Community{
		Name:      req.Name,
		CreatorID: creatorID,
		ImageURL:  req.ImageURL,
	}
	if req.Description != "" {
		newCommunity.Description = &req.Description
	}

	community, err := api.CreateCommunity(ctx, newCommunity)
	if err != nil {
		return model.Community{}, values.Error, "Failed to create community", err
	}

	// The creator is the first member.
	api.Deps.Cache.SetMemberCount(ctx, community.ID.String(), 1)
	community.MemberCount = 1

	return community, values.Created, "Community created successfully", nil
}

func (api *API) ListCommunitiesHelper(ctx context.Context) ([]model.Community, string, string, error) {
	communities, err := api.ListCommunities(ctx)
	if err != nil {
		return []model.Community{}, values.Error, "Failed to get communities", err
	}

	// Counts come back derived from the same query; prime the cache so the
	// detail page can skip the COUNT.
	for _, community := range communities {
		api.Deps.Cache.SetMemberCount(ctx, community.ID.String(), community.MemberCount)
	}

	return communities, values.Success, "Communities returned successfully", nil
}

func (api *API) GetCommunityHelper(ctx context.Context, communityID, userID uuid.UUID) (model.Community, string, string, error) {
	community, err := api.GetCommunityByID(ctx, communityID)
	if err != nil {
		return model.Community{}, values.NotFound, "Community not found", err
	}

	count, ok := api.Deps.Cache.GetMemberCount(ctx, communityID.String())
	if !ok {
		count, err = api.CountMembers(ctx, communityID)
		if err != nil {
			return model.Community{}, values.Error, "Failed to count members", err
		}
		api.Deps.Cache.SetMemberCount(ctx, communityID.String(), count)
	}
	community.MemberCount = count

	isMember := api.IsMember(ctx, communityID, userID)
	community.IsMember = &isMember

	return community, values.Success, "Community returned successfully", nil
}
