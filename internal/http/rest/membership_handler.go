package rest

import (
	"net/http"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/util"
	"github.com/comuna-app/comuna_api/util/tracing"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) UserRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		// Communities the user has joined and the subset they created
		r.Method(http.MethodGet, "/me/communities", Handler(api.MyCommunitiesHandler))
	})

	return mux
}

func (api *API) JoinCommunityHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	communityID, err := util.StringToUUID(chi.URLParam(r, "communityID"))
	if err != nil {
		return respondWithError(err, "invalid community id", values.BadRequestBody, &tc)
	}
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	// Joining twice is a no-op, not an error.
	if api.IsMember(r.Context(), communityID, userID) {
		return &ServerResponse{
			Message:    "Already a member",
			Status:     values.Success,
			StatusCode: util.StatusCode(values.Success),
		}
	}

	if _, err := api.GetCommunityByID(r.Context(), communityID); err != nil {
		return respondWithError(err, "Community not found", values.NotFound, &tc)
	}

	membership, err := api.InsertMembership(r.Context(), communityID, userID, model.RoleMember)
	if err != nil {
		return respondWithError(err, "Failed to join community", values.Error, &tc)
	}

	api.Deps.Cache.InvalidateMemberCount(r.Context(), communityID.String())

	return &ServerResponse{
		Message:    "Joined community successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       membership,
	}
}

func (api *API) LeaveCommunityHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	communityID, err := util.StringToUUID(chi.URLParam(r, "communityID"))
	if err != nil {
		return respondWithError(err, "invalid community id", values.BadRequestBody, &tc)
	}
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	if err := api.DeleteMembership(r.Context(), communityID, userID); err != nil {
		return respondWithError(err, "Failed to leave community", values.Error, &tc)
	}

	api.Deps.Cache.InvalidateMemberCount(r.Context(), communityID.String())

	return &ServerResponse{
		Message:    "Left community successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) ListMembersHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	communityID, err := util.StringToUUID(chi.URLParam(r, "communityID"))
	if err != nil {
		return respondWithError(err, "invalid community id", values.BadRequestBody, &tc)
	}

	members, err := api.ListMembers(r.Context(), communityID)
	if err != nil {
		return respondWithError(err, "Failed to get members", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Members returned successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       members,
	}
}

func (api *API) MyCommunitiesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	joined, err := api.ListJoinedCommunities(r.Context(), userID)
	if err != nil {
		return respondWithError(err, "Failed to get communities", values.Error, &tc)
	}

	created := make([]model.Community, 0, len(joined))
	for _, community := range joined {
		if community.CreatorID == userID {
			created = append(created, community)
		}
	}

	return &ServerResponse{
		Message:    "Communities returned successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"joined":  joined,
			"created": created,
		},
	}
}
