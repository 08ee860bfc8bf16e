package rest

import (
	"net/http"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/util"
	"github.com/comuna-app/comuna_api/util/tracing"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) CommunityRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		// Create a community; the creator becomes its first admin member
		r.Method(http.MethodPost, "/", Handler(api.CreateCommunityHandler))
		// List all communities with derived member counts
		r.Method(http.MethodGet, "/", Handler(api.ListCommunitiesHandler))
		// Full details of one community, incl. member count and whether the
		// caller is a member
		r.Method(http.MethodGet, "/{communityID}", Handler(api.GetCommunityByIDHandler))
		// Member roster with profile display fields
		r.Method(http.MethodGet, "/{communityID}/members", Handler(api.ListMembersHandler))
		// Join / leave
		r.Method(http.MethodPost, "/{communityID}/join", Handler(api.JoinCommunityHandler))
		r.Method(http.MethodDelete, "/{communityID}/leave", Handler(api.LeaveCommunityHandler))
		// Member-gated chat history and append
		r.Method(http.MethodGet, "/{communityID}/messages", Handler(api.ListMessagesHandler))
		r.Method(http.MethodPost, "/{communityID}/messages", Handler(api.SendMessageHandler))
	})

	return mux
}

func (api *API) CreateCommunityHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateCommunityRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "Invalid request payload", values.BadRequestBody, &tc)
	}
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	community, status, message, err := api.CreateCommunityHelper(r.Context(), req, userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       community,
	}
}

func (api *API) ListCommunitiesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	communities, status, message, err := api.ListCommunitiesHelper(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get communities", values.Failed, &tc)
	}
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       communities,
	}
}

func (api *API) GetCommunityByIDHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	communityID, err := util.StringToUUID(chi.URLParam(r, "communityID"))
	if err != nil {
		return respondWithError(err, "invalid community id", values.BadRequestBody, &tc)
	}
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	community, status, message, err := api.GetCommunityHelper(r.Context(), communityID, userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       community,
	}
}
