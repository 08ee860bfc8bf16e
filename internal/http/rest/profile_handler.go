package rest

import (
	"context"
	"net/http"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/util"
	"github.com/comuna-app/comuna_api/util/tracing"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (api *API) ProfileRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		r.Method(http.MethodGet, "/", Handler(api.GetProfileHandler))
		r.Method(http.MethodPut, "/avatar", Handler(api.UpdateAvatarHandler))
	})

	return mux
}

func (api *API) GetProfileHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	user, err := api.GetUserByID(r.Context(), userID.String())
	if err != nil {
		return respondWithError(err, "user not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Profile returned successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       user,
	}
}

func (api *API) UpdateAvatarHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	var req model.UpdateAvatarRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "Invalid request payload", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "A valid avatar URL is required", values.Unprocessable, &tc)
	}

	if err := api.UpdateAvatarRepo(r.Context(), userID, req.AvatarURL); err != nil {
		return respondWithError(err, "Failed to update avatar", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Avatar updated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) UpdateAvatarRepo(ctx context.Context, userID uuid.UUID, avatarURL string) error {
	stmt := `
        UPDATE users
        SET avatar_url = $2, updated_at = NOW()
        WHERE id = $1
    `
	_, err := api.Deps.DB.Pool().Exec(ctx, stmt, userID, avatarURL)
	if err != nil {
		return err
	}
	return nil
}
