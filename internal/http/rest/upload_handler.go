package rest

import (
	"net/http"

	"github.com/comuna-app/comuna_api/util"
	"github.com/comuna-app/comuna_api/util/tracing"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/go-chi/chi/v5"
)

// maxUploadSize bounds community avatar uploads.
const maxUploadSize = 10 << 20 // 10 MB

func (api *API) UploadRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		// Forward a multipart image to the image host; responds with the
		// durable secure URL
		r.Method(http.MethodPost, "/image", Handler(api.UploadImageHandler))
	})

	return mux
}

func (api *API) UploadImageHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return respondWithError(err, "Invalid multipart form", values.BadRequestBody, &tc)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return respondWithError(err, "Missing file field", values.BadRequestBody, &tc)
	}
	defer file.Close()

	url, err := api.Deps.Cloudinary.UploadImageFromReader(r.Context(), file, api.Config.CloudinaryFolder)
	if err != nil {
		return respondWithError(err, "Failed to upload image", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Image uploaded successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       map[string]string{"url": url},
	}
}
