package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/comuna-app/comuna_api/config"
	deps "github.com/comuna-app/comuna_api/internal/debs"
	"github.com/comuna-app/comuna_api/internal/responder"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
	DB     *pgxpool.Pool
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Hello, World!"))
		},
	)

	mux.Group(func(r chi.Router) {
		r.Use(RequestTracing)

		r.Mount("/auth", api.AuthRoutes())
		r.Mount("/communities", api.CommunityRoutes())
		r.Mount("/users", api.UserRoutes())
		r.Mount("/profile", api.ProfileRoutes())
		r.Mount("/uploads", api.UploadRoutes())
	})

	// The completion endpoint and the socket keep the original surfaces:
	// no tracing headers required, method handling done in the handlers.
	mux.Handle("/api/chat", responder.New(api.messageStore(), api.Deps.Gemini, api.Deps.WebSocket))
	mux.HandleFunc("/ws", api.HandleWebSocket)

	return mux
}

func (a *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	err := a.Server.Shutdown(ctx)
	if err != nil {
		return err
	}
	return nil
}
