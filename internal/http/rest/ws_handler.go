package rest

import (
	"context"
	"net/http"

	"github.com/comuna-app/comuna_api/util"
)

// HandleWebSocket upgrades the connection and hands it to the hub. The access
// token travels as a query parameter because browsers cannot set headers on
// websocket dials.
func (api *API) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := api.verifyToken(token, false)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	api.Deps.WebSocket.HandleConnections(w, r, claims.UserID, api.subscribeGuard)
}

// subscribeGuard adapts the membership gate for the hub. It runs once per
// subscribe request; membership changes after that are not re-checked for
// the lifetime of the subscription.
func (api *API) subscribeGuard(ctx context.Context, communityID, userID string) bool {
	cid, err := util.StringToUUID(communityID)
	if err != nil {
		return false
	}
	uid, err := util.StringToUUID(userID)
	if err != nil {
		return false
	}
	return api.IsMember(ctx, cid, uid)
}
