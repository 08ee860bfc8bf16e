package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// api.DB is nil in these tests: a request that got past RequireLogin and into
// a repository would panic, so a clean 401 doubles as proof that rejection
// happens before any query.
func TestMessageHistoryRequiresAuthentication(t *testing.T) {
	api := testAPI()
	router := api.CommunityRoutes()

	target := "/" + uuid.New().String() + "/messages"

	testCases := []struct {
		name          string
		authorization string
	}{
		{"No Header", ""},
		{"Not Bearer", "Basic dXNlcjpwYXNz"},
		{"Garbage Token", "Bearer not-a-jwt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequestTracingRejectsMissingSource(t *testing.T) {
	handler := RequestTracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a request source")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
}
