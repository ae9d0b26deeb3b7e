package cors_test

import (
	"net/http"
	"testing"

	"github.com/tbcmaps/geofeed/internal/app/system/cors"
	"github.com/tbcmaps/geofeed/internal/testutil"
)

func wrapped() http.Handler {
	return cors.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body"))
	}))
}

func TestMiddlewareHeaders(t *testing.T) {
	req := testutil.NewRequest(http.MethodGet, "/latest.geojson")
	rec := testutil.NewRecorder()
	wrapped().ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertHeader(t, "Access-Control-Allow-Origin", "*")
	rec.AssertHeader(t, "Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	rec.AssertHeader(t, "Access-Control-Allow-Headers", "Content-Type,Authorization")
	rec.AssertHeader(t, "Vary", "Origin")
	rec.AssertContains(t, "body")
}

func TestMiddlewarePreflight(t *testing.T) {
	// Any OPTIONS request short-circuits, even for paths with no route.
	for _, path := range []string{"/latest.geojson", "/admin/regenerate", "/no/such/route"} {
		req := testutil.NewRequest(http.MethodOptions, path)
		rec := testutil.NewRecorder()
		wrapped().ServeHTTP(rec, req)

		rec.AssertStatus(t, http.StatusNoContent)
		rec.AssertHeader(t, "Access-Control-Allow-Origin", "*")
		rec.AssertHeader(t, "Vary", "Origin")
		if rec.Body.Len() != 0 {
			t.Errorf("OPTIONS %s: body not empty", path)
		}
	}
}
