package health_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/tbcmaps/geofeed/internal/app/features/health"
	"github.com/tbcmaps/geofeed/internal/testutil"
)

func TestLive(t *testing.T) {
	handler := health.NewHandler(nil, zap.NewNop())

	for _, path := range []string{"/", "/ok"} {
		rec := testutil.NewRecorder()
		handler.Live(rec.ResponseRecorder, testutil.NewRequest(http.MethodGet, path))

		rec.AssertStatus(t, http.StatusOK)
		if rec.Body.String() != "OK" {
			t.Errorf("GET %s body = %q, want %q", path, rec.Body.String(), "OK")
		}
	}
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), zap.NewNop())

	rec := testutil.NewRecorder()
	handler.Serve(rec.ResponseRecorder, testutil.NewRequest(http.MethodGet, "/health"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertHeader(t, "Content-Type", "application/json")

	var response struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("status: got %q, want %q", response.Status, "ok")
	}
	if response.Database != "connected" {
		t.Errorf("database: got %q, want %q", response.Database, "connected")
	}
}
