package testutil

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbcmaps/geofeed/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calls stack: an existing route context keeps its earlier parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SetupTestDB connects to the MongoDB instance named by GEOFEED_TEST_MONGO_URI
// and returns a database scoped to this test run. Tests that need a live
// database are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("GEOFEED_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GEOFEED_TEST_MONGO_URI not set; skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test mongo: %v", err)
	}

	db := client.Database("geofeed_test")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// TestContext returns a context with a generous timeout for test
// operations against live backends.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SampleRecord builds an Airtable-shaped record with the given fields.
func SampleRecord(id string, fields map[string]any) models.Record {
	return models.Record{
		ID:          id,
		CreatedTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Fields:      fields,
	}
}

// SamplePublication builds a stored GeoJSON publication for the given key.
func SamplePublication(key string, body []byte) models.Publication {
	return models.Publication{
		Key:          key,
		Body:         body,
		ContentType:  models.GeoJSONContentType,
		CacheControl: models.StoredCacheControl,
		FeatureCount: 1,
		UpdatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
