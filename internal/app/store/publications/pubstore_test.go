package pubstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	pubstore "github.com/tbcmaps/geofeed/internal/app/store/publications"
	"github.com/tbcmaps/geofeed/internal/domain/models"
	"github.com/tbcmaps/geofeed/internal/testutil"
)

func TestPutGetRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pubstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := pubstore.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	pub := testutil.SamplePublication("latest.geojson", []byte(`{"type":"FeatureCollection","features":[]}`))
	if err := store.Put(ctx, pub); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "latest.geojson")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Body) != string(pub.Body) {
		t.Errorf("body = %q, want %q", got.Body, pub.Body)
	}
	if got.ContentType != models.GeoJSONContentType {
		t.Errorf("content type = %q", got.ContentType)
	}
	if got.FeatureCount != pub.FeatureCount {
		t.Errorf("feature count = %d, want %d", got.FeatureCount, pub.FeatureCount)
	}
}

func TestPutOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pubstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := testutil.SamplePublication("latest.geojson", []byte(`{"v":1}`))
	second := testutil.SamplePublication("latest.geojson", []byte(`{"v":2}`))
	second.FeatureCount = 9
	second.UpdatedAt = first.UpdatedAt.Add(time.Hour)

	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, err := store.Get(ctx, "latest.geojson")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Body) != `{"v":2}` {
		t.Errorf("body = %q, want the second write", got.Body)
	}
	if got.FeatureCount != 9 {
		t.Errorf("feature count = %d, want 9", got.FeatureCount)
	}
}

func TestGetMissingKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pubstore.New(db)

	_, err := store.Get(context.Background(), "never_published.geojson")
	if !errors.Is(err, pubstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
