// internal/app/store/publications/pubstore.go
package pubstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbcmaps/geofeed/internal/domain/models"
)

// ErrNotFound is returned by Get for a key that has never been published.
// Handlers surface it as a 404 JSON envelope, not as a server error.
var ErrNotFound = errors.New("publication not found")

// Store provides access to the publications collection: one document per
// dataset object key, holding the last-published FeatureCollection blob
// and its serving metadata.
type Store struct {
	c *mongo.Collection
}

// New creates a publications store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("publications")}
}

// Put overwrites the publication for pub.Key.
//
// Overwrite is the only write semantic: no versioning, no conditional
// writes. Concurrent regenerations race with last-write-wins, which is
// acceptable for an operator-triggered, infrequent operation.
func (s *Store) Put(ctx context.Context, pub models.Publication) error {
	if pub.UpdatedAt.IsZero() {
		pub.UpdatedAt = time.Now().UTC()
	}

	filter := bson.M{"key": pub.Key}
	update := bson.M{
		"$set": bson.M{
			"key":           pub.Key,
			"body":          pub.Body,
			"content_type":  pub.ContentType,
			"cache_control": pub.CacheControl,
			"feature_count": pub.FeatureCount,
			"updated_at":    pub.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// Get returns the publication stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (models.Publication, error) {
	var pub models.Publication
	err := s.c.FindOne(ctx, bson.M{"key": key}).Decode(&pub)
	if err == mongo.ErrNoDocuments {
		return models.Publication{}, ErrNotFound
	}
	if err != nil {
		return models.Publication{}, err
	}
	return pub, nil
}

// EnsureIndexes creates the unique index on key. Called from the schema
// hook at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("publications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
