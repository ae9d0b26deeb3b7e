package models

import "time"

// Content-type and cache policy applied to every published artifact.
// The stored cache-control is what a CDN pulling the object directly would
// honor; handlers serve with their own (longer) public max-age.
const (
	GeoJSONContentType = "application/geo+json; charset=utf-8"
	StoredCacheControl = "public, max-age=60"
	ServedCacheControl = "public, max-age=300"
)

// Publication is the persisted FeatureCollection blob for one dataset.
// Each dataset owns exactly one key; a regeneration overwrites the whole
// document (no versioning, no history).
type Publication struct {
	Key          string    `bson:"key"`
	Body         []byte    `bson:"body"`
	ContentType  string    `bson:"content_type"`
	CacheControl string    `bson:"cache_control"`
	FeatureCount int       `bson:"feature_count"`
	UpdatedAt    time.Time `bson:"updated_at"`
}
