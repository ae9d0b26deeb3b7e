// Package featurebuild turns fetched Airtable records into GeoJSON
// FeatureCollections under a declarative per-dataset schema.
//
// One generic builder replaces the per-dataset copies of this logic that
// drift apart over time: a schema value fixes which raw field names feed
// which normalization strategy and which output property keys they fill.
package featurebuild

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tbcmaps/geofeed/internal/app/system/geometry"
	"github.com/tbcmaps/geofeed/internal/app/system/normalize"
	"github.com/tbcmaps/geofeed/internal/domain/models"
)

// Normalizer selects how a source field becomes an output property.
type Normalizer string

const (
	// NormScalar collapses the value to a display string (normalize.Scalar).
	NormScalar Normalizer = "scalar"
	// NormLeaders applies people-list cleaning (normalize.LeaderNames).
	NormLeaders Normalizer = "leaders"
	// NormRaw passes scalars through untouched; non-scalars fall back to
	// the display-string collapse. Used where the published schema keeps
	// numbers as numbers.
	NormRaw Normalizer = "raw"
)

// Property maps one source field to one output property key. AltFields are
// tried in order when Field is absent — some tables carry the same column
// under inconsistent capitalizations.
type Property struct {
	Field     string
	AltFields []string
	Key       string
	Normalize Normalizer
}

// Gallery flattens a URL-bearing field into indexed properties
// <Prefix>1..<Prefix>6 plus <Prefix>_count.
//
// When the source field is an attachment array, the properties carry proxy
// paths (<base>/<ProxyPath>/<recordID>/<idx>) instead of upstream signed
// URLs, so the redirect handler can refresh expiring URLs per request
// without regenerating the whole collection.
type Gallery struct {
	Field     string
	Prefix    string
	ProxyPath string
}

// Schema fixes, per dataset, the source table and the mapping from record
// fields to feature geometry and properties. Exactly one of the geometry
// modes is used: LatField/LonField (point datasets) or GeometryField
// (polygon/network datasets).
type Schema struct {
	Dataset   string
	Label     string
	ObjectKey string
	Table     string
	View      string

	LatField      string
	LonField      string
	GeometryField string

	Properties []Property
	Galleries  []Gallery
}

// Fields returns the column allowlist for the upstream listing, or nil
// when the schema reads loosely-named columns and must fetch all fields.
func (s Schema) Fields() []string {
	for _, p := range s.Properties {
		if len(p.AltFields) > 0 {
			return nil
		}
	}
	var out []string
	if s.GeometryField != "" {
		out = append(out, s.GeometryField)
	} else {
		out = append(out, s.LatField, s.LonField)
	}
	for _, p := range s.Properties {
		out = append(out, p.Field)
	}
	for _, g := range s.Galleries {
		out = append(out, g.Field)
	}
	return out
}

// Build maps every record through the schema into a FeatureCollection.
//
// Records without usable geometry — non-finite or missing coordinates in
// point mode, unparsable geometry payloads in raw mode — are skipped
// silently; data-quality noise never fails a regeneration.
func Build(records []models.Record, s Schema, baseURL string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		feat, ok := buildFeature(rec, s, baseURL)
		if !ok {
			continue
		}
		fc.Append(feat)
	}
	return fc
}

func buildFeature(rec models.Record, s Schema, baseURL string) (*geojson.Feature, bool) {
	fields := rec.Fields

	var feat *geojson.Feature
	if s.GeometryField != "" {
		g, ok := geometry.Parse(fields[s.GeometryField])
		if !ok {
			return nil, false
		}
		feat = geojson.NewFeature(g)
	} else {
		lat, okLat := normalize.Number(fields[s.LatField])
		lon, okLon := normalize.Number(fields[s.LonField])
		if !okLat || !okLon {
			return nil, false
		}
		feat = geojson.NewFeature(orb.Point{lon, lat})
	}

	feat.Properties["id"] = rec.ID
	for _, p := range s.Properties {
		feat.Properties[p.Key] = normalizeProperty(lookup(fields, p), p.Normalize)
	}
	for _, g := range s.Galleries {
		flattenGallery(feat, fields[g.Field], g, rec.ID, baseURL)
	}
	return feat, true
}

func lookup(fields map[string]any, p Property) any {
	if v, ok := fields[p.Field]; ok && v != nil {
		return v
	}
	for _, alt := range p.AltFields {
		if v, ok := fields[alt]; ok && v != nil {
			return v
		}
	}
	return nil
}

func normalizeProperty(v any, n Normalizer) any {
	switch n {
	case NormLeaders:
		return normalize.LeaderNames(v)
	case NormRaw:
		switch v.(type) {
		case nil:
			return ""
		case string, float64, bool:
			return v
		default:
			return normalize.Scalar(v)
		}
	default:
		return normalize.Scalar(v)
	}
}

// flattenGallery fills <prefix>1..<prefix>N and <prefix>_count on feat.
func flattenGallery(feat *geojson.Feature, value any, g Gallery, recordID, baseURL string) {
	var urls []string
	if isAttachmentArray(value) {
		arr := value.([]any)
		n := len(arr)
		if n > normalize.MaxURLs {
			n = normalize.MaxURLs
		}
		for idx := 0; idx < n; idx++ {
			urls = append(urls, fmt.Sprintf("%s/%s/%s/%d", strings.TrimRight(baseURL, "/"), g.ProxyPath, recordID, idx))
		}
	} else {
		urls = normalize.URLs(value)
	}

	count := 0
	for i := 0; i < normalize.MaxURLs; i++ {
		u := ""
		if i < len(urls) {
			u = urls[i]
		}
		if u != "" {
			count++
		}
		feat.Properties[g.Prefix+strconv.Itoa(i+1)] = u
	}
	feat.Properties[g.Prefix+"_count"] = count
}

// isAttachmentArray reports whether a field value is an Airtable
// attachment array: a non-empty array whose first element is an object
// carrying url or thumbnails.
func isAttachmentArray(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	first, ok := arr[0].(map[string]any)
	if !ok {
		return false
	}
	if _, has := first["url"]; has {
		return true
	}
	_, has := first["thumbnails"]
	return has
}
