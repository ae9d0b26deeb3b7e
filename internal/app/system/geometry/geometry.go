// Package geometry converts raw GeoJSON-geometry-shaped field values into
// validated orb geometries.
package geometry

import (
	"encoding/json"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Parse accepts either a GeoJSON geometry object (decoded map) or a JSON
// string of one, and returns the validated geometry.
//
// A false return means "no usable geometry": empty input, unparsable JSON,
// or a payload that is not a recognized geometry type. Callers skip the
// record; a bad geometry never fails a whole regeneration.
func Parse(raw any) (orb.Geometry, bool) {
	var data []byte
	switch t := raw.(type) {
	case nil:
		return nil, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, false
		}
		data = []byte(s)
	default:
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, false
		}
		data = b
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil || g == nil || g.Type == "" {
		return nil, false
	}
	return g.Geometry(), true
}
