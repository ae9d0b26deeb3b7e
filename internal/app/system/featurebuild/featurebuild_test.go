package featurebuild_test

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/tbcmaps/geofeed/internal/app/system/featurebuild"
	"github.com/tbcmaps/geofeed/internal/domain/models"
	"github.com/tbcmaps/geofeed/internal/testutil"
)

func pointSchema() featurebuild.Schema {
	return featurebuild.Schema{
		Dataset:   "organizations",
		Label:     "Organization",
		ObjectKey: "organization_map.geojson",
		Table:     "Master List",
		LatField:  "Latitude",
		LonField:  "Longitude",
		Properties: []featurebuild.Property{
			{Field: "Org Name", Key: "organization_name"},
			{Field: "Website", Key: "website"},
		},
	}
}

func TestBuildPointMode(t *testing.T) {
	records := []models.Record{
		testutil.SampleRecord("rec0000000000AaAa", map[string]any{
			"Latitude":  38.95,
			"Longitude": -92.33,
			"Org Name":  "  Hope Church  ",
			"Website":   "https://hope.example",
		}),
		// Missing longitude: skipped, not errored.
		testutil.SampleRecord("rec0000000000BbBb", map[string]any{
			"Latitude": 38.95,
			"Org Name": "No Location",
		}),
		// Empty-string coordinates are treated as absent.
		testutil.SampleRecord("rec0000000000CcCc", map[string]any{
			"Latitude":  "",
			"Longitude": "",
			"Org Name":  "Blank Coords",
		}),
	}

	fc := featurebuild.Build(records, pointSchema(), "https://maps.example")
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}

	feat := fc.Features[0]
	pt, ok := feat.Geometry.(orb.Point)
	if !ok {
		t.Fatalf("geometry type %T, want orb.Point", feat.Geometry)
	}
	if pt.Lon() != -92.33 || pt.Lat() != 38.95 {
		t.Errorf("point = (%v, %v), want (-92.33, 38.95)", pt.Lon(), pt.Lat())
	}
	if got := feat.Properties["id"]; got != "rec0000000000AaAa" {
		t.Errorf("id property = %v", got)
	}
	if got := feat.Properties["organization_name"]; got != "Hope Church" {
		t.Errorf("organization_name = %v, want %q", got, "Hope Church")
	}
}

func TestBuildGeometryMode(t *testing.T) {
	schema := featurebuild.Schema{
		Dataset:       "networks",
		Label:         "Network",
		ObjectKey:     "latest.geojson",
		Table:         "Networks",
		GeometryField: "Polygon",
		Properties: []featurebuild.Property{
			{Field: "Network Name", Key: "name", Normalize: featurebuild.NormRaw},
			{Field: "Network Leaders Names", Key: "leaders", Normalize: featurebuild.NormLeaders},
		},
	}

	records := []models.Record{
		testutil.SampleRecord("rec0000000000DdDd", map[string]any{
			"Polygon":               `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
			"Network Name":          "North Side",
			"Network Leaders Names": []any{"Jane Doe", "rec0123456789AbCd"},
		}),
		testutil.SampleRecord("rec0000000000EeEe", map[string]any{
			"Polygon":      "{broken",
			"Network Name": "Unparsable",
		}),
		testutil.SampleRecord("rec0000000000FfFf", map[string]any{
			"Network Name": "No Geometry",
		}),
	}

	fc := featurebuild.Build(records, schema, "https://maps.example")
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}

	feat := fc.Features[0]
	if _, ok := feat.Geometry.(orb.Polygon); !ok {
		t.Fatalf("geometry type %T, want orb.Polygon", feat.Geometry)
	}
	if got := feat.Properties["name"]; got != "North Side" {
		t.Errorf("name = %v, want %q", got, "North Side")
	}
	if got := feat.Properties["leaders"]; got != "Jane Doe" {
		t.Errorf("leaders = %v, want %q", got, "Jane Doe")
	}
}

func TestBuildAltFields(t *testing.T) {
	schema := pointSchema()
	schema.Properties = []featurebuild.Property{
		{Field: "contact email", AltFields: []string{"Contact Email"}, Key: "contact_email"},
	}

	records := []models.Record{
		testutil.SampleRecord("rec0000000000GgGg", map[string]any{
			"Latitude":      38.95,
			"Longitude":     -92.33,
			"Contact Email": "team@example.org",
		}),
	}

	fc := featurebuild.Build(records, schema, "https://maps.example")
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}
	if got := fc.Features[0].Properties["contact_email"]; got != "team@example.org" {
		t.Errorf("contact_email = %v, want %q", got, "team@example.org")
	}
}

func TestBuildGalleryProxiesAttachments(t *testing.T) {
	schema := featurebuild.Schema{
		Dataset:       "networks",
		Label:         "Network",
		ObjectKey:     "latest.geojson",
		Table:         "Networks",
		GeometryField: "Polygon",
		Galleries: []featurebuild.Gallery{
			{Field: "Photo", Prefix: "photo", ProxyPath: "img"},
		},
	}

	records := []models.Record{
		testutil.SampleRecord("rec0000000000HhHh", map[string]any{
			"Polygon": `{"type":"Point","coordinates":[1,2]}`,
			"Photo": []any{
				map[string]any{"url": "https://signed.example/a.jpg"},
				map[string]any{"url": "https://signed.example/b.jpg"},
			},
		}),
	}

	fc := featurebuild.Build(records, schema, "https://maps.example/")
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(fc.Features))
	}

	props := fc.Features[0].Properties
	if got := props["photo1"]; got != "https://maps.example/img/rec0000000000HhHh/0" {
		t.Errorf("photo1 = %v", got)
	}
	if got := props["photo2"]; got != "https://maps.example/img/rec0000000000HhHh/1" {
		t.Errorf("photo2 = %v", got)
	}
	if got := props["photo3"]; got != "" {
		t.Errorf("photo3 = %v, want empty", got)
	}
	if got := props["photo_count"]; got != 2 {
		t.Errorf("photo_count = %v, want 2", got)
	}
}

func TestBuildGalleryPlainURLs(t *testing.T) {
	schema := pointSchema()
	schema.Galleries = []featurebuild.Gallery{
		{Field: "Image", Prefix: "image", ProxyPath: "image"},
	}

	records := []models.Record{
		testutil.SampleRecord("rec0000000000IiIi", map[string]any{
			"Latitude":  38.95,
			"Longitude": -92.33,
			"Image":     "https://cdn.example/1.jpg, https://cdn.example/2.jpg",
		}),
	}

	fc := featurebuild.Build(records, schema, "https://maps.example")
	props := fc.Features[0].Properties
	if got := props["image1"]; got != "https://cdn.example/1.jpg" {
		t.Errorf("image1 = %v", got)
	}
	if got := props["image2"]; got != "https://cdn.example/2.jpg" {
		t.Errorf("image2 = %v", got)
	}
	if got := props["image_count"]; got != 2 {
		t.Errorf("image_count = %v, want 2", got)
	}
}

func TestSchemaFields(t *testing.T) {
	s := pointSchema()
	got := s.Fields()
	want := []string{"Latitude", "Longitude", "Org Name", "Website"}
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Loosely-named columns force a full fetch.
	s.Properties = append(s.Properties, featurebuild.Property{
		Field: "contact email", AltFields: []string{"Contact Email"}, Key: "contact_email",
	})
	if got := s.Fields(); got != nil {
		t.Errorf("Fields() with AltFields = %v, want nil", got)
	}
}
