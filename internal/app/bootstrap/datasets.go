// internal/app/bootstrap/datasets.go
package bootstrap

import (
	"github.com/tbcmaps/geofeed/internal/app/system/featurebuild"
)

// Datasets builds the declarative schemas for the three published
// datasets. They previously lived as three separately deployed workers
// whose normalization helpers drifted apart; one schema table keeps the
// property mappings in a single place.
func Datasets(cfg AppConfig) []featurebuild.Schema {
	return []featurebuild.Schema{
		{
			Dataset:   "organizations",
			Label:     "Organization",
			ObjectKey: "organization_map.geojson",
			Table:     cfg.OrgTableName,
			View:      cfg.AirtableViewName,
			LatField:  cfg.FieldLat,
			LonField:  cfg.FieldLon,
			Properties: []featurebuild.Property{
				{Field: "Org Name", Key: "organization_name"},
				{Field: "Website", Key: "website"},
				{Field: "Category", Key: "category"},
				{Field: "Denomination", Key: "denomination"},
				{Field: "Org Type", Key: "organization_type"},
				{Field: "Address", Key: "full_address"},
				{Field: "County", Key: "county"},
				{Field: "Network Name", Key: "network_name"},
			},
		},
		{
			Dataset:   "disaster",
			Label:     "Points",
			ObjectKey: "org_points.geojson",
			Table:     cfg.OrgTableName,
			View:      cfg.AirtableViewName,
			LatField:  cfg.FieldLat,
			LonField:  cfg.FieldLon,
			Properties: []featurebuild.Property{
				{Field: "Organization Name", Key: "organization_name"},
				{Field: "Website", Key: "website"},
				{Field: "Organization Type", Key: "organization_type"},
				{Field: "Full Address", Key: "full_address"},
				{Field: "Disaster Contact", Key: "disaster_contact"},
				{Field: "Disaster Email", Key: "disaster_email"},
				{Field: "Disaster Phone", Key: "disaster_phone"},
				{Field: "Regular Services", Key: "regular_services"},
				{Field: "Disaster Services", Key: "disaster_services"},
				{Field: "Physical Resources", Key: "physical_resources"},
			},
		},
		{
			Dataset:       "networks",
			Label:         "Network",
			ObjectKey:     "latest.geojson",
			Table:         cfg.NetworksTableName,
			View:          cfg.AirtableViewName,
			GeometryField: "Polygon",
			Properties: []featurebuild.Property{
				{Field: "Network Name", Key: "name", Normalize: featurebuild.NormRaw},
				{Field: "Network Leaders Names", Key: "leaders", Normalize: featurebuild.NormLeaders},
				// The source table carries this column under three
				// capitalizations, depending on who last edited the schema.
				{Field: "contact email", AltFields: []string{"Contact Email", "Contact email"}, Key: "contact_email"},
				{Field: "Status", Key: "status"},
				{Field: "County", Key: "county"},
				{Field: "Tags", Key: "tags"},
				{Field: "Number of Churches", Key: "number_of_churches", Normalize: featurebuild.NormRaw},
				{Field: "Unify Lead", Key: "unify_lead"},
			},
			Galleries: []featurebuild.Gallery{
				{Field: "Photo", Prefix: "photo", ProxyPath: "img"},
				{Field: "Image", Prefix: "image", ProxyPath: "image"},
			},
		},
	}
}

func datasetByName(schemas []featurebuild.Schema, name string) (featurebuild.Schema, bool) {
	for _, s := range schemas {
		if s.Dataset == name {
			return s, true
		}
	}
	return featurebuild.Schema{}, false
}
