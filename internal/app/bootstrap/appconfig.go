// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging level); AppConfig is
// everything specific to the publication pipeline.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Airtable upstream configuration. The token here is the *outbound*
	// credential and is distinct from RegenToken.
	AirtableToken    string // Airtable API bearer token
	AirtableBaseID   string // Airtable base to read from
	AirtableViewName string // Optional view filter applied to every listing

	// Inbound admin credential for POST /admin/regenerate.
	RegenToken string

	// Table names and field overrides. The point datasets share a table;
	// which columns hold the coordinates varies by base.
	OrgTableName      string // Table for the organization/disaster point datasets
	NetworksTableName string // Table for the networks polygon dataset
	FieldLat          string // Column holding latitude
	FieldLon          string // Column holding longitude

	// BaseURL is the public origin of this service, used when synthesizing
	// attachment proxy URLs into published features.
	BaseURL string

	// DefaultDataset is regenerated by the bare /admin/regenerate path
	// (kept for callers predating the per-dataset routes).
	DefaultDataset string
}
