// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for geofeed.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, airtable_token, etc.
//   - Environment variables: GEOFEED_MONGO_URI, GEOFEED_AIRTABLE_TOKEN, etc.
//   - Command-line flags: --mongo_uri, --airtable_token, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "geofeed", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Airtable upstream
	{Name: "airtable_token", Default: "", Desc: "Airtable API bearer token (outbound)"},
	{Name: "airtable_base_id", Default: "", Desc: "Airtable base ID to read from"},
	{Name: "airtable_view_name", Default: "", Desc: "Optional Airtable view filter"},

	// Admin endpoint
	{Name: "regen_token", Default: "", Desc: "Bearer token required by POST /admin/regenerate"},

	// Dataset source tables and coordinate columns
	{Name: "org_table_name", Default: "Master List", Desc: "Table backing the organization/disaster point datasets"},
	{Name: "networks_table_name", Default: "Networks", Desc: "Table backing the networks polygon dataset"},
	{Name: "field_lat", Default: "Latitude", Desc: "Column holding latitude"},
	{Name: "field_lon", Default: "Longitude", Desc: "Column holding longitude"},

	// Public origin used for attachment proxy URLs in published features
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL of this service"},

	{Name: "default_dataset", Default: "networks", Desc: "Dataset regenerated by the bare /admin/regenerate path"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GEOFEED", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AirtableToken:    appValues.String("airtable_token"),
		AirtableBaseID:   appValues.String("airtable_base_id"),
		AirtableViewName: appValues.String("airtable_view_name"),

		RegenToken: appValues.String("regen_token"),

		OrgTableName:      appValues.String("org_table_name"),
		NetworksTableName: appValues.String("networks_table_name"),
		FieldLat:          appValues.String("field_lat"),
		FieldLon:          appValues.String("field_lon"),

		BaseURL: appValues.String("base_url"),

		DefaultDataset: appValues.String("default_dataset"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The Airtable credentials and the admin token have no workable defaults;
// failing here beats a 500 on the first regeneration.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.AirtableToken == "" {
		return fmt.Errorf("airtable_token must be set")
	}
	if appCfg.AirtableBaseID == "" {
		return fmt.Errorf("airtable_base_id must be set")
	}
	if appCfg.RegenToken == "" {
		return fmt.Errorf("regen_token must be set")
	}
	if _, ok := datasetByName(Datasets(appCfg), appCfg.DefaultDataset); !ok {
		return fmt.Errorf("default_dataset %q is not a configured dataset", appCfg.DefaultDataset)
	}
	return nil
}
