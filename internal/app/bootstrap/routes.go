// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attachmentsfeature "github.com/tbcmaps/geofeed/internal/app/features/attachments"
	healthfeature "github.com/tbcmaps/geofeed/internal/app/features/health"
	publishedfeature "github.com/tbcmaps/geofeed/internal/app/features/published"
	regeneratefeature "github.com/tbcmaps/geofeed/internal/app/features/regenerate"
	pubstore "github.com/tbcmaps/geofeed/internal/app/store/publications"
	"github.com/tbcmaps/geofeed/internal/app/system/airtable"
	"github.com/tbcmaps/geofeed/internal/app/system/cors"
	"github.com/tbcmaps/geofeed/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The geofeed surface is small: published
// GeoJSON artifacts at their object keys, an admin regeneration endpoint,
// attachment redirect routes, and health checks.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	at := airtable.New(appCfg.AirtableBaseID, appCfg.AirtableToken, logger)
	store := pubstore.New(deps.MongoDatabase)
	schemas := Datasets(appCfg)

	r := chi.NewRouter()

	// CORS headers on every response, 204 on preflight.
	r.Use(cors.Middleware)

	// Health check endpoints for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	healthfeature.Register(r, healthHandler)

	// Published GeoJSON artifacts, one exact route per dataset object key.
	publishedHandler := publishedfeature.NewHandler(store, logger)
	publishedfeature.Register(r, publishedHandler, schemas)

	// Admin regeneration, guarded by the bearer token.
	regenHandler := regeneratefeature.NewHandler(at, store, schemas, appCfg.DefaultDataset, appCfg.BaseURL, logger)
	r.Mount("/admin/regenerate", regeneratefeature.Routes(regenHandler, appCfg.RegenToken))

	// Attachment URL redirects for network photo and image galleries.
	// Rate limited per IP so a hot-linked gallery cannot turn into an
	// unbounded stream of upstream record fetches.
	attachHandler := attachmentsfeature.NewHandler(at, nil, appCfg.NetworksTableName, logger)
	limiter := ratelimit.New(120, time.Minute)
	r.Group(func(g chi.Router) {
		g.Use(limiter.Middleware)
		attachmentsfeature.Register(g, attachHandler)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})

	return r, nil
}
