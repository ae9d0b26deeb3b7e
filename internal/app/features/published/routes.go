// internal/app/features/published/routes.go
package published

import (
	"github.com/go-chi/chi/v5"

	"github.com/tbcmaps/geofeed/internal/app/system/featurebuild"
)

// Register attaches one GET route per configured dataset, each serving
// that dataset's object key at the root (e.g. /organization_map.geojson).
func Register(r chi.Router, h *Handler, schemas []featurebuild.Schema) {
	for _, schema := range schemas {
		r.Get("/"+schema.ObjectKey, h.Serve(schema))
	}
}
