// internal/app/features/regenerate/routes.go
package regenerate

import (
	"github.com/go-chi/chi/v5"

	"github.com/tbcmaps/geofeed/internal/app/system/adminauth"
)

// Routes returns the admin regeneration subrouter, guarded by the static
// bearer token. Mounted under /admin/regenerate.
func Routes(h *Handler, regenToken string) chi.Router {
	r := chi.NewRouter()
	r.Use(adminauth.RequireBearer(regenToken, h.Log))
	r.Post("/", h.ServeDefault)
	r.Post("/{dataset}", h.ServeDataset)
	return r
}
