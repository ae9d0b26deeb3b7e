// internal/app/features/attachments/routes.go
package attachments

import "github.com/go-chi/chi/v5"

// Field names on the networks table backing the two proxy prefixes.
const (
	PhotoField = "Photo"
	ImageField = "Image"
)

// Register attaches the two attachment proxy routes at the root router.
// Both prefixes are load-bearing: published artifacts reference whichever
// prefix their gallery was built with.
func Register(r chi.Router, h *Handler) {
	r.Get("/img/{recordID}/{index}", h.Field(PhotoField))
	r.Get("/image/{recordID}/{index}", h.Field(ImageField))
}
