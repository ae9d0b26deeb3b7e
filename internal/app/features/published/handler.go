package published

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	pubstore "github.com/tbcmaps/geofeed/internal/app/store/publications"
	"github.com/tbcmaps/geofeed/internal/app/system/featurebuild"
	"github.com/tbcmaps/geofeed/internal/app/system/timeouts"
	"github.com/tbcmaps/geofeed/internal/domain/models"
)

// Getter is the slice of the publication store this feature reads.
type Getter interface {
	Get(ctx context.Context, key string) (models.Publication, error)
}

// Handler serves the published GeoJSON artifacts.
type Handler struct {
	Store Getter
	Log   *zap.Logger
}

// NewHandler constructs a published-artifact Handler.
func NewHandler(store Getter, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

// Serve returns the GET handler for one dataset's object key.
//
// The artifact is streamed back exactly as stored, with the geo+json
// content type and a short public cache so map consumers and CDNs reuse
// it; cache busting is the consumer's query-parameter concern, not ours.
func (h *Handler) Serve(schema featurebuild.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		pub, err := h.Store.Get(ctx, schema.ObjectKey)
		if errors.Is(err, pubstore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": schema.Label + " GeoJSON not generated yet",
			})
			return
		}
		if err != nil {
			h.Log.Error("publication read failed",
				zap.String("key", schema.ObjectKey),
				zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", pub.ContentType)
		w.Header().Set("Cache-Control", models.ServedCacheControl)
		w.Header().Set("Content-Length", strconv.Itoa(len(pub.Body)))
		w.Header().Set("X-Served-From", "store")
		_, _ = w.Write(pub.Body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
