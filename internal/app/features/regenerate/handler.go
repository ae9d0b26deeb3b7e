package regenerate

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tbcmaps/geofeed/internal/app/system/airtable"
	"github.com/tbcmaps/geofeed/internal/app/system/featurebuild"
	"github.com/tbcmaps/geofeed/internal/app/system/timeouts"
	"github.com/tbcmaps/geofeed/internal/domain/models"
)

// Lister is the slice of the Airtable client this feature uses.
type Lister interface {
	List(ctx context.Context, table string, opts airtable.ListOptions) ([]models.Record, error)
}

// Putter is the slice of the publication store this feature writes.
type Putter interface {
	Put(ctx context.Context, pub models.Publication) error
}

// Handler runs regenerations: fetch every record, build the
// FeatureCollection, overwrite the stored artifact.
//
// There is deliberately no concurrency guard. Overlapping POSTs race on
// the dataset's single key with last-write-wins; regeneration is
// operator-triggered and infrequent, so a stale overwrite is accepted
// rather than coordinated away.
type Handler struct {
	Airtable Lister
	Store    Putter
	Datasets map[string]featurebuild.Schema
	Default  string
	BaseURL  string
	Log      *zap.Logger
}

// NewHandler constructs a regenerate Handler. defaultDataset names the
// schema served by the bare /admin/regenerate path.
func NewHandler(at Lister, store Putter, schemas []featurebuild.Schema, defaultDataset, baseURL string, logger *zap.Logger) *Handler {
	byName := make(map[string]featurebuild.Schema, len(schemas))
	for _, s := range schemas {
		byName[s.Dataset] = s
	}
	return &Handler{
		Airtable: at,
		Store:    store,
		Datasets: byName,
		Default:  defaultDataset,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

// regenerateResponse is the JSON success body.
type regenerateResponse struct {
	OK        bool   `json:"ok"`
	Features  int    `json:"features"`
	UpdatedAt string `json:"updatedAt"`
	ObjectKey string `json:"objectKey"`
}

// ServeDefault handles POST /admin/regenerate for the default dataset.
func (h *Handler) ServeDefault(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.Default)
}

// ServeDataset handles POST /admin/regenerate/{dataset}.
func (h *Handler) ServeDataset(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, chi.URLParam(r, "dataset"))
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, dataset string) {
	schema, ok := h.Datasets[dataset]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
		return
	}

	runID := uuid.New().String()
	start := time.Now()
	log := h.Log.With(
		zap.String("run_id", runID),
		zap.String("dataset", schema.Dataset))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), log, "regenerate "+schema.Dataset)
	defer cancel()

	records, err := h.Airtable.List(ctx, schema.Table, airtable.ListOptions{
		View:   schema.View,
		Fields: schema.Fields(),
	})
	if err != nil {
		log.Error("upstream fetch failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	fc := featurebuild.Build(records, schema, h.BaseURL)
	body, err := json.Marshal(fc)
	if err != nil {
		log.Error("feature collection encode failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	updatedAt := time.Now().UTC()
	pub := models.Publication{
		Key:          schema.ObjectKey,
		Body:         body,
		ContentType:  models.GeoJSONContentType,
		CacheControl: models.StoredCacheControl,
		FeatureCount: len(fc.Features),
		UpdatedAt:    updatedAt,
	}
	if err := h.Store.Put(ctx, pub); err != nil {
		log.Error("publication write failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	log.Info("regeneration complete",
		zap.Int("records", len(records)),
		zap.Int("features", len(fc.Features)),
		zap.Duration("elapsed", time.Since(start)))

	writeJSON(w, http.StatusOK, regenerateResponse{
		OK:        true,
		Features:  len(fc.Features),
		UpdatedAt: updatedAt.Format(time.RFC3339),
		ObjectKey: schema.ObjectKey,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
