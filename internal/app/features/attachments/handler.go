package attachments

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tbcmaps/geofeed/internal/app/system/attachmenturl"
	"github.com/tbcmaps/geofeed/internal/app/system/timeouts"
	"github.com/tbcmaps/geofeed/internal/domain/models"
)

// redirectCacheControl is sent with every 302 so browsers and CDNs reuse
// the redirect itself for a few minutes.
const redirectCacheControl = "public, max-age=300"

// RecordFetcher is the slice of the Airtable client this feature uses.
type RecordFetcher interface {
	GetRecord(ctx context.Context, table, recordID string) (models.Record, error)
}

// Handler resolves attachment proxy paths into 302 redirects to the
// upstream signed URL.
//
// Published features carry /img/... and /image/... paths instead of the
// time-limited signed URLs Airtable hands out; each redirect here fetches
// (or reuses from the TTL cache) a fresh URL, so galleries keep working
// long after a regeneration.
type Handler struct {
	Airtable RecordFetcher
	Cache    *attachmenturl.Cache
	Table    string
	Log      *zap.Logger
}

// NewHandler constructs an attachments Handler reading from the given
// table. A nil cache gets the default 8-minute TTL cache.
func NewHandler(at RecordFetcher, cache *attachmenturl.Cache, table string, logger *zap.Logger) *Handler {
	if cache == nil {
		cache = attachmenturl.NewCache(attachmenturl.DefaultTTL, nil)
	}
	return &Handler{Airtable: at, Cache: cache, Table: table, Log: logger}
}

// Field returns the redirect handler for one attachment field name.
func (h *Handler) Field(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "recordID")
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || idx < 0 || recordID == "" {
			writeText(w, http.StatusBadRequest, "Bad index")
			return
		}

		cacheKey := attachmenturl.Key(field, recordID, idx)
		if url, ok := h.Cache.Get(cacheKey); ok {
			redirect(w, url)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		rec, err := h.Airtable.GetRecord(ctx, h.Table, recordID)
		if err != nil {
			h.Log.Error("attachment record fetch failed",
				zap.String("record_id", recordID),
				zap.String("field", field),
				zap.Error(err))
			writeText(w, http.StatusInternalServerError, err.Error())
			return
		}

		arr, _ := rec.Fields[field].([]any)
		if idx >= len(arr) {
			writeText(w, http.StatusNotFound, field+" not found")
			return
		}

		url, ok := attachmenturl.Pick(arr[idx])
		if !ok {
			writeText(w, http.StatusNotFound, field+" URL missing")
			return
		}

		h.Cache.Set(cacheKey, url)
		redirect(w, url)
	}
}

func redirect(w http.ResponseWriter, url string) {
	w.Header().Set("Cache-Control", redirectCacheControl)
	w.Header().Set("Location", url)
	w.WriteHeader(http.StatusFound)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
