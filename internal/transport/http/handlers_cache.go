package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	cachemodels "domainwatch/internal/domaincache/models"
	"domainwatch/pkg/platform/httputil"
	"domainwatch/pkg/requestcontext"
)

type cacheEntryResponse struct {
	Name        string `json:"name"`
	CreatedDate string `json:"createdDate"`
	ExpiryDate  string `json:"expiryDate"`
	Registrar   string `json:"registrar"`
	Status      string `json:"status"`
	LastUpdated string `json:"lastUpdated"`
}

func toCacheEntryResponse(entry *cachemodels.Entry) cacheEntryResponse {
	return cacheEntryResponse{
		Name:        entry.Name,
		CreatedDate: entry.CreatedDate,
		ExpiryDate:  entry.ExpiryDate,
		Registrar:   entry.Registrar,
		Status:      entry.Status,
		LastUpdated: entry.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) handleListCache(w http.ResponseWriter, r *http.Request) {
	entries, err := h.cache.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing cache failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	out := make([]cacheEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toCacheEntryResponse(entry))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCacheEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.cache.Find(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCacheEntryResponse(entry))
}

// handleRefreshCache starts a full refresh in the background. The batch
// is paced across the whole allowlist, far longer than any sane request
// timeout, so the handler only acknowledges the start.
func (h *Handler) handleRefreshCache(w http.ResponseWriter, r *http.Request) {
	if !h.refresher.Enabled() {
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "Lookup API key is not configured")
		return
	}

	requestID := requestcontext.RequestID(r.Context())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		result, err := h.refresher.RefreshAll(ctx)
		if err != nil {
			h.logger.Error("manual cache refresh failed", "request_id", requestID, "error", err)
			return
		}
		h.logger.Info("manual cache refresh completed", "request_id", requestID,
			"success", result.SuccessCount, "failed", result.FailCount)
	}()

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"message": "Cache refresh started"})
}
