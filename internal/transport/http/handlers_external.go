package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainservice "domainwatch/internal/userdomain/service"
	"domainwatch/pkg/platform/httputil"
	"domainwatch/pkg/platform/sentinel"
)

// handleWhois serves registration details for any domain, cache-first.
func (h *Handler) handleWhois(w http.ResponseWriter, r *http.Request) {
	name, err := domainservice.NormalizeName(chi.URLParam(r, "domain"))
	if err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid domain name")
		return
	}

	entry, err := h.resolver.Resolve(r.Context(), name)
	switch {
	case err == nil:
		response := map[string]any{
			"name":        entry.Name,
			"createdDate": entry.CreatedDate,
			"expiryDate":  entry.ExpiryDate,
			"registrar":   entry.Registrar,
			"status":      entry.Status,
			"lastUpdated": entry.LastUpdated,
		}
		if len(entry.FullDetails) > 0 {
			response["fullDetails"] = json.RawMessage(entry.FullDetails)
		}
		httputil.WriteJSON(w, http.StatusOK, response)
	case errors.Is(err, sentinel.ErrNotFound):
		httputil.WriteErrorMessage(w, http.StatusNotFound, "Domain is not registered")
	case errors.Is(err, sentinel.ErrNotConfigured):
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "Lookup API key is not configured")
	default:
		h.logger.ErrorContext(r.Context(), "whois lookup failed", "domain", name, "error", err)
		httputil.WriteErrorMessage(w, http.StatusBadGateway, "Failed to fetch domain data")
	}
}

// handlePageSpeed proxies a mobile PageSpeed audit.
func (h *Handler) handlePageSpeed(w http.ResponseWriter, r *http.Request) {
	name, err := domainservice.NormalizeName(chi.URLParam(r, "domain"))
	if err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid domain name")
		return
	}
	if !h.pagespeed.Configured() {
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "PageSpeed API key is not configured")
		return
	}

	metrics, err := h.pagespeed.Analyze(r.Context(), name)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "pagespeed audit failed", "domain", name, "error", err)
		httputil.WriteErrorMessage(w, http.StatusBadGateway, "Failed to fetch PageSpeed data")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, metrics)
}
