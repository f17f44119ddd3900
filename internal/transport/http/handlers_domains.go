package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	domainmodels "domainwatch/internal/userdomain/models"
	domainservice "domainwatch/internal/userdomain/service"
	"domainwatch/pkg/platform/httputil"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

type addDomainRequest struct {
	Name string `json:"name"`
}

type domainResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	CreatedDate string          `json:"createdDate"`
	ExpiryDate  string          `json:"expiryDate"`
	Registrar   string          `json:"registrar"`
	Status      string          `json:"status"`
	FullDetails json.RawMessage `json:"fullDetails,omitempty"`
	AddedAt     string          `json:"addedAt"`
}

func toDomainResponse(domain *domainmodels.Domain) domainResponse {
	return domainResponse{
		ID:          domain.ID,
		Name:        domain.Name,
		CreatedDate: domain.CreatedDate,
		ExpiryDate:  domain.ExpiryDate,
		Registrar:   domain.Registrar,
		Status:      domain.Status,
		FullDetails: domain.FullDetails,
		AddedAt:     domain.AddedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) handleListDomains(w http.ResponseWriter, r *http.Request) {
	userID := requestcontext.UserID(r.Context())

	domains, err := h.domains.List(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing domains failed", "user_id", userID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	out := make([]domainResponse, 0, len(domains))
	for _, domain := range domains {
		out = append(out, toDomainResponse(domain))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAddDomain(w http.ResponseWriter, r *http.Request) {
	userID := requestcontext.UserID(r.Context())

	var req addDomainRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	domain, err := h.domains.Add(r.Context(), userID, req.Name)
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusCreated, toDomainResponse(domain))
	case errors.Is(err, domainservice.ErrInvalidDomain):
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid domain name")
	case errors.Is(err, sentinel.ErrConflict):
		httputil.WriteErrorMessage(w, http.StatusConflict, "Domain already tracked")
	default:
		h.logger.ErrorContext(r.Context(), "adding domain failed",
			"user_id", userID, "domain", req.Name, "error", err)
		httputil.WriteError(w, err)
	}
}

func (h *Handler) handleDeleteDomain(w http.ResponseWriter, r *http.Request) {
	userID := requestcontext.UserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "invalid domain id")
		return
	}

	if err := h.domains.Remove(r.Context(), id, userID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Domain removed"})
}
