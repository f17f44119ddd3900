package httptransport

import (
	"net/http"
	"strings"

	"domainwatch/pkg/platform/httputil"
	"domainwatch/pkg/requestcontext"
)

// authenticate validates the bearer token and stores the caller identity
// in the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httputil.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.tokens.Validate(token)
		if err != nil {
			httputil.WriteErrorMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		userID, err := h.tokens.ExtractUserID(token)
		if err != nil {
			httputil.WriteErrorMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := requestcontext.WithUserID(r.Context(), userID)
		ctx = requestcontext.WithUserEmail(ctx, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
