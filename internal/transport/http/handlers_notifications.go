package httptransport

import (
	"errors"
	"net/http"

	authservice "domainwatch/internal/auth/service"
	"domainwatch/pkg/platform/httputil"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

type preferencesResponse struct {
	EmailNotifications bool   `json:"emailNotifications"`
	SMSNotifications   bool   `json:"smsNotifications"`
	Phone              string `json:"phone"`
}

type updatePreferencesRequest struct {
	EmailNotifications bool   `json:"emailNotifications"`
	SMSNotifications   bool   `json:"smsNotifications"`
	Phone              string `json:"phone"`
}

type testNotificationRequest struct {
	Type string `json:"type"`
}

func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.User(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, preferencesResponse{
		EmailNotifications: user.EmailNotifications,
		SMSNotifications:   user.SMSNotifications,
		Phone:              user.Phone,
	})
}

func (h *Handler) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := requestcontext.UserID(r.Context())
	err := h.auth.UpdatePreferences(r.Context(), userID, req.EmailNotifications, req.SMSNotifications, req.Phone)
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Preferences updated successfully"})
	case errors.Is(err, authservice.ErrInvalidInput):
		httputil.WriteErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		httputil.WriteError(w, err)
	}
}

func (h *Handler) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	var req testNotificationRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.User(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	switch req.Type {
	case "email":
		id, err := h.email.Send(r.Context(), user.Email,
			"Test Notification - Domain Dashboard",
			"<h2>Test Email</h2><p>This is a test notification from Domain Dashboard. Your email notifications are working!</p>")
		h.writeTestResult(w, r, id, err)
	case "sms":
		if user.Phone == "" {
			httputil.WriteErrorMessage(w, http.StatusBadRequest, "Phone number not set")
			return
		}
		id, err := h.sms.Send(r.Context(), user.Phone,
			"Test SMS from Domain Dashboard. Your SMS notifications are working!")
		h.writeTestResult(w, r, id, err)
	default:
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "Invalid notification type")
	}
}

func (h *Handler) writeTestResult(w http.ResponseWriter, r *http.Request, messageID string, err error) {
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "messageId": messageID})
	case errors.Is(err, sentinel.ErrNotConfigured):
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "Notification channel is not configured")
	default:
		h.logger.ErrorContext(r.Context(), "test notification failed", "error", err)
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Failed to send test notification")
	}
}
