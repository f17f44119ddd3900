package httptransport

import (
	"errors"
	"net/http"

	authmodels "domainwatch/internal/auth/models"
	authservice "domainwatch/internal/auth/service"
	"domainwatch/pkg/platform/httputil"
	"domainwatch/pkg/platform/sentinel"
	"domainwatch/pkg/requestcontext"
)

type sendOTPRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

func toUserResponse(user *authmodels.User) userResponse {
	return userResponse{ID: user.ID.String(), Name: user.Name, Email: user.Email}
}

func (h *Handler) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.auth.RequestCode(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent"})
	case errors.Is(err, authservice.ErrInvalidInput):
		httputil.WriteErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sentinel.ErrConflict):
		httputil.WriteErrorMessage(w, http.StatusConflict, "Email already exists")
	case errors.Is(err, sentinel.ErrNotConfigured):
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "Email delivery is not configured")
	default:
		h.logger.ErrorContext(r.Context(), "send otp failed",
			"request_id", requestcontext.RequestID(r.Context()), "error", err)
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Failed to send verification code")
	}
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.VerifyCode(r.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, tokenResponse{
			Message: "User created", Token: token, User: toUserResponse(user),
		})
	case errors.Is(err, sentinel.ErrNotFound):
		httputil.WriteErrorMessage(w, http.StatusNotFound, "No verification request found for this email")
	case errors.Is(err, sentinel.ErrExpired):
		httputil.WriteErrorMessage(w, http.StatusGone, "Verification code has expired, request a new one")
	case errors.Is(err, sentinel.ErrMismatch):
		httputil.WriteErrorMessage(w, http.StatusUnauthorized, "Incorrect verification code")
	case errors.Is(err, sentinel.ErrConflict):
		httputil.WriteErrorMessage(w, http.StatusConflict, "Email already exists")
	default:
		h.logger.ErrorContext(r.Context(), "verify otp failed",
			"request_id", requestcontext.RequestID(r.Context()), "error", err)
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Verification failed")
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, tokenResponse{
			Message: "Login successful", Token: token, User: toUserResponse(user),
		})
	case errors.Is(err, sentinel.ErrMismatch):
		httputil.WriteErrorMessage(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.logger.ErrorContext(r.Context(), "login failed",
			"request_id", requestcontext.RequestID(r.Context()), "error", err)
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Login failed")
	}
}
