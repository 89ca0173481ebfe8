package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"account-auth/internal/dto"
	"account-auth/internal/netutil"
	"account-auth/internal/service"
)

type AuthHandler struct {
	auth   service.AuthService
	tokens service.TokenService
}

func NewAuthHandler(auth service.AuthService, tokens service.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, res.Message, map[string]string{"email": res.Email})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		slog.Info("login rejected",
			"ip", clientIP(r),
			"user_agent", netutil.TruncateUserAgent(r.UserAgent()),
		)
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	// The refresh JWT proves the subject; the orchestrator then checks it
	// against the stored hash before rotating.
	claims, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.auth.Refresh(r.Context(), claims.UserID, req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Token refreshed", res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "no identity in request")
		return
	}
	if err := h.auth.Logout(r.Context(), principal.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	res, err := h.auth.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Email verified successfully", res)
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	msg, err := h.auth.ResendVerification(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, msg, nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	msg, err := h.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, msg, nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password has been reset successfully", nil)
}

func clientIP(r *http.Request) string {
	if normalized, ok := netutil.NormalizeIP(r.RemoteAddr); ok {
		return normalized
	}
	return r.RemoteAddr
}
