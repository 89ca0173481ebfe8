package http

import (
	"errors"
	"log/slog"
	"net/http"

	"account-auth/internal/domain"
	obsmw "account-auth/internal/observability/middleware"
	impl "account-auth/internal/service/impl"
)

// writeServiceError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 and its detail stays in the logs.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrEmailNotVerified),
		errors.Is(err, domain.ErrUserDisabled),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidRefreshSession):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidVerifyToken),
		errors.Is(err, domain.ErrInvalidResetToken),
		errors.Is(err, domain.ErrResetTokenExpired):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyVerified),
		errors.Is(err, impl.ErrEmptyEmail),
		errors.Is(err, impl.ErrEmptyName),
		errors.Is(err, impl.ErrEmptyPassword),
		errors.Is(err, impl.ErrPasswordLength),
		errors.Is(err, impl.ErrNoRoles):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", obsmw.RequestIDFromContext(r.Context()),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
