package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"account-auth/internal/domain"
	obsmw "account-auth/internal/observability/middleware"
	"account-auth/internal/service"
	"account-auth/internal/store"

	"github.com/google/uuid"
)

// Principal is the identity attached to the request context once the access
// guard has verified the bearer token.
type Principal struct {
	UserID domain.UserID
	Email  string
	Roles  domain.RoleList
}

type principalKey struct{}

func contextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// IdentityResolver loads the user behind a verified subject so the guard can
// attach current roles and activation state, not the ones minted into the
// token.
type IdentityResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type AccessGuard struct {
	tokens service.TokenService
	users  IdentityResolver
}

func NewAccessGuard(tokens service.TokenService, users IdentityResolver) *AccessGuard {
	return &AccessGuard{tokens: tokens, users: users}
}

// Middleware verifies the bearer token once per request. Routes that are not
// wrapped by it are public by construction.
func (g *AccessGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := obsmw.RequestIDFromContext(r.Context())

		raw := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			writeError(w, r, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			return
		}
		tokenStr := strings.TrimSpace(raw[len("Bearer "):])

		claims, err := g.tokens.VerifyAccess(tokenStr)
		if err != nil {
			slog.Warn("access token rejected", "request_id", reqID)
			writeError(w, r, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			return
		}

		user, err := g.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				writeError(w, r, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
				return
			}
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		if !user.IsActive {
			writeError(w, r, http.StatusUnauthorized, domain.ErrUserDisabled.Error())
			return
		}

		principal := &Principal{UserID: user.ID, Email: user.Email, Roles: user.Roles}
		next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
	})
}

// RequireRoles runs after the access guard and rejects identities that carry
// none of the permitted roles.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				writeError(w, r, http.StatusForbidden, "no identity in request")
				return
			}
			if !principal.Roles.HasAny(roles...) {
				writeError(w, r, http.StatusForbidden, "you do not have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
