package http

import (
	"net/http"
	"strings"
	"time"

	"account-auth/internal/domain"
	obsmw "account-auth/internal/observability/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	CORSOrigins string // comma-separated; empty means allow all
}

// NewRouter wires the full HTTP surface. Public routes are the ones mounted
// outside the guard groups; everything else runs behind the access guard and,
// where declared, a role guard.
func NewRouter(cfg RouterConfig, auth *AuthHandler, users *UsersHandler, guard *AccessGuard) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(obsmw.WithMetrics)

	// rate limit credential-guessing surfaces (by IP)
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(strings.Split(cfg.CORSOrigins, ",")),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/refresh", auth.Refresh)
		r.Post("/verify-email", auth.VerifyEmail)
		r.Post("/resend-verification", auth.ResendVerification)
		r.Post("/forgot-password", auth.ForgotPassword)
		r.Post("/reset-password", auth.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(guard.Middleware)
			r.Post("/logout", auth.Logout)
		})
	})

	r.Route("/v1/users", func(r chi.Router) {
		r.Use(guard.Middleware)

		r.Get("/me", users.Me)

		r.Group(func(r chi.Router) {
			r.Use(RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin))
			r.Get("/", users.List)
			r.Get("/{id}", users.Get)
			r.Patch("/{id}/activate", users.Activate)
			r.Patch("/{id}/deactivate", users.Deactivate)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRoles(domain.RoleSuperAdmin))
			r.Patch("/{id}/roles", users.UpdateRoles)
			r.Delete("/{id}", users.Delete)
		})
	})

	return r
}

func originsIfSet(origins []string) []string {
	var out []string
	for _, o := range origins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
