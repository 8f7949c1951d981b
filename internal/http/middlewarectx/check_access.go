package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/policy"
)

// RequirePolicy создает middleware, пропускающий только принципалов,
// удовлетворяющих именованной политике доступа.
func RequirePolicy(name string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequirePolicy"

			log := log.With(
				slog.String("op", op),
				slog.String("policy", name),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if !policy.Satisfies(name, principal) {
				log.Warn("access denied by policy", slog.String("user", principal.Name))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole создает middleware, пропускающий только принципалов с указанной ролью.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			log := log.With(
				slog.String("op", op),
				slog.String("role", role),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if !principal.HasRole(role) {
				log.Warn("access denied by role", slog.String("user", principal.Name))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
