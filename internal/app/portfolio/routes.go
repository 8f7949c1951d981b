package portfolio

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/adityarana14/makris-portfolio/internal/http/handlers/admin/createresource"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/admin/grantpremium"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/admin/listusers"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/auth/login"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/auth/me"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/auth/refresh"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/auth/register"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/purchase/approve"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/purchase/demo"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/purchase/deny"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/purchase/listrequests"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/purchase/myrequest"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/purchase/request"
	premiumhandler "github.com/adityarana14/makris-portfolio/internal/http/handlers/resource/premium"
	"github.com/adityarana14/makris-portfolio/internal/http/handlers/resource/public"
	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/lib/jwt"
	"github.com/adityarana14/makris-portfolio/internal/policy"
	authservice "github.com/adityarana14/makris-portfolio/internal/services/auth"
	premiumservice "github.com/adityarana14/makris-portfolio/internal/services/premium"
	resourceservice "github.com/adityarana14/makris-portfolio/internal/services/resource"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	authService *authservice.AuthService, premiumService *premiumservice.PremiumService,
	resourceService *resourceservice.ResourceService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/resources/public", public.New(logger, resourceService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/me", me.New(logger).ServeHTTP)
			r.Post("/auth/refresh", refresh.New(logger, authService).ServeHTTP)
			r.Post("/purchase/request", request.New(logger, premiumService).ServeHTTP)
			r.Post("/purchase/demo", demo.New(logger, premiumService).ServeHTTP)
			r.Get("/purchase/my-request", myrequest.New(logger, premiumService).ServeHTTP)

			// Премиум-контент закрыт политикой, а не только ролью:
			// доступ даёт и роль, и соответствующее утверждение в токене.
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePolicy(policy.NamePremium, logger))
				r.Get("/resources/premium", premiumhandler.New(logger, resourceService).ServeHTTP)
			})

			// Административные конечные точки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(claims.RoleAdmin, logger))
				r.Get("/purchase/requests", listrequests.New(logger, premiumService).ServeHTTP)
				r.Post("/purchase/approve/{id}", approve.New(logger, premiumService).ServeHTTP)
				r.Post("/purchase/deny/{id}", deny.New(logger, premiumService).ServeHTTP)
				r.Post("/admin/resources", createresource.New(logger, resourceService).ServeHTTP)
				r.Get("/admin/users", listusers.New(logger, authService).ServeHTTP)
				r.Post("/admin/grant-premium", grantpremium.New(logger, premiumService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
