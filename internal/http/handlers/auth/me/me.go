// Package me реализует HTTP-обработчик, возвращающий профиль текущего пользователя.
//
// Handler берёт принципала из контекста запроса, заполненного JWT middleware,
// и возвращает его идентификатор, имя, email, отображаемое имя и роли.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/policy"
)

// Handler обрабатывает запросы профиля текущего пользователя.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает данные принципала из JWT токена.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	log.Info("profile requested", slog.String("user", principal.Name))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":         principal.UID,
		"name":        principal.Name,
		"email":       principal.Email,
		"displayName": principal.DisplayName,
		"roles":       principal.Roles,
		"hasPremium":  policy.Satisfies(policy.NamePremium, principal),
	}))
}
