// Package demo реализует HTTP-обработчик демо-покупки премиум-доступа.
//
// Роль Premium назначается вызывающему пользователю напрямую, без заявки
// и без оплаты. Повторный вызов идемпотентен.
package demo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// Handler обрабатывает запросы демо-покупки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс назначения премиум-роли.
type Service interface {
	Grant(ctx context.Context, email string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Демо-покупка премиум-доступа
// @Description Назначает вызывающему пользователю роль Premium без оплаты.
// @Tags Purchase
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Роль назначена"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /purchase/demo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.demo"

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

	if err := h.service.Grant(r.Context(), principal.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("token subject no longer exists", slog.String("email", principal.Email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unknown user"))
			return
		}
		log.Error("failed to grant premium role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("premium role granted", slog.String("user", principal.Name))
	render.JSON(w, r, response.OK())
}
