// Package myrequest реализует HTTP-обработчик статуса собственной заявки на премиум-доступ.
//
// Для пользователя с премиум-ролью статус всегда Approved,
// независимо от состояния записей в хранилище.
package myrequest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
)

// Handler обрабатывает запросы статуса собственной заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	Status(ctx context.Context, userUID string) (string, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус заявки текущего пользователя
// @Tags Purchase
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Статус заявки"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /purchase/my-request [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.myrequest"

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

	status, err := h.service.Status(r.Context(), principal.UID)
	if err != nil {
		log.Error("failed to read request status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read request status"))
		return
	}

	log.Info("request status read", slog.String("user", principal.Name), slog.String("status", status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": status,
	}))
}
