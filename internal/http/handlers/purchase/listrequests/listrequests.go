// Package listrequests реализует HTTP-обработчик списка заявок на премиум-доступ.
//
// Маршрут доступен только администраторам. Поддерживает фильтр по статусу
// через query-параметр status; заявки упорядочены по статусу и дате подачи.
package listrequests

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/models"
)

// Handler обрабатывает запросы списка заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	List(ctx context.Context, statusFilter string) ([]*models.PremiumRequest, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список заявок на премиум-доступ
// @Tags Purchase
// @Produce  json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу (Pending, Approved, Denied); по умолчанию Pending"
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /purchase/requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.listrequests"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	statusFilter := r.URL.Query().Get("status")

	requests, err := h.service.List(r.Context(), statusFilter)
	if err != nil {
		log.Error("failed to list premium requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list requests"))
		return
	}

	log.Info("premium requests listed", slog.Int("count", len(requests)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"requests": requests,
	}))
}
