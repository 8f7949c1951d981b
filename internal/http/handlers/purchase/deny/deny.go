// Package deny реализует HTTP-обработчик отклонения заявки на премиум-доступ.
//
// Отказ не отзывает уже выданную премиум-роль. После отказа пользователь
// может подать заявку повторно.
package deny

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// Handler обрабатывает отклонение заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики рассмотрения заявок.
type Service interface {
	Deny(ctx context.Context, id int, reviewer string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отклонить заявку на премиум-доступ
// @Tags Purchase
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Идентификатор заявки"
// @Success 200 {object} response.Response "Заявка отклонена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Router /purchase/deny/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.deny"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Deny(r.Context(), id, principal.Name); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			log.Warn("request not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found"))
			return
		}
		log.Error("failed to deny request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deny request"))
		return
	}

	log.Info("premium request denied", slog.Int("id", id), slog.String("reviewer", principal.Name))
	render.JSON(w, r, response.OK())
}
