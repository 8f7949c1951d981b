// Package public реализует HTTP-обработчик списка общедоступных ресурсов.
package public

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

// Handler обрабатывает запросы списка общедоступных ресурсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения ресурсов.
type Service interface {
	ListPublic(ctx context.Context) ([]models.Resource, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список общедоступных ресурсов
// @Tags Resources
// @Produce  json
// @Success 200 {object} map[string]any "Список ресурсов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /resources/public [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.public"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListPublic(r.Context())
	if err != nil {
		log.Error("failed to list public resources", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list resources"))
		return
	}

	log.Info("public resources listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"resources": res,
	}))
}
