// Package premium реализует HTTP-обработчик списка премиум-ресурсов.
//
// Маршрут закрыт политикой доступа Premium, поэтому сюда попадают
// только пользователи с премиум-ролью или соответствующим утверждением в токене.
package premium

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

// Handler обрабатывает запросы списка премиум-ресурсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения ресурсов.
type Service interface {
	ListPremium(ctx context.Context) ([]models.Resource, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список премиум-ресурсов
// @Tags Resources
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список ресурсов"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет премиум-доступа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /resources/premium [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.premium"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListPremium(r.Context())
	if err != nil {
		log.Error("failed to list premium resources", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list resources"))
		return
	}

	log.Info("premium resources listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"resources": res,
	}))
}
