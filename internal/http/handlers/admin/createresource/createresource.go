// Package createresource реализует HTTP-обработчик создания ресурса администратором.
package createresource

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/models"
)

// Request — структура входных данных нового ресурса.
type Request struct {
	Title     string `json:"title" validate:"required"`
	URL       string `json:"url" validate:"required,url"`
	IsPremium bool   `json:"isPremium"`
}

// Handler обрабатывает создание ресурсов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики ресурсов.
type Service interface {
	Create(ctx context.Context, r models.Resource) (models.Resource, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать ресурс
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Данные ресурса"
// @Success 200 {object} map[string]any "Созданный ресурс"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /admin/resources [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.createresource"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	res, err := h.service.Create(r.Context(), models.Resource{
		Title:     req.Title,
		URL:       req.URL,
		IsPremium: req.IsPremium,
	})
	if err != nil {
		log.Error("failed to create resource", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create resource"))
		return
	}

	log.Info("resource created", slog.Int("id", res.ID), slog.String("title", res.Title))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"resource": res,
	}))
}
