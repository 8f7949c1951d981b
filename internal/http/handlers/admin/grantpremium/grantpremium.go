// Package grantpremium реализует HTTP-обработчик прямой выдачи премиум-роли
// администратором, минуя механизм заявок.
package grantpremium

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// Request — структура входных данных для выдачи премиум-роли.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Handler обрабатывает выдачу премиум-роли.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выдачи премиум-доступа.
type Service interface {
	Grant(ctx context.Context, email string) error
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
// @Summary Выдать премиум-роль пользователю
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Email пользователя"
// @Success 200 {object} response.Response "Роль выдана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /admin/grant-premium [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.grantpremium"

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
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Grant(r.Context(), req.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("user not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to grant premium role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not grant premium role"))
		return
	}

	log.Info("premium role granted", slog.String("email", req.Email))
	render.JSON(w, r, response.OK())
}
