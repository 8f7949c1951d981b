// Package listusers реализует HTTP-обработчик списка пользователей для администратора.
package listusers

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

// Handler обрабатывает запросы списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// userView — представление пользователя без хэша пароля.
type userView struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listusers"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			UID:         u.UID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
		})
	}

	log.Info("users listed", slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": views,
	}))
}
