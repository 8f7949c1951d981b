// Package refresh реализует HTTP-обработчик перевыпуска JWT токена.
//
// Handler берёт принципала из контекста запроса и выпускает новый токен
// с актуальными ролями из хранилища. Клиент вызывает эту операцию после
// одобрения премиум-заявки, чтобы получить токен с новой ролью.
package refresh

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
	services "github.com/adityarana14/makris-portfolio/internal/services/auth"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// Handler обрабатывает запросы перевыпуска токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики перевыпуска токена.
type Service interface {
	Refresh(ctx context.Context, userUID string) (*services.AuthResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Перевыпуск JWT токена
// @Description Выпускает новый токен с актуальными ролями пользователя.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Новый токен"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

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

	res, err := h.service.Refresh(r.Context(), principal.UID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("user not found", slog.String("uid", principal.UID))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to refresh token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("token refreshed", slog.String("user", principal.Name))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":       res.Token,
		"email":       res.Email,
		"displayName": res.DisplayName,
	}))
}
