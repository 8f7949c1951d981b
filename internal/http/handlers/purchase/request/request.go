// Package request реализует HTTP-обработчик подачи заявки на премиум-доступ.
//
// Повторная подача при открытой заявке не создаёт дубликат,
// а после отказа пользователь может подать заявку снова.
package request

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/http/response"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
)

// Request — структура входных данных заявки. Комментарий необязателен.
type Request struct {
	Notes string `json:"notes"`
}

// Handler обрабатывает подачу заявки на премиум-доступ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	Request(ctx context.Context, userUID, email, notes string) (string, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подать заявку на премиум-доступ
// @Tags Purchase
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request false "Комментарий к заявке"
// @Success 200 {object} map[string]any "Статус заявки"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /purchase/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.request"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	status, err := h.service.Request(r.Context(), principal.UID, principal.Email, req.Notes)
	if err != nil {
		log.Error("failed to submit premium request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not submit request"))
		return
	}

	log.Info("premium request submitted", slog.String("user", principal.Name), slog.String("status", status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": status,
	}))
}
