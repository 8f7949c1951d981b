// Package services содержит бизнес-логику заявок на премиум-доступ:
// подачу заявки пользователем и решение администратора.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/models"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// PremiumRepository описывает контракт хранилища для заявок и ролей.
type PremiumRepository interface {
	// CreatePremiumRequest сохраняет новую заявку и возвращает её ID.
	CreatePremiumRequest(ctx context.Context, req models.PremiumRequest) (int, error)
	// GetPremiumRequest возвращает заявку по ID или ErrRequestNotFound.
	GetPremiumRequest(ctx context.Context, id int) (*models.PremiumRequest, error)
	// GetLatestRequestByUser возвращает последнюю заявку пользователя
	// или ErrRequestNotFound.
	GetLatestRequestByUser(ctx context.Context, userUID string) (*models.PremiumRequest, error)
	// ListPremiumRequests возвращает заявки по статусу; пустой статус — все.
	ListPremiumRequests(ctx context.Context, status string) ([]*models.PremiumRequest, error)
	// MarkRequestReviewed фиксирует решение, если статус ещё не установлен.
	MarkRequestReviewed(ctx context.Context, id int, status, reviewedBy string, reviewedUtc time.Time) (bool, error)
	// UserHasRole сообщает, назначена ли пользователю роль.
	UserHasRole(ctx context.Context, userUID, role string) (bool, error)
	// AddUserRole идемпотентно назначает пользователю роль.
	AddUserRole(ctx context.Context, userUID, role string) error
	// GetUser возвращает пользователя по UID или ErrUserNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ReviewEvent — событие решения по заявке для очереди уведомлений.
type ReviewEvent struct {
	RequestID int    `json:"request_id"`
	Email     string `json:"email"`
	Decision  string `json:"decision"`
}

// Notifier публикует события решений. Публикация выполняется по принципу
// best effort: её отказ не откатывает решение.
type Notifier interface {
	PublishReview(ctx context.Context, event ReviewEvent) error
}

// PremiumService реализует рабочий процесс заявок на премиум-доступ.
type PremiumService struct {
	repo     PremiumRepository
	notifier Notifier
	log      *slog.Logger
}

// NewPremiumService создает новый экземпляр PremiumService.
func NewPremiumService(repo PremiumRepository, notifier Notifier, log *slog.Logger) *PremiumService {
	return &PremiumService{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Request подаёт заявку пользователя на премиум-доступ.
//
// Пользователь с ролью Premium сразу получает Approved без новой записи.
// Если последняя заявка пользователя ещё Pending, повторная подача
// идемпотентна и запись не дублируется. В остальных случаях — включая
// ранее отклонённую заявку, отказ не блокирует повторную подачу —
// создаётся новая запись Pending.
func (s *PremiumService) Request(ctx context.Context, userUID, email, notes string) (string, error) {
	has, err := s.repo.UserHasRole(ctx, userUID, claims.RolePremium)
	if err != nil {
		return "", err
	}
	if has {
		return models.StatusApproved, nil
	}

	latest, err := s.repo.GetLatestRequestByUser(ctx, userUID)
	if err != nil && !errors.Is(err, repository.ErrRequestNotFound) {
		return "", err
	}
	if latest != nil && latest.Status == models.StatusPending {
		return models.StatusPending, nil
	}

	req := models.PremiumRequest{
		UserUID:    userUID,
		Email:      email,
		CreatedUtc: time.Now().UTC(),
		Status:     models.StatusPending,
		Notes:      notes,
	}
	if _, err = s.repo.CreatePremiumRequest(ctx, req); err != nil {
		return "", err
	}
	return models.StatusPending, nil
}

// Status возвращает статус премиум-доступа пользователя. Роль Premium
// авторитетна и перекрывает любой сохранённый статус заявки.
func (s *PremiumService) Status(ctx context.Context, userUID string) (string, error) {
	has, err := s.repo.UserHasRole(ctx, userUID, claims.RolePremium)
	if err != nil {
		return "", err
	}
	if has {
		return models.StatusApproved, nil
	}

	latest, err := s.repo.GetLatestRequestByUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return models.StatusNone, nil
		}
		return "", err
	}
	return latest.Status, nil
}

// List возвращает заявки для администратора. Фильтр нормализуется
// регистронезависимо; неизвестное значение означает все заявки.
func (s *PremiumService) List(ctx context.Context, statusFilter string) ([]*models.PremiumRequest, error) {
	return s.repo.ListPremiumRequests(ctx, NormalizeStatus(statusFilter))
}

// Approve одобряет заявку. Повторное одобрение не перезаписывает время
// решения. Роль Premium назначается в любом случае: так устраняется
// рассинхронизация между записью заявки и ролью пользователя.
func (s *PremiumService) Approve(ctx context.Context, id int, reviewer string) error {
	req, err := s.repo.GetPremiumRequest(ctx, id)
	if err != nil {
		return err
	}
	user, err := s.repo.GetUser(ctx, req.UserUID)
	if err != nil {
		return err
	}

	changed, err := s.repo.MarkRequestReviewed(ctx, id, models.StatusApproved, reviewer, time.Now().UTC())
	if err != nil {
		return err
	}
	if err = s.repo.AddUserRole(ctx, user.UID, claims.RolePremium); err != nil {
		return err
	}

	if changed {
		s.publishReview(ctx, ReviewEvent{RequestID: id, Email: req.Email, Decision: models.StatusApproved})
	}
	return nil
}

// Deny отклоняет заявку. Повторный отказ идемпотентен. Отказ никогда
// не отзывает уже выданную роль Premium.
func (s *PremiumService) Deny(ctx context.Context, id int, reviewer string) error {
	req, err := s.repo.GetPremiumRequest(ctx, id)
	if err != nil {
		return err
	}

	changed, err := s.repo.MarkRequestReviewed(ctx, id, models.StatusDenied, reviewer, time.Now().UTC())
	if err != nil {
		return err
	}

	if changed {
		s.publishReview(ctx, ReviewEvent{RequestID: id, Email: req.Email, Decision: models.StatusDenied})
	}
	return nil
}

// Grant напрямую назначает пользователю роль Premium по email,
// минуя заявку. Используется администратором.
func (s *PremiumService) Grant(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.repo.AddUserRole(ctx, user.UID, claims.RolePremium)
}

func (s *PremiumService) publishReview(ctx context.Context, event ReviewEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishReview(ctx, event); err != nil {
		s.log.Warn("failed to publish review event",
			slog.Int("request_id", event.RequestID), sl.Err(err))
	}
}

// NormalizeStatus приводит пользовательский фильтр статуса к каноническому
// значению. Пустой фильтр означает Pending, неизвестный превращается
// в пустую строку — все заявки.
func NormalizeStatus(filter string) string {
	switch strings.ToLower(filter) {
	case "", "pending":
		return models.StatusPending
	case "approved":
		return models.StatusApproved
	case "denied":
		return models.StatusDenied
	default:
		return ""
	}
}
