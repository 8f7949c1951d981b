// Package services содержит логику бизнес-уровня для работы
// с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/lib/jwt"
	"github.com/adityarana14/makris-portfolio/internal/lib/password"
	"github.com/adityarana14/makris-portfolio/internal/models"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// ErrInvalidCredentials — неизвестный пользователь либо неверный пароль.
// Две причины намеренно неразличимы для вызывающего, чтобы по ответу
// нельзя было перебирать зарегистрированные email.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID или ErrUserNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetUserRoles возвращает роли пользователя.
	GetUserRoles(ctx context.Context, userUID string) ([]string, error)

	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// AuthResult — результат успешной операции аутентификации.
type AuthResult struct {
	Token       string
	Email       string
	DisplayName string
}

// AuthService отвечает за регистрацию, вход и обновление токена.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя без ролей и выпускает для него токен.
// Повторная регистрация email возвращает repository.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, displayName string) (*AuthResult, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UID:          uuid.NewString(),
		Email:        email,
		Username:     email,
		PasswordHash: hashed,
		DisplayName:  displayName,
		CreatedUtc:   time.Now().UTC(),
	}
	if _, err = s.users.RegisterUser(ctx, user); err != nil {
		return nil, err
	}

	// Новый пользователь ещё без ролей, токен это отражает.
	token, err := s.jwtMaker.Issue(claims.FromUser(user, nil), 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthResult{Token: token, Email: user.Email, DisplayName: user.DisplayName}, nil
}

// Login проверяет пароль пользователя и выпускает токен с его текущими ролями.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*AuthResult, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueFor(ctx, op, user)
}

// Refresh повторно читает пользователя и его роли из хранилища и выпускает
// свежий токен. Так изменения ролей (например, выдача премиума)
// доезжают до клиента без повторного входа.
func (s *AuthService) Refresh(ctx context.Context, userUID string) (*AuthResult, error) {
	const op = "services.auth.Refresh"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return s.issueFor(ctx, op, user)
}

// ListUsers возвращает всех пользователей для административного списка.
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *AuthService) issueFor(ctx context.Context, op string, user *models.User) (*AuthResult, error) {
	roles, err := s.users.GetUserRoles(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	token, err := s.jwtMaker.Issue(claims.FromUser(*user, roles), 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthResult{Token: token, Email: user.Email, DisplayName: user.DisplayName}, nil
}
