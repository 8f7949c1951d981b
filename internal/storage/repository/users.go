package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adityarana14/makris-portfolio/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его UID.
// Нарушение уникальности email возвращается как ErrUserExists.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"

	var newUID string
	query := `INSERT INTO users (uid, email, username, password_hash, display_name, created_utc)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Email, user.Username, user.PasswordHash, user.DisplayName,
		user.CreatedUtc).Scan(&newUID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT uid, email, username, password_hash, display_name, created_utc
			  FROM users
			  WHERE email = $1`
	return s.scanUser(ctx, op, query, email)
}

// GetUser возвращает пользователя по его UID или ErrUserNotFound.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT uid, email, username, password_hash, display_name, created_utc
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(ctx, op, query, userUID)
}

func (s *Storage) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	u := &models.User{}
	var displayName sql.NullString
	row := s.DB.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&displayName, &u.CreatedUtc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if displayName.Valid {
		u.DisplayName = displayName.String
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, отсортированных по email.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"

	query := `SELECT uid, email, username, password_hash, display_name, created_utc
			  FROM users
			  ORDER BY email`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var displayName sql.NullString
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
			&displayName, &u.CreatedUtc); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if displayName.Valid {
			u.DisplayName = displayName.String
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetUserRoles возвращает список ролей пользователя.
func (s *Storage) GetUserRoles(ctx context.Context, userUID string) ([]string, error) {
	const op = "storage.GetUserRoles"

	query := `SELECT role FROM user_roles WHERE user_uid = $1 ORDER BY role`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var roles []string
	for rows.Next() {
		var role string
		if err = rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roles, nil
}

// AddUserRole назначает пользователю роль. Повторное назначение той же
// роли не является ошибкой.
func (s *Storage) AddUserRole(ctx context.Context, userUID, role string) error {
	const op = "storage.AddUserRole"

	query := `INSERT INTO user_roles (user_uid, role)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid, role) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, userUID, role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UserHasRole сообщает, назначена ли пользователю роль. Сравнение
// регистронезависимое.
func (s *Storage) UserHasRole(ctx context.Context, userUID, role string) (bool, error) {
	const op = "storage.UserHasRole"

	query := `SELECT EXISTS (
				  SELECT 1 FROM user_roles
				  WHERE user_uid = $1 AND LOWER(role) = LOWER($2)
			  )`
	var has bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, role).Scan(&has); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return has, nil
}
