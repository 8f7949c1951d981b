package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/lib/password"
	"github.com/adityarana14/makris-portfolio/internal/models"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

// Стартовые учётные записи для локальной разработки и демонстрации.
// Повторный запуск не создаёт дубликатов и не меняет существующие пароли.
var seedAccounts = []struct {
	email       string
	password    string
	displayName string
	roles       []string
}{
	{"admin@makris.dev", "Admin#2024!", "Администратор", []string{claims.RoleAdmin}},
	{"premium@makris.dev", "Premium#2024!", "Премиум-пользователь", []string{claims.RolePremium}},
	{"demo@makris.dev", "Demo#2024!", "Демо-пользователь", nil},
}

func seedUsers(ctx context.Context, db *repository.Storage, logger *slog.Logger) error {
	const op = "portfolio.seedUsers"

	for _, acc := range seedAccounts {
		hashed, err := password.GetHash(acc.password)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		user := models.User{
			UID:          uuid.NewString(),
			Email:        acc.email,
			Username:     acc.email,
			PasswordHash: hashed,
			DisplayName:  acc.displayName,
			CreatedUtc:   time.Now().UTC(),
		}
		uid, err := db.RegisterUser(ctx, user)
		if err != nil {
			if !errors.Is(err, repository.ErrUserExists) {
				return fmt.Errorf("%s: %w", op, err)
			}
			existing, gerr := db.GetUserByEmail(ctx, acc.email)
			if gerr != nil {
				return fmt.Errorf("%s: %w", op, gerr)
			}
			uid = existing.UID
		} else {
			logger.Info("seed user created", slog.String("email", acc.email))
		}

		for _, role := range acc.roles {
			if err := db.AddUserRole(ctx, uid, role); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}
	return nil
}
