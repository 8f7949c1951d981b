// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, их ролями, ресурсами портфолио
// и заявками на премиум-доступ.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, по которым обработчики выбирают HTTP-статус.
var (
	// ErrUserExists — пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrRequestNotFound — заявка на премиум-доступ не найдена.
	ErrRequestNotFound = errors.New("premium request not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает соединение с базой данных.
func (s *Storage) Close() error {
	return s.DB.Close()
}
