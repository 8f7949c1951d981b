// Package models содержит доменные модели сервиса: пользователя,
// принципала, ресурсы и заявки на премиум-доступ. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная)
	Username     string    // Имя пользователя, по умолчанию совпадает с email
	PasswordHash string    // Хэш пароля пользователя
	DisplayName  string    // Отображаемое имя, может быть пустым
	CreatedUtc   time.Time // Дата создания учетной записи
}
