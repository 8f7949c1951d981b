package models

import "time"

// Статусы заявки на премиум-доступ.
const (
	// StatusNone — заявок у пользователя нет.
	StatusNone = "None"
	// StatusPending — заявка ожидает решения администратора.
	StatusPending = "Pending"
	// StatusApproved — заявка одобрена.
	StatusApproved = "Approved"
	// StatusDenied — заявка отклонена. Пользователь может подать новую.
	StatusDenied = "Denied"
)

// PremiumRequest представляет заявку пользователя на премиум-доступ.
// Заявки никогда не удаляются: решение администратора фиксируется
// в полях ReviewedBy и ReviewedUtc.
type PremiumRequest struct {
	ID          int        `json:"id"`
	UserUID     string     `json:"user_uid"`
	Email       string     `json:"email"` // Денормализована для списков администратора
	CreatedUtc  time.Time  `json:"created_utc"`
	Status      string     `json:"status"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedUtc *time.Time `json:"reviewed_utc,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}
