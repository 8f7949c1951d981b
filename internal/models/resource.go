package models

// Resource представляет ссылку на материал портфолио. Премиальные
// ресурсы доступны только пользователям с ролью Premium.
type Resource struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsPremium bool   `json:"is_premium"`
}
