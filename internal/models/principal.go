package models

import "strings"

// Principal представляет аутентифицированную личность, восстановленную
// из валидного токена. Никогда не сохраняется в хранилище: пересоздается
// на каждый запрос из claims токена.
type Principal struct {
	UID         string              // Идентификатор пользователя (claim "sub")
	Name        string              // Имя: username -> email -> uid
	Email       string              // Электронная почта
	DisplayName string              // Отображаемое имя, fallback на email
	Roles       []string            // Роли пользователя
	Extra       map[string][]string // Прочие claims, сохраняются без интерпретации
}

// HasRole сообщает, есть ли у принципала роль name. Сравнение
// регистронезависимое.
func (p Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}

// ExtraValue возвращает первое значение дополнительного claim по ключу key
// или пустую строку, если claim отсутствует.
func (p Principal) ExtraValue(key string) string {
	if vs, ok := p.Extra[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}
