// Package policy реализует проверку именованных политик доступа над
// принципалом. Политика — предикат, вычисляемый только по claims
// декодированного токена, без обращения к базе данных.
package policy

import (
	"strings"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/models"
)

// Policy — предикат доступа над принципалом.
type Policy func(models.Principal) bool

// NamePremium — имя политики доступа к премиум-ресурсам.
const NamePremium = "Premium"

// registry — таблица именованных политик сервиса.
var registry = map[string]Policy{
	NamePremium: premiumPolicy,
}

// Lookup возвращает политику по имени.
func Lookup(name string) (Policy, bool) {
	p, ok := registry[name]
	return p, ok
}

// Satisfies сообщает, удовлетворяет ли принципал политике name.
// Неизвестная политика никого не пропускает.
func Satisfies(name string, p models.Principal) bool {
	pol, ok := registry[name]
	if !ok {
		return false
	}
	return pol(p)
}

// premiumPolicy пропускает принципала с ролью Premium либо с удобным
// claim HasPremium. Достаточно любого из двух признаков: claim
// выпускается вместе с ролью, чтобы проверка не требовала повторного
// вычисления ролей.
func premiumPolicy(p models.Principal) bool {
	if p.HasRole(claims.RolePremium) {
		return true
	}
	return strings.EqualFold(p.ExtraValue(claims.KeyHasPremium), "true")
}

// HasRole проверяет точное членство принципала в роли name. Иерархии
// и наследования ролей нет.
func HasRole(p models.Principal, name string) bool {
	return p.HasRole(name)
}
