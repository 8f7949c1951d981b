// Package claims реализует преобразование между пользователем, набором
// claims токена и принципалом.
//
// Набор claims представлен типизированным отображением ключа в список
// строковых значений: claim "role" многозначный, остальные канонические
// claims — однозначные. Неизвестные claims сохраняются без интерпретации,
// чтобы не терять данные токенов будущих версий.
package claims

import (
	"fmt"
	"strings"

	"github.com/adityarana14/makris-portfolio/internal/models"
)

// Канонические имена claims, совместимые с форматом токена клиента.
const (
	KeySubject     = "sub"
	KeyName        = "name"
	KeyEmail       = "email"
	KeyDisplayName = "displayName"
	KeyRole        = "role"
	KeyHasPremium  = "HasPremium"
)

// RolePremium — имя роли, открывающей доступ к премиум-ресурсам.
// Все проверки роли регистронезависимые.
const RolePremium = "Premium"

// RoleAdmin — имя роли администратора.
const RoleAdmin = "Admin"

// Set — набор claims токена: ключ -> одно или несколько строковых значений.
type Set map[string][]string

// First возвращает первое значение claim по ключу или пустую строку.
func (s Set) First(key string) string {
	if vs, ok := s[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Add добавляет значение к claim по ключу.
func (s Set) Add(key, value string) {
	s[key] = append(s[key], value)
}

// FromUser строит канонический набор claims для пользователя и его ролей.
//
// Всегда включает идентификатор (sub), имя с цепочкой fallback
// username -> email -> uid, email и отображаемое имя (fallback на email).
// На каждую роль добавляется одно значение claim "role". Если среди ролей
// есть Premium, дополнительно выставляется удобный claim HasPremium,
// чтобы проверка политики не требовала перебора ролей.
func FromUser(u models.User, roles []string) Set {
	name := u.Username
	if name == "" {
		name = u.Email
	}
	if name == "" {
		name = u.UID
	}
	display := u.DisplayName
	if display == "" {
		display = u.Email
	}

	s := Set{
		KeySubject:     {u.UID},
		KeyName:        {name},
		KeyEmail:       {u.Email},
		KeyDisplayName: {display},
	}
	for _, role := range roles {
		s.Add(KeyRole, role)
	}
	for _, role := range roles {
		if strings.EqualFold(role, RolePremium) {
			s[KeyHasPremium] = []string{"true"}
			break
		}
	}
	return s
}

// ToPrincipal восстанавливает принципала из набора claims.
//
// Канонические claims раскладываются по полям Principal, все остальные
// попадают в Extra в исходном виде.
func ToPrincipal(s Set) models.Principal {
	p := models.Principal{
		UID:         s.First(KeySubject),
		Name:        s.First(KeyName),
		Email:       s.First(KeyEmail),
		DisplayName: s.First(KeyDisplayName),
		Extra:       map[string][]string{},
	}
	if roles, ok := s[KeyRole]; ok {
		p.Roles = append(p.Roles, roles...)
	}
	for key, values := range s {
		switch key {
		case KeySubject, KeyName, KeyEmail, KeyDisplayName, KeyRole:
			continue
		}
		p.Extra[key] = append([]string(nil), values...)
	}
	return p
}

// ToWire переводит набор claims в форму полезной нагрузки JWT:
// однозначный claim сериализуется строкой, многозначный — массивом строк.
func ToWire(s Set) map[string]any {
	wire := make(map[string]any, len(s))
	for key, values := range s {
		if len(values) == 1 {
			wire[key] = values[0]
			continue
		}
		wire[key] = append([]string(nil), values...)
	}
	return wire
}

// FromWire разбирает полезную нагрузку JWT в набор claims.
//
// Значение-массив разворачивается в несколько значений claim (так клиент
// читает claim "role"), скалярное значение становится единственным.
// Нестроковые значения приводятся к строке.
func FromWire(wire map[string]any) Set {
	s := Set{}
	for key, value := range wire {
		switch v := value.(type) {
		case string:
			s.Add(key, v)
		case []any:
			for _, item := range v {
				s.Add(key, stringify(item))
			}
		case []string:
			for _, item := range v {
				s.Add(key, item)
			}
		default:
			s.Add(key, stringify(v))
		}
	}
	return s
}

func stringify(v any) string {
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", v)
}
