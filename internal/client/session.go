package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/models"
)

// State описывает текущее состояние сессии клиента.
type State struct {
	Authenticated bool
	Principal     models.Principal
}

// Session хранит токен текущего пользователя и извещает подписчиков
// об изменениях состояния. Принципал строится из payload токена локально,
// без обращения к серверу; подпись проверяет только сервер.
type Session struct {
	mu    sync.Mutex
	store TokenStore
	token string
	state State
	subs  []func(State)
}

// NewSession создает сессию поверх указанного хранилища токена.
func NewSession(store TokenStore) *Session {
	return &Session{store: store}
}

// Restore пытается восстановить сессию из хранилища.
// Значение, не похожее на JWT, удаляется из хранилища, чтобы мусор
// не ломал последующие запуски. Возвращает true при успешном восстановлении.
func (s *Session) Restore() bool {
	s.mu.Lock()

	token, err := s.store.Get()
	if err != nil || token == "" {
		s.mu.Unlock()
		return false
	}
	if !looksLikeJWT(token) {
		_ = s.store.Remove()
		s.mu.Unlock()
		return false
	}
	principal, err := decodePrincipal(token)
	if err != nil {
		_ = s.store.Remove()
		s.mu.Unlock()
		return false
	}
	s.token = token
	state := State{Authenticated: true, Principal: principal}
	subs := s.setStateLocked(state)
	s.mu.Unlock()

	notify(subs, state)
	return true
}

// SetToken сохраняет новый токен и переводит сессию в аутентифицированное состояние.
func (s *Session) SetToken(token string) error {
	const op = "client.Session.SetToken"

	s.mu.Lock()

	principal, err := decodePrincipal(token)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Set(token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	s.token = token
	state := State{Authenticated: true, Principal: principal}
	subs := s.setStateLocked(state)
	s.mu.Unlock()

	notify(subs, state)
	return nil
}

// Clear удаляет токен и переводит сессию в анонимное состояние.
func (s *Session) Clear() {
	s.mu.Lock()

	_ = s.store.Remove()
	s.token = ""
	subs := s.setStateLocked(State{})
	s.mu.Unlock()

	notify(subs, State{})
}

// Token возвращает текущий токен. Пустая строка означает анонимную сессию.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State возвращает текущее состояние сессии.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe регистрирует обработчик изменений состояния сессии.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// setStateLocked обновляет состояние и возвращает снимок подписчиков.
// Извещать подписчиков нужно после освобождения мьютекса: обработчик,
// читающий State или Token, иначе заблокирует сессию навсегда.
func (s *Session) setStateLocked(state State) []func(State) {
	s.state = state
	return append(([]func(State))(nil), s.subs...)
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}

// looksLikeJWT проверяет форму токена без криптографии: три сегмента
// через точку, заголовок и payload длиннее пяти символов.
func looksLikeJWT(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	return len(parts[0]) > 5 && len(parts[1]) > 5
}

// decodePrincipal строит принципала из payload токена.
func decodePrincipal(token string) (models.Principal, error) {
	const op = "client.decodePrincipal"

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return models.Principal{}, fmt.Errorf("%s: token does not have three segments", op)
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	delete(raw, "iss")
	delete(raw, "aud")
	delete(raw, "exp")
	delete(raw, "nbf")
	delete(raw, "iat")
	return claims.ToPrincipal(claims.FromWire(raw)), nil
}
