package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adityarana14/makris-portfolio/internal/models"
)

// Ошибки клиента, различимые вызывающим кодом.
var (
	// ErrUnauthorized — сервер отклонил запрос как неаутентифицированный.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — запрос аутентифицирован, но прав недостаточно.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials — неверные учетные данные при входе.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Client — типизированный клиент HTTP API с локальной сессией.
type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
}

// New создает клиент API. Токен сессии автоматически добавляется
// к каждому запросу через транспорт.
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: baseURL,
		session: session,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: &bearerTransport{session: session},
		},
	}
}

// Session возвращает сессию клиента.
func (c *Client) Session() *Session {
	return c.session
}

// envelope повторяет формат ответа сервера.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, *envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, &env, nil
}

// authData — данные ответов входа, регистрации и перевыпуска токена.
type authData struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Register регистрирует пользователя и открывает сессию с полученным токеном.
func (c *Client) Register(ctx context.Context, email, password, displayName string) error {
	const op = "client.Register"

	code, env, err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":       email,
		"password":    password,
		"displayName": displayName,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("%s: %s", op, env.Error)
	}
	return c.adoptToken(op, env)
}

// Login выполняет вход и открывает сессию с полученным токеном.
func (c *Client) Login(ctx context.Context, email, password string) error {
	const op = "client.Login"

	code, env, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if code == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if code != http.StatusOK {
		return fmt.Errorf("%s: %s", op, env.Error)
	}
	return c.adoptToken(op, env)
}

// Logout закрывает сессию локально. Сервер состояние сессии не хранит.
func (c *Client) Logout() {
	c.session.Clear()
}

// Refresh перевыпускает токен с актуальными ролями.
// Ответ 401 закрывает сессию: токен больше не принимается сервером.
func (c *Client) Refresh(ctx context.Context) error {
	const op = "client.Refresh"

	code, env, err := c.do(ctx, http.MethodPost, "/auth/refresh", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if code == http.StatusUnauthorized {
		c.session.Clear()
		return ErrUnauthorized
	}
	if code != http.StatusOK {
		return fmt.Errorf("%s: %s", op, env.Error)
	}
	return c.adoptToken(op, env)
}

// Profile — профиль текущего пользователя.
type Profile struct {
	UID         string   `json:"uid"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
	HasPremium  bool     `json:"hasPremium"`
}

// Me возвращает профиль текущего пользователя.
// Ответ 401 закрывает сессию.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	const op = "client.Me"

	code, env, err := c.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if code == http.StatusUnauthorized {
		c.session.Clear()
		return nil, ErrUnauthorized
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", op, env.Error)
	}
	var profile Profile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &profile, nil
}

type resourcesData struct {
	Resources []models.Resource `json:"resources"`
}

// PublicResources возвращает общедоступные ресурсы.
// Сетевая ошибка не считается фатальной: возвращается пустой список.
func (c *Client) PublicResources(ctx context.Context) []models.Resource {
	code, env, err := c.do(ctx, http.MethodGet, "/resources/public", nil)
	if err != nil || code != http.StatusOK {
		return nil
	}
	var data resourcesData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil
	}
	return data.Resources
}

// PremiumResources возвращает премиум-ресурсы.
// Отсутствие прав возвращает ErrForbidden, сетевая ошибка даёт пустой список.
func (c *Client) PremiumResources(ctx context.Context) ([]models.Resource, error) {
	const op = "client.PremiumResources"

	code, env, err := c.do(ctx, http.MethodGet, "/resources/premium", nil)
	if err != nil {
		return nil, nil
	}
	switch code {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("%s: %s", op, env.Error)
	}
	var data resourcesData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data.Resources, nil
}

type statusData struct {
	Status string `json:"status"`
}

// RequestPremium подаёт заявку на премиум-доступ и возвращает её статус.
func (c *Client) RequestPremium(ctx context.Context, notes string) (string, error) {
	const op = "client.RequestPremium"

	code, env, err := c.do(ctx, http.MethodPost, "/purchase/request", map[string]string{"notes": notes})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if code == http.StatusUnauthorized {
		return "", ErrUnauthorized
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("%s: %s", op, env.Error)
	}
	var data statusData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return data.Status, nil
}

// DemoPurchase выполняет демо-покупку: назначает вызывающему
// пользователю роль Premium без оплаты и заявки.
func (c *Client) DemoPurchase(ctx context.Context) error {
	const op = "client.DemoPurchase"

	code, env, err := c.do(ctx, http.MethodPost, "/purchase/demo", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if code != http.StatusOK {
		return fmt.Errorf("%s: %s", op, env.Error)
	}
	return nil
}

// MyRequestStatus возвращает статус собственной заявки.
// Анонимный запрос даёт None без ошибки.
func (c *Client) MyRequestStatus(ctx context.Context) (string, error) {
	const op = "client.MyRequestStatus"

	code, env, err := c.do(ctx, http.MethodGet, "/purchase/my-request", nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if code == http.StatusUnauthorized {
		return models.StatusNone, nil
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("%s: %s", op, env.Error)
	}
	var data statusData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return data.Status, nil
}

type requestsData struct {
	Requests []*models.PremiumRequest `json:"requests"`
}

// ListRequests возвращает заявки на премиум-доступ. Только для
// администраторов. Сетевая ошибка даёт пустой список.
func (c *Client) ListRequests(ctx context.Context, statusFilter string) ([]*models.PremiumRequest, error) {
	const op = "client.ListRequests"

	path := "/purchase/requests"
	if statusFilter != "" {
		path += "?status=" + statusFilter
	}
	code, env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil
	}
	switch code {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("%s: %s", op, env.Error)
	}
	var data requestsData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data.Requests, nil
}

// Approve одобряет заявку. Только для администраторов.
func (c *Client) Approve(ctx context.Context, id int) error {
	return c.review(ctx, "client.Approve", fmt.Sprintf("/purchase/approve/%d", id))
}

// Deny отклоняет заявку. Только для администраторов.
func (c *Client) Deny(ctx context.Context, id int) error {
	return c.review(ctx, "client.Deny", fmt.Sprintf("/purchase/deny/%d", id))
}

func (c *Client) review(ctx context.Context, op, path string) error {
	code, env, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusOK:
		return nil
	default:
		return fmt.Errorf("%s: %s", op, env.Error)
	}
}

func (c *Client) adoptToken(op string, env *envelope) error {
	var data authData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.session.SetToken(data.Token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
