// Package jwt реализует выпуск и проверку подписанных токенов доступа.
//
// Токен — стандартный JWT с подписью HS256. Полезная нагрузка состоит из
// набора claims (см. пакет claims) и служебных полей: издатель, аудитория,
// начало и конец срока действия. Проверка допускает небольшой рассинхрон
// часов между клиентом и сервером.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
)

// Ошибки проверки токена.
var (
	// ErrMalformedToken — строка не является трёхсегментным JWT.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidSignature — подпись не совпадает с ключом сервиса.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired — токен просрочен либо ещё не вступил в силу.
	ErrExpired = errors.New("token expired")
	// ErrIssuerMismatch — издатель или аудитория токена не совпадают с ожидаемыми.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
)

// DefaultTTL — срок действия токена, если при выпуске не задан иной.
const DefaultTTL = 12 * time.Hour

// ClockSkew — допустимый рассинхрон часов при проверке временных полей.
const ClockSkew = 2 * time.Minute

// Maker описывает интерфейс выпуска и проверки токенов доступа.
type Maker interface {
	// Issue выпускает подписанный токен с набором claims и сроком действия ttl.
	// Неположительный ttl заменяется значением DefaultTTL.
	Issue(cs claims.Set, ttl time.Duration) (string, error)
	// Decode проверяет подпись, издателя, аудиторию и срок действия токена
	// и возвращает его набор claims.
	Decode(tokenStr string) (claims.Set, error)
}

// MakerImpl реализует Maker на симметричном ключе подписи.
type MakerImpl struct {
	secretKey []byte
	issuer    string
	audience  string
	tokenTTL  time.Duration
}

// NewMaker создаёт MakerImpl. Ключ подписи — обязательная конфигурация
// процесса, его отсутствие должно останавливать запуск сервиса.
func NewMaker(secretKey, issuer, audience string, ttl time.Duration) *MakerImpl {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  ttl,
	}
}

// Issue выпускает подписанный токен: notBefore=now, expiry=now+ttl.
func (m *MakerImpl) Issue(cs claims.Set, ttl time.Duration) (string, error) {
	const op = "jwt.Issue"
	if ttl <= 0 {
		ttl = m.tokenTTL
	}
	now := time.Now()

	payload := jwt.MapClaims{}
	for key, value := range claims.ToWire(cs) {
		payload[key] = value
	}
	payload["iss"] = m.issuer
	payload["aud"] = m.audience
	payload["iat"] = jwt.NewNumericDate(now)
	payload["nbf"] = jwt.NewNumericDate(now)
	payload["exp"] = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Decode проверяет токен и возвращает набор claims его полезной нагрузки.
// Служебные поля (iss, aud, exp, nbf, iat) в набор не попадают.
func (m *MakerImpl) Decode(tokenStr string) (claims.Set, error) {
	const op = "jwt.Decode"

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithLeeway(ClockSkew),
		jwt.WithExpirationRequired(),
	)

	payload := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenStr, payload, func(_ *jwt.Token) (any, error) {
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapParseError(err))
	}
	if !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	wire := map[string]any{}
	for key, value := range payload {
		switch key {
		case "iss", "aud", "exp", "nbf", "iat":
			continue
		}
		wire[key] = value
	}
	return claims.FromWire(wire), nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrIssuerMismatch
	default:
		return err
	}
}
