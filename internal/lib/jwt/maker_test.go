package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
)

const (
	testSecret   = "test_secret_key_1234567890"
	testIssuer   = "makris-portfolio"
	testAudience = "makris-portfolio-client"
)

func newTestMaker() *MakerImpl {
	return NewMaker(testSecret, testIssuer, testAudience, 15*time.Minute)
}

func TestMaker_IssueAndDecode_ValidCases(t *testing.T) {
	maker := newTestMaker()

	tests := []struct {
		name  string
		roles []string
	}{
		{
			name:  "no roles",
			roles: nil,
		},
		{
			name:  "single role",
			roles: []string{"Premium"},
		},
		{
			name:  "several roles",
			roles: []string{"Admin", "Premium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := claims.Set{
				claims.KeySubject: {"user-1"},
				claims.KeyEmail:   {"user@example.com"},
			}
			for _, r := range tt.roles {
				cs.Add(claims.KeyRole, r)
			}

			token, err := maker.Issue(cs, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			got, err := maker.Decode(token)
			require.NoError(t, err)

			assert.Equal(t, "user-1", got.First(claims.KeySubject))
			assert.Equal(t, "user@example.com", got.First(claims.KeyEmail))
			assert.Equal(t, tt.roles, []string(got[claims.KeyRole]))
		})
	}
}

func TestMaker_Decode_InvalidTokens(t *testing.T) {
	maker := newTestMaker()

	validToken, err := maker.Issue(claims.Set{claims.KeySubject: {"user-1"}}, 0)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrMalformedToken,
		},
		{
			name:    "not a jwt",
			token:   "invalid.token.here",
			wantErr: ErrMalformedToken,
		},
		{
			name:    "wrong secret key",
			token:   issueWith(t, "wrong_secret_key", testIssuer, testAudience, 5*time.Minute),
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "tampered token",
			token:   validToken + "tampered",
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "expired beyond clock skew",
			token:   issueWith(t, testSecret, testIssuer, testAudience, -5*time.Minute),
			wantErr: ErrExpired,
		},
		{
			name:    "issuer mismatch",
			token:   issueWith(t, testSecret, "other-issuer", testAudience, 5*time.Minute),
			wantErr: ErrIssuerMismatch,
		},
		{
			name:    "audience mismatch",
			token:   issueWith(t, testSecret, testIssuer, "other-audience", 5*time.Minute),
			wantErr: ErrIssuerMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := maker.Decode(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestMaker_Decode_WithinClockSkew(t *testing.T) {
	maker := newTestMaker()

	// Просрочен на минуту — в пределах допустимого рассинхрона часов.
	token := issueWith(t, testSecret, testIssuer, testAudience, -time.Minute)

	got, err := maker.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.First(claims.KeySubject))
}

func TestMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewMaker("first_secret_key", testIssuer, testAudience, 15*time.Minute)
	maker2 := NewMaker("different_secret_key", testIssuer, testAudience, 15*time.Minute)

	token, err := maker1.Issue(claims.Set{claims.KeySubject: {"user-1"}}, 0)
	require.NoError(t, err)

	got, err := maker2.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Nil(t, got)

	got, err = maker1.Decode(token)
	assert.NoError(t, err)
	assert.NotNil(t, got)
}

// issueWith подписывает токен с заданным ключом, издателем и смещением
// срока действия относительно текущего момента.
func issueWith(t *testing.T, secret, issuer, audience string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	payload := gojwt.MapClaims{
		"sub": "user-1",
		"iss": issuer,
		"aud": audience,
		"iat": gojwt.NewNumericDate(now.Add(-10 * time.Minute)),
		"nbf": gojwt.NewNumericDate(now.Add(-10 * time.Minute)),
		"exp": gojwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, payload).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
