package middlewarectx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/lib/claims"

	"io"
	"log/slog"
)

// Mock for TokenDecoder
type TokenDecoderMock struct {
	mock.Mock
}

func (m *TokenDecoderMock) Decode(tokenStr string) (claims.Set, error) {
	args := m.Called(tokenStr)
	cs, _ := args.Get(0).(claims.Set)
	return cs, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware_ConcurrentRequests(t *testing.T) {
	decoderMock := new(TokenDecoderMock)
	decoderMock.On("Decode", "validtoken").Return(claims.Set{
		claims.KeySubject: {"uid-1"},
		claims.KeyName:    {"user@example.com"},
	}, nil)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := middlewarectx.JWTMiddleware(decoderMock, newNoopLogger())(nextHandler)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			req.Header.Set("Authorization", "Bearer validtoken")
			rec := httptest.NewRecorder()
			middleware.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()
}

func TestJWTMiddleware(t *testing.T) {
	decoderMock := new(TokenDecoderMock)
	logger := newNoopLogger()

	handlerCalled := false

	// Test handler which checks context values
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		principal, ok := middlewarectx.PrincipalFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", principal.Name)
		assert.True(t, principal.HasRole("Admin"))
		w.WriteHeader(http.StatusOK)
	})

	middleware := middlewarectx.JWTMiddleware(decoderMock, logger)(nextHandler)

	validSet := claims.Set{
		claims.KeySubject: {"uid-1"},
		claims.KeyName:    {"user@example.com"},
		claims.KeyEmail:   {"user@example.com"},
		claims.KeyRole:    {"Admin"},
	}

	tests := []struct {
		name           string
		authHeader     string
		mockSet        claims.Set
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token decode error",
			authHeader:     "Bearer token",
			mockSet:        nil,
			mockErr:        errors.New("token is malformed"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockSet:        validSet,
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			decoderMock.ExpectedCalls = nil // reset calls
			decoderMock.Calls = nil
			if tt.mockSet != nil || tt.mockErr != nil {
				decoderMock.On("Decode", strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockSet, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			decoderMock.AssertExpectations(t)
		})
	}
}
