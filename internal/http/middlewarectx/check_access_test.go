package middlewarectx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adityarana14/makris-portfolio/internal/http/middlewarectx"
	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/models"
	"github.com/adityarana14/makris-portfolio/internal/policy"
)

func requestWithPrincipal(p models.Principal) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.PrincipalKey, p)
	return req.WithContext(ctx)
}

func TestRequirePolicy(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		principal      *models.Principal
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "no principal in context",
			principal:      nil,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "principal without premium",
			principal:      &models.Principal{Name: "user@example.com", Roles: []string{"User"}},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "principal with premium role",
			principal:      &models.Principal{Name: "user@example.com", Roles: []string{claims.RolePremium}},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name: "principal with premium claim only",
			principal: &models.Principal{
				Name:  "user@example.com",
				Extra: map[string][]string{claims.KeyHasPremium: {"true"}},
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})
			middleware := middlewarectx.RequirePolicy(policy.NamePremium, logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.principal != nil {
				req = requestWithPrincipal(*tt.principal)
			}
			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestRequireRole(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		principal      *models.Principal
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "no principal in context",
			principal:      nil,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "principal without role",
			principal:      &models.Principal{Name: "user@example.com", Roles: []string{"User"}},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "principal with role",
			principal:      &models.Principal{Name: "admin@example.com", Roles: []string{"Admin"}},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "role comparison is case-insensitive",
			principal:      &models.Principal{Name: "admin@example.com", Roles: []string{"admin"}},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})
			middleware := middlewarectx.RequireRole(claims.RoleAdmin, logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.principal != nil {
				req = requestWithPrincipal(*tt.principal)
			}
			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
