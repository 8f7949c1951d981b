package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	services "github.com/adityarana14/makris-portfolio/internal/services/auth"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, password, displayName string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password, displayName)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResp       *services.AuthResult
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:        "valid registration",
			requestBody: Request{Email: "new@example.com", Password: "password123", DisplayName: "New User"},
			mockResp: &services.AuthResult{
				Token:       "tok",
				Email:       "new@example.com",
				DisplayName: "New User",
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - bad email",
			requestBody:    Request{Email: "not-an-email", Password: "password123"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email must be a valid email address",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - short password",
			requestBody:    Request{Email: "new@example.com", Password: "short"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is too short",
			wantStatus:     "Error",
		},
		{
			name:           "duplicate email",
			requestBody:    Request{Email: "taken@example.com", Password: "password123"},
			mockErr:        repository.ErrUserExists,
			wantStatusCode: http.StatusConflict,
			wantError:      "user already exists",
			wantStatus:     "Error",
		},
		{
			name:           "registration failure",
			requestBody:    Request{Email: "new@example.com", Password: "password123"},
			mockErr:        errors.New("storage down"),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "failed to register user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockResp != nil || tt.mockErr != nil {
				body := tt.requestBody.(Request)
				serviceMock.On("Register", mock.Anything, body.Email, body.Password, body.DisplayName).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
