package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adityarana14/makris-portfolio/internal/lib/claims"
	"github.com/adityarana14/makris-portfolio/internal/lib/jwt"
	"github.com/adityarana14/makris-portfolio/internal/lib/password"
	"github.com/adityarana14/makris-portfolio/internal/models"
	"github.com/adityarana14/makris-portfolio/internal/storage/repository"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserRoles(ctx context.Context, userUID string) ([]string, error) {
	args := m.Called(ctx, userUID)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func newTestMaker() *jwt.MakerImpl {
	return jwt.NewMaker("test_secret_key", "makris-portfolio", "makris-portfolio-client", 15*time.Minute)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := newTestMaker()
	svc := NewAuthService(repo, maker)

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "a@x.com" && u.Username == "a@x.com" && u.UID != "" && u.PasswordHash != "longenough1"
	})).Return("some-uid", nil).Once()

	result, err := svc.Register(context.Background(), "a@x.com", "longenough1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", result.Email)
	assert.Equal(t, "Alice", result.DisplayName)

	// Токен свежей регистрации не содержит ролей.
	cs, err := maker.Decode(result.Token)
	require.NoError(t, err)
	assert.Empty(t, cs[claims.KeyRole])
	assert.Equal(t, "a@x.com", cs.First(claims.KeyEmail))

	repo.AssertExpectations(t)
}

func TestAuthService_Register_UserExists(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := NewAuthService(repo, newTestMaker())

	repo.On("RegisterUser", mock.Anything, mock.Anything).
		Return("", repository.ErrUserExists).Once()

	result, err := svc.Register(context.Background(), "a@x.com", "longenough1", "")
	assert.ErrorIs(t, err, repository.ErrUserExists)
	assert.Nil(t, result)
}

func TestAuthService_Login_NonEnumeration(t *testing.T) {
	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)

	user := &models.User{UID: "uid-1", Email: "a@x.com", Username: "a@x.com", PasswordHash: hash}

	tests := []struct {
		name  string
		setup func(repo *UserRepositoryMock)
	}{
		{
			name: "unknown user",
			setup: func(repo *UserRepositoryMock) {
				repo.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(nil, repository.ErrUserNotFound).Once()
			},
		},
		{
			name: "wrong password",
			setup: func(repo *UserRepositoryMock) {
				repo.On("GetUserByEmail", mock.Anything, "a@x.com").
					Return(user, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepositoryMock)
			tt.setup(repo)
			svc := NewAuthService(repo, newTestMaker())

			result, err := svc.Login(context.Background(), "a@x.com", "wrong-password")

			// Обе причины отказа выглядят одинаково.
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, result)
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)

	repo := new(UserRepositoryMock)
	maker := newTestMaker()
	svc := NewAuthService(repo, maker)

	user := &models.User{UID: "uid-1", Email: "a@x.com", Username: "a@x.com", PasswordHash: hash}
	repo.On("GetUserByEmail", mock.Anything, "a@x.com").Return(user, nil).Once()
	repo.On("GetUserRoles", mock.Anything, "uid-1").Return([]string{"Premium"}, nil).Once()

	result, err := svc.Login(context.Background(), "a@x.com", "correct-password")
	require.NoError(t, err)

	cs, err := maker.Decode(result.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"Premium"}, []string(cs[claims.KeyRole]))
	assert.Equal(t, "true", cs.First(claims.KeyHasPremium))

	repo.AssertExpectations(t)
}

func TestAuthService_Refresh_PropagatesNewRoles(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := newTestMaker()
	svc := NewAuthService(repo, maker)

	user := &models.User{UID: "uid-1", Email: "a@x.com", Username: "a@x.com"}
	repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
	repo.On("GetUserRoles", mock.Anything, "uid-1").Return([]string{"Premium"}, nil).Once()

	result, err := svc.Refresh(context.Background(), "uid-1")
	require.NoError(t, err)

	cs, err := maker.Decode(result.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"Premium"}, []string(cs[claims.KeyRole]))
	assert.Equal(t, "true", cs.First(claims.KeyHasPremium))
}

func TestAuthService_Refresh_UnknownUser(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := NewAuthService(repo, newTestMaker())

	repo.On("GetUser", mock.Anything, "gone-uid").
		Return(nil, repository.ErrUserNotFound).Once()

	result, err := svc.Refresh(context.Background(), "gone-uid")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, result)
}
