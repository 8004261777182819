package service

import (
	"context"
	"testing"
	"time"

	"github.com/friendlines/interview-api/internal/domain"
	"github.com/friendlines/interview-api/internal/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(users *MockUserRepository) *AuthService {
	return NewAuthService(users, security.NewJWTManager("test-secret", 15*time.Minute, time.Hour))
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("EmailExists", mock.Anything, "ava@example.com").Return(false, nil)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, domain.UserCreate{
			Email:       "ava@example.com",
			DisplayName: "Ava",
			Password:    "hunter2hunter2",
		})
		require.NoError(t, err)

		assert.Equal(t, "ava@example.com", user.Email)
		assert.Equal(t, "Ava", user.DisplayName)
		assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
	})

	t.Run("duplicate email is a validation error", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("EmailExists", mock.Anything, "ava@example.com").Return(true, nil)

		_, err := svc.Register(ctx, domain.UserCreate{Email: "ava@example.com", Password: "pw"})
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	storedUser := &domain.User{
		ID:           uuid.New(),
		Email:        "ava@example.com",
		DisplayName:  "Ava",
		PasswordHash: string(hash),
	}

	t.Run("valid credentials return a token pair", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("GetByEmail", mock.Anything, "ava@example.com").Return(storedUser, nil)

		pair, err := svc.Login(ctx, domain.UserLogin{Email: "ava@example.com", Password: "hunter2hunter2"})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, int64(900), pair.ExpiresIn)
	})

	t.Run("wrong password is forbidden", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("GetByEmail", mock.Anything, "ava@example.com").Return(storedUser, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "ava@example.com", Password: "wrong"})
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("unknown email is forbidden", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "ghost@example.com", Password: "pw"})
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	storedUser := &domain.User{ID: uuid.New(), Email: "ava@example.com"}

	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("GetByEmail", mock.Anything, mock.Anything).Return(storedUser, nil)
		users.On("GetByID", mock.Anything, storedUser.ID).Return(storedUser, nil)

		hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
		require.NoError(t, err)
		storedUser.PasswordHash = string(hash)

		pair, err := svc.Login(ctx, domain.UserLogin{Email: "ava@example.com", Password: "pw"})
		require.NoError(t, err)

		refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)
	})

	t.Run("garbage token is forbidden", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		_, err := svc.Refresh(ctx, "not-a-token")
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("deleted user is not found", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := newAuthService(users)

		users.On("GetByID", mock.Anything, storedUser.ID).Return(nil, nil)

		manager := security.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
		token, err := manager.GenerateRefreshToken(storedUser.ID)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, token)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}
