package auth

import (
	"context"
	"testing"

	domain "github.com/example/taskhub/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.AutoMigrate(&domain.User{}), "failed to migrate test database")

	return NewAuthService(NewUserRepository(db), NewTokenIssuer("test-secret", "taskhub-test"))
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	t.Run("valid registration", func(t *testing.T) {
		user, err := svc.Register(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice@example.com", "another-pass")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Register(ctx, "not-an-email", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob@example.com", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	t.Run("valid login", func(t *testing.T) {
		tokens, err := svc.Login(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, "Bearer", tokens.TokenType)

		claims, err := svc.ValidateToken(ctx, tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("refresh with refresh token", func(t *testing.T) {
		tokens, err := svc.Login(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)

		renewed, err := svc.RefreshTokens(ctx, tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, renewed.AccessToken)
	})

	t.Run("refresh with access token rejected", func(t *testing.T) {
		tokens, err := svc.Login(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)

		_, err = svc.RefreshTokens(ctx, tokens.AccessToken)
		assert.Error(t, err)
	})
}
