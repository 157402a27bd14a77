package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskhub/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides authentication services.
type AuthModule struct {
	db      *gorm.DB
	service *AuthService
	dbPath  string
}

var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	dbPath := os.Getenv("AUTH_DB_PATH")
	if dbPath == "" {
		dbPath = "taskhub_auth.db"
	}
	return &AuthModule{dbPath: dbPath}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start opens the user database and wires up the auth service.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-in-production"
		log.Println("[auth] Warning: JWT_SECRET not set, using insecure development secret")
	}

	m.service = NewAuthService(NewUserRepository(db), NewTokenIssuer(secret, "taskhub"))

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"register": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		},
		"login": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"refresh-token": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh)
		},
		"validate-token": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken)
		},
		"get-user": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-user")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Email, req.Password)
	if err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return TokenResponse{}, err
	}
	return tokenResponse(tokens), nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return TokenResponse{}, err
	}
	return tokenResponse(tokens), nil
}

// handleValidateToken returns a response rather than an error for validation
// failures so callers can distinguish invalid tokens from transport failures.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			msg = "token expired"
		}
		return ValidateTokenResponse{Valid: false, Error: msg}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func tokenResponse(pair *domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    pair.TokenType,
	}
}
