package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskhub/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface other modules use for authentication.
type AuthPort interface {
	Register(ctx context.Context, email, password string) (*RegisterResponse, error)
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// authAdapter implements AuthPort using the service container.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new adapter for auth services.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

// Register creates a new account via the register service.
func (a *authAdapter) Register(ctx context.Context, email, password string) (*RegisterResponse, error) {
	req := RegisterRequest{Email: email, Password: password}
	var resp RegisterResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "register", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("register service call failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates via the login service.
func (a *authAdapter) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp TokenResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "login", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("login service call failed: %w", err)
	}
	return &resp, nil
}

// Refresh exchanges a refresh token via the refresh-token service.
func (a *authAdapter) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp TokenResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "refresh-token", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("refresh-token service call failed: %w", err)
	}
	return &resp, nil
}

// ValidateToken validates an access token via the validate-token service.
func (a *authAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "validate-token", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token service call failed: %w", err)
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}
	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}

// GetUser retrieves a user by ID via the get-user service.
func (a *authAdapter) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-user", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-user service call failed: %w", err)
	}
	return &domain.User{
		ID:        resp.ID,
		Email:     resp.Email,
		CreatedAt: resp.CreatedAt,
	}, nil
}
