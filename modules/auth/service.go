package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	domain "github.com/example/taskhub/domain/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

// bcryptCost balances hashing time against brute-force resistance.
const bcryptCost = 12

// AuthService handles account registration and token lifecycle.
type AuthService struct {
	repo   *UserRepository
	tokens *TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(_ context.Context, email, password string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns a token pair.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(user.ID, user.Email)
}

// RefreshTokens exchanges a valid refresh token for a new token pair.
func (s *AuthService) RefreshTokens(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// The account may have been removed since the token was issued.
	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issueTokenPair(user.ID, user.Email)
}

// ValidateToken validates an access token and returns the identity claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

func (s *AuthService) issueTokenPair(userID, email string) (*domain.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := s.tokens.IssueRefreshToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTokenSeconds(),
		TokenType:    "Bearer",
	}, nil
}
