package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenClaims are the custom claims carried in issued tokens.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret.
func NewTokenIssuer(secret, issuer string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// IssueAccessToken issues a short-lived access token for the given user.
func (t *TokenIssuer) IssueAccessToken(userID, email string) (string, error) {
	return t.issue(userID, email, tokenTypeAccess, accessTokenTTL)
}

// IssueRefreshToken issues a long-lived refresh token for the given user.
func (t *TokenIssuer) IssueRefreshToken(userID, email string) (string, error) {
	return t.issue(userID, email, tokenTypeRefresh, refreshTokenTTL)
}

func (t *TokenIssuer) issue(userID, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// parse validates the signature and expiry of a token and returns its claims.
func (t *TokenIssuer) parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (t *TokenIssuer) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims, err := t.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func (t *TokenIssuer) ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	claims, err := t.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenSeconds returns the access token lifetime in seconds.
func (t *TokenIssuer) AccessTokenSeconds() int64 {
	return int64(accessTokenTTL.Seconds())
}
