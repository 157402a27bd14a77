package auth

import (
	"errors"
	"testing"
)

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "taskhub-test")

	t.Run("access token round trip", func(t *testing.T) {
		token, err := issuer.IssueAccessToken("user-1", "alice@example.com")
		if err != nil {
			t.Fatalf("IssueAccessToken() error = %v", err)
		}

		claims, err := issuer.ValidateAccessToken(token)
		if err != nil {
			t.Fatalf("ValidateAccessToken() error = %v", err)
		}
		if claims.UserID != "user-1" {
			t.Errorf("expected user ID %q, got %q", "user-1", claims.UserID)
		}
		if claims.Email != "alice@example.com" {
			t.Errorf("expected email %q, got %q", "alice@example.com", claims.Email)
		}
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		token, err := issuer.IssueRefreshToken("user-1", "alice@example.com")
		if err != nil {
			t.Fatalf("IssueRefreshToken() error = %v", err)
		}

		if _, err := issuer.ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
		if _, err := issuer.ValidateRefreshToken(token); err != nil {
			t.Errorf("ValidateRefreshToken() error = %v", err)
		}
	})

	t.Run("token signed with different secret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", "taskhub-test")
		token, err := other.IssueAccessToken("user-1", "alice@example.com")
		if err != nil {
			t.Fatalf("IssueAccessToken() error = %v", err)
		}

		if _, err := issuer.ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := issuer.ValidateAccessToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
