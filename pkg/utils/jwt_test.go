package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vidhub/backend/internal/models"
)

func configureJWTForTest(t *testing.T, secret string, expirationHours int) {
	t.Helper()

	originalSecret := append([]byte(nil), jwtSecret...)
	originalExpiration := jwtExpirationHours

	t.Cleanup(func() {
		jwtSecret = originalSecret
		jwtExpirationHours = originalExpiration
	})

	ConfigureJWT(secret, expirationHours)
}

func TestConfigureJWT(t *testing.T) {
	t.Run("updates secret and expiration when valid values are provided", func(t *testing.T) {
		configureJWTForTest(t, "test-secret", 72)

		if got := string(jwtSecret); got != "test-secret" {
			t.Fatalf("expected jwt secret to be %q, got %q", "test-secret", got)
		}
		if jwtExpirationHours != 72 {
			t.Fatalf("expected jwt expiration to be %d, got %d", 72, jwtExpirationHours)
		}
	})

	t.Run("ignores empty secret and non-positive expiration", func(t *testing.T) {
		configureJWTForTest(t, "initial-secret", 24)

		ConfigureJWT("", 0)

		if got := string(jwtSecret); got != "initial-secret" {
			t.Fatalf("expected jwt secret to remain %q, got %q", "initial-secret", got)
		}
		if jwtExpirationHours != 24 {
			t.Fatalf("expected jwt expiration to remain %d, got %d", 24, jwtExpirationHours)
		}
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Run("generates and validates token for a user", func(t *testing.T) {
		configureJWTForTest(t, "roundtrip-secret", 1)

		user := &models.User{
			BaseModel: models.BaseModel{ID: 42},
			Email:     "user@example.com",
		}

		token, err := GenerateToken(user)
		if err != nil {
			t.Fatalf("expected token generation to succeed, got error: %v", err)
		}

		claims, err := ValidateToken(token)
		if err != nil {
			t.Fatalf("expected token validation to succeed, got error: %v", err)
		}

		if claims.UserID != user.ID {
			t.Fatalf("expected claims userID %d, got %d", user.ID, claims.UserID)
		}
		if claims.Subject != "42" {
			t.Fatalf("expected subject %q, got %q", "42", claims.Subject)
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
			t.Fatalf("expected token to have a future expiration, got %v", claims.ExpiresAt)
		}
		if claims.IssuedAt == nil {
			t.Fatalf("expected token to carry an issued-at claim")
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		configureJWTForTest(t, "expired-secret", 1)

		expiredClaims := Claims{
			UserID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims)
		signed, err := token.SignedString(jwtSecret)
		if err != nil {
			t.Fatalf("failed signing expired token: %v", err)
		}

		if _, err := ValidateToken(signed); err == nil {
			t.Fatalf("expected expired token to be rejected")
		}
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		configureJWTForTest(t, "secret-one", 1)

		user := &models.User{BaseModel: models.BaseModel{ID: 1}}
		token, err := GenerateToken(user)
		if err != nil {
			t.Fatalf("failed generating token: %v", err)
		}

		ConfigureJWT("secret-two", 1)

		if _, err := ValidateToken(token); err == nil {
			t.Fatalf("expected token with mismatched secret to be rejected")
		}
	})

	t.Run("rejects token with an unexpected signing method", func(t *testing.T) {
		configureJWTForTest(t, "method-secret", 1)

		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("failed signing token: %v", err)
		}

		if _, err := ValidateToken(signed); err == nil {
			t.Fatalf("expected unsigned token to be rejected")
		}
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		configureJWTForTest(t, "garbage-secret", 1)

		for _, input := range []string{"", "not-a-token", strings.Repeat("x", 100)} {
			if _, err := ValidateToken(input); err == nil {
				t.Fatalf("expected %q to be rejected", input)
			}
		}
	})
}
