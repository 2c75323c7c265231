package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService("shared-secret")

	token := signToken(t, "shared-secret", jwt.SigningMethodHS256, models.AccessClaims{
		Email: "ana@escola.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "identity-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "identity-1", claims.Subject)
	assert.Equal(t, "ana@escola.com", claims.Email)
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService("shared-secret")

	token := signToken(t, "other-secret", jwt.SigningMethodHS256, models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "identity-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService("shared-secret")

	token := signToken(t, "shared-secret", jwt.SigningMethodHS256, models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "identity-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsMissingSubject(t *testing.T) {
	svc := NewAuthService("shared-secret")

	token := signToken(t, "shared-secret", jwt.SigningMethodHS256, models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := svc.ValidateToken(token)
	assert.Error(t, err)
}
