package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/studyloop-api/internal/service/auth"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()

	verifier := auth.NewHS256Verifier(testSecret)
	ownerID := uuid.New()

	t.Run("accepts a valid token and returns its owner", func(t *testing.T) {
		t.Parallel()

		tokenString := signToken(t, testSecret, ownerID.String(), time.Now().Add(time.Hour))
		claims, err := verifier.VerifyToken(context.Background(), tokenString)

		require.NoError(t, err)
		assert.Equal(t, ownerID, claims.OwnerID)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		t.Parallel()

		tokenString := signToken(t, testSecret, ownerID.String(), time.Now().Add(-time.Hour))
		claims, err := verifier.VerifyToken(context.Background(), tokenString)

		assert.ErrorIs(t, err, auth.ErrExpiredToken)
		assert.Nil(t, claims)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		t.Parallel()

		tokenString := signToken(t, "some-other-secret-of-sufficient-len", ownerID.String(), time.Now().Add(time.Hour))
		claims, err := verifier.VerifyToken(context.Background(), tokenString)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("rejects a token whose subject is not a UUID", func(t *testing.T) {
		t.Parallel()

		tokenString := signToken(t, testSecret, "not-a-uuid", time.Now().Add(time.Hour))
		claims, err := verifier.VerifyToken(context.Background(), tokenString)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		t.Parallel()

		claims, err := verifier.VerifyToken(context.Background(), "not.a.token")

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		assert.Nil(t, claims)
	})
}
