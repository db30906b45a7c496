// Package auth verifies bearer tokens for the API. Token issuance lives in
// the accounts system; this service only validates tokens it is handed and
// extracts the owner identity they carry.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common error types for token verification
var (
	// ErrInvalidToken indicates the token is malformed, mis-signed, or
	// carries an unusable subject.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the verified identity carried by a token.
type Claims struct {
	// OwnerID is the authenticated owner's UUID, taken from the token's
	// subject claim.
	OwnerID uuid.UUID
}

// JWTVerifier validates bearer tokens and extracts their claims.
type JWTVerifier interface {
	// VerifyToken validates the token's signature and expiry and returns
	// its claims. Returns ErrExpiredToken or ErrInvalidToken on failure.
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Verify interface compliance at compile time
var _ JWTVerifier = (*hmacVerifier)(nil)

// hmacVerifier verifies HS256-signed tokens with a shared secret.
type hmacVerifier struct {
	secret []byte
}

// NewHS256Verifier creates a JWTVerifier for HS256-signed tokens.
func NewHS256Verifier(secret string) JWTVerifier {
	if secret == "" {
		panic("secret cannot be empty for HS256 verifier")
	}
	return &hmacVerifier{secret: []byte(secret)}
}

// VerifyToken implements JWTVerifier.VerifyToken.
func (v *hmacVerifier) VerifyToken(_ context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	ownerID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a UUID", ErrInvalidToken)
	}

	return &Claims{OwnerID: ownerID}, nil
}
