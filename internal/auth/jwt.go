// Package auth turns bearer tokens into principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
)

// Authenticator resolves a bearer token to the id of the authenticated user.
// Any failure is reported as apperrors.ErrUnauthenticated.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// Claims carries the principal in the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 principal tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "socialgraph",
		now:    time.Now,
	}
}

// Issue signs a token for userID that expires after the configured TTL.
func (m *JWTManager) Issue(userID uint) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) Authenticate(_ context.Context, tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, apperrors.ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return 0, errors.Join(apperrors.ErrUnauthenticated, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrUnauthenticated
	}
	return uint(id), nil
}
