package auth

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.Issue(42)
	require.NoError(t, err)

	id, err := m.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	good, err := m.Issue(7)
	require.NoError(t, err)

	expired := NewJWTManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(7)
	require.NoError(t, err)

	otherKey, err := NewJWTManager("other", time.Hour).Issue(7)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "7",
		Issuer:    "socialgraph",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"truncated", good[:len(good)-4]},
		{"expired", stale},
		{"wrong key", otherKey},
		{"alg none", unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Authenticate(context.Background(), tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
			assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
		})
	}
}

func TestJWTManager_RejectsMissingSubject(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "socialgraph",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Authenticate(context.Background(), signed)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
