package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestKeyManager(t *testing.T) {
	km, err := NewKeyManager([]byte(testSecret), zaptest.NewLogger(t))
	require.NoError(t, err)

	t.Run("round trip keeps user and role", func(t *testing.T) {
		token, err := km.GenerateToken(42, 3, time.Hour)
		require.NoError(t, err)

		claims, err := km.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, 3, claims.Role)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := km.GenerateToken(1, 2, -time.Minute)
		require.NoError(t, err)

		_, err = km.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other, err := NewKeyManager([]byte(testSecret+"-other"), zaptest.NewLogger(t))
		require.NoError(t, err)
		token, err := other.GenerateToken(1, 2, time.Hour)
		require.NoError(t, err)

		_, err = km.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = km.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := km.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestNewKeyManager_ShortSecret(t *testing.T) {
	_, err := NewKeyManager([]byte("short"), zaptest.NewLogger(t))
	assert.ErrorIs(t, err, ErrShortSecret)
}

func TestResolveJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	assert.Equal(t, []byte("from-config"), ResolveJWTSecret("from-config"))
	assert.Nil(t, ResolveJWTSecret(""))

	t.Setenv("JWT_SECRET_KEY", "from-env")
	assert.Equal(t, []byte("from-env"), ResolveJWTSecret("from-config"))
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret()
	require.NoError(t, err)
	b, err := RandomSecret()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, h.Compare(hash, "secret"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)

	// custo fora da faixa cai no padrão
	assert.Equal(t, 10, NewBcryptHasher(0).cost)
}
