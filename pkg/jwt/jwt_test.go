package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUtil(expiry time.Duration) *JWTUtil {
	return &JWTUtil{
		secretKey: []byte("test-secret"),
		expiry:    expiry,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	util := newTestUtil(time.Hour)

	token, err := util.GenerateToken("user123", "alice@example.com", "hr")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "hr", claims.Role)
}

func TestValidateToken_Rejections(t *testing.T) {
	util := newTestUtil(time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := util.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTestUtil(time.Hour)
		other.secretKey = []byte("different-secret")

		token, err := other.GenerateToken("user123", "alice@example.com", "hr")
		require.NoError(t, err)

		_, err = util.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := newTestUtil(-time.Minute)

		token, err := expired.GenerateToken("user123", "alice@example.com", "hr")
		require.NoError(t, err)

		_, err = util.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("reissues when close to expiry", func(t *testing.T) {
		util := newTestUtil(30 * time.Minute)

		token, err := util.GenerateToken("user123", "alice@example.com", "employee")
		require.NoError(t, err)

		refreshed, err := util.RefreshToken(token)
		require.NoError(t, err)

		claims, err := util.ValidateToken(refreshed)
		require.NoError(t, err)
		assert.Equal(t, "user123", claims.UserID)
		assert.Equal(t, "employee", claims.Role)
	})

	t.Run("keeps a fresh token as is", func(t *testing.T) {
		util := newTestUtil(24 * time.Hour)

		token, err := util.GenerateToken("user123", "alice@example.com", "employee")
		require.NoError(t, err)

		refreshed, err := util.RefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, token, refreshed)
	})
}
