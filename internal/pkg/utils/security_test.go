package utils

import (
	"net/http"
	"testing"
	"time"

	"medrec-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestSessionJWT(t *testing.T) {
	token, err := GenerateSessionJWT("session-1", "secret", time.Now().Add(time.Hour))
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		sessionID, err := ParseJWT(token, "secret")
		require.NoError(t, err)
		assert.Equal(t, "session-1", sessionID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseJWT(token, "other")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, exceptions.StatusCodeOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := GenerateSessionJWT("session-1", "secret", time.Now().Add(-time.Minute))
		require.NoError(t, err)
		_, err = ParseJWT(expired, "secret")
		assert.Error(t, err)
	})
}

func TestBearerToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", BearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", BearerToken(req))

	req.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", BearerToken(req))
}
