package shopify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenVerifier(t *testing.T) {
	verifier := NewSessionTokenVerifier("api-key", "api-secret")

	t.Run("valid token", func(t *testing.T) {
		token, err := SignSessionToken("api-key", "api-secret", "demo.myshopify.com", "42", time.Minute)
		require.NoError(t, err)

		session, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "demo.myshopify.com", session.Shop)
		assert.Equal(t, "42", session.UserID)
		assert.WithinDuration(t, time.Now().Add(time.Minute), session.ExpiresAt, 5*time.Second)
	})

	t.Run("wrong audience", func(t *testing.T) {
		token, err := SignSessionToken("other-app", "api-secret", "demo.myshopify.com", "42", time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorContains(t, err, "audience mismatch")
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignSessionToken("api-key", "not-the-secret", "demo.myshopify.com", "42", time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := SignSessionToken("api-key", "api-secret", "demo.myshopify.com", "42", -time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.Error(t, err)
	})
}
