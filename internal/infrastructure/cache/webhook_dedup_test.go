package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopDeduplicator(t *testing.T) {
	var d NopDeduplicator
	for i := 0; i < 2; i++ {
		first, err := d.FirstDelivery(context.Background(), "abc")
		require.NoError(t, err)
		assert.True(t, first)
	}
}

func TestRedisDeduplicatorEmptyID(t *testing.T) {
	d := NewRedisDeduplicator(nil, 0)
	assert.Equal(t, DefaultWebhookTTL, d.ttl)

	first, err := d.FirstDelivery(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-redis-url")
	require.Error(t, err)
}

func TestForgetEmptyID(t *testing.T) {
	assert.NoError(t, NewRedisDeduplicator(nil, 0).Forget(context.Background(), ""))
	assert.NoError(t, NopDeduplicator{}.Forget(context.Background(), "abc"))
}
