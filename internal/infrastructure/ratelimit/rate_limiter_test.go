package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	bucket := NewTokenBucket(2, 1, time.Minute)
	assert.Equal(t, 2, bucket.GetTokens())

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)
	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
	assert.Equal(t, 0, bucket.GetTokens())

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
	assert.Equal(t, 0, bucket.GetTokens(), "a rejected attempt consumes nothing")
}

func TestAllowIsPerUserAndAction(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("alice", "create_room")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("alice", "create_room")
	assert.False(t, allowed, "sixth room creation within the hour is rejected")

	allowed, _ = limiter.Allow("bob", "create_room")
	assert.True(t, allowed, "another user has their own bucket")

	allowed, _ = limiter.Allow("alice", "send_message")
	assert.True(t, allowed, "another action has its own bucket")
}
