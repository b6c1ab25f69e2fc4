package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTooManyRequestsIncludesWait(t *testing.T) {
	err := TooManyRequests("Rate limit exceeded", 90*time.Second)

	assert.Equal(t, "TOO_MANY_REQUESTS", err.Code)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, "Rate limit exceeded (retry in 1m30s)", err.Message)
}

func TestTooManyRequestsZeroWaitKeepsMessage(t *testing.T) {
	err := TooManyRequests("Rate limit exceeded", 0)

	assert.Equal(t, "Rate limit exceeded", err.Message)
}

func TestIsMatchesWrappedAppError(t *testing.T) {
	err := fmt.Errorf("create room: %w", BadRequest("Room name is required", nil))

	assert.True(t, Is(err, "BAD_REQUEST"))
	assert.False(t, Is(err, "NOT_FOUND"))
	assert.False(t, Is(fmt.Errorf("plain"), "BAD_REQUEST"))
}
