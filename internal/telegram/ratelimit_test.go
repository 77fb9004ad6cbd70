package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.IsAllowed(1))
	assert.True(t, rl.IsAllowed(1))
	assert.False(t, rl.IsAllowed(1))
	assert.True(t, rl.IsAllowed(2))

	now = now.Add(time.Minute)
	assert.True(t, rl.IsAllowed(1))

	now = now.Add(2 * time.Minute)
	rl.Cleanup()
	assert.Empty(t, rl.requests)
}
