package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	th := newThrottle(0.5, 2)
	th.now = func() time.Time { return now }

	assert.True(t, th.Allow("a"))
	assert.True(t, th.Allow("a"))
	assert.False(t, th.Allow("a"))
	assert.True(t, th.Allow("b"))

	now = now.Add(2 * time.Second)
	assert.True(t, th.Allow("a"))
	assert.False(t, th.Allow("a"))

	now = now.Add(time.Hour)
	th.Sweep()
	assert.Empty(t, th.limiters)
}
